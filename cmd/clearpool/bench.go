package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/clearpool/internal/stress"
	"github.com/ajitpratap0/clearpool/pkg/compression"
	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/logger"
	"github.com/ajitpratap0/clearpool/pkg/report"
)

func newBenchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the stress workloads once and print a report",
		Long: `Run checkout/mutate/return cycles against each configured pool and print
the measurements to stdout, or to a file when --output is set.

Example:
  clearpool bench --pools slice,map --workers 16 --cycles 10000 --format yaml
  clearpool bench --compress zstd --output report.json.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cleanup, err := setup(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cleanup()

			runner, err := stress.NewRunner(cfg, logger.Get())
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), cfg.Report, result)
		},
	}

	cmd.Flags().String("format", "json", "Report format (json, yaml)")
	cmd.Flags().String("compress", "none", "Report compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	bindFlags(v, cmd.Flags(), map[string]string{
		"format":   "report.format",
		"compress": "report.compression",
		"output":   "report.output",
	})
	return cmd
}

// createReport opens the report file; tests replace it.
var createReport = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeReport writes result to rc.Output, or to stdout when no output file
// is set. A report file that fails to close is reported as a file error.
func writeReport(stdout io.Writer, rc config.ReportConfig, result *stress.Result) (err error) {
	alg, err := compression.ParseAlgorithm(rc.Compression)
	if err != nil {
		return err
	}

	if rc.Output == "" {
		return encodeReport(stdout, rc.Format, alg, result)
	}

	f, err := createReport(rc.Output)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create report file").
			WithDetail("path", rc.Output)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close report file").
				WithDetail("path", rc.Output)
		}
	}()
	return encodeReport(f, rc.Format, alg, result)
}

func encodeReport(w io.Writer, format string, alg compression.Algorithm, result *stress.Result) error {
	if alg == compression.None {
		return report.Write(w, format, result)
	}
	return report.WriteCompressed(w, format, alg, result)
}

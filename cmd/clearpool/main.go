package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/logger"
	"github.com/ajitpratap0/clearpool/pkg/observability"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "clearpool",
		Short: "clearpool - pools of reusable, clearable containers",
		Long: `clearpool exercises pools of clearable containers under concurrent load.
It verifies that every borrowed container starts empty and that no container is
held by two goroutines at once, and reports throughput and pool statistics.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.StringSlice("pools", nil, "Pools to exercise: "+strings.Join(config.PoolKinds, ", "))
	flags.Int("workers", runtime.NumCPU(), "Goroutines per pool")
	flags.Int("cycles", 1000, "Checkout/return cycles per goroutine")
	flags.Int("elements", 64, "Elements written into each container per cycle")
	flags.Int("prewarm", runtime.NumCPU(), "Instances added to each pool before running")
	flags.String("storage", config.StorageLocked, "Idle list storage: locked (shared pool) or local (pool per goroutine)")
	flags.Duration("timeout", 0, "Abort a run after this long (0 for no limit)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("trace-exporter", "none", "OpenTelemetry trace exporter (none, stdout)")
	flags.Float64("sample-rate", 0.1, "Fraction of workloads traced")

	bindFlags(v, flags, map[string]string{
		"config":         "config",
		"pools":          "workload.pools",
		"workers":        "workload.workers",
		"cycles":         "workload.cycles",
		"elements":       "workload.elements",
		"prewarm":        "workload.prewarm",
		"storage":        "workload.storage",
		"timeout":        "workload.timeout",
		"log-level":      "logging.level",
		"trace-exporter": "tracing.exporter",
		"sample-rate":    "tracing.sample_rate",
	})
	v.SetEnvPrefix("CLEARPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clearpool v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newBenchCmd(v))
	root.AddCommand(newServeCmd(v))

	return root
}

// setup loads the configuration and installs logging, tracing and metrics.
// The returned cleanup flushes all of them.
func setup(ctx context.Context, v *viper.Viper) (*config.BenchConfig, *observability.Provider, func(), error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := logger.Init(logger.Config{
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
		// stdout carries the report
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return nil, nil, nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version
	obsCfg.ExporterType = cfg.Tracing.Exporter
	obsCfg.SamplingRate = cfg.Tracing.SampleRate
	if cfg.Metrics.OTLPEndpoint != "" {
		obsCfg.OTLPEndpoint = cfg.Metrics.OTLPEndpoint
		obsCfg.OTLPInsecure = cfg.Metrics.OTLPInsecure
	}
	obsCfg.MetricInterval = cfg.Metrics.Interval
	provider, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("observability shutdown failed", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return cfg, provider, cleanup, nil
}

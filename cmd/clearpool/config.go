package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/clearpool/pkg/config"
)

// bindFlags binds each flag to its configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

// loadConfig layers the configuration: defaults, then the YAML file, then
// CLEARPOOL_* environment variables and explicitly set flags.
func loadConfig(v *viper.Viper) (*config.BenchConfig, error) {
	cfg := config.NewBenchConfig()
	if path := v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}

	w := &cfg.Workload
	if v.IsSet("workload.pools") {
		w.Pools = splitList(v.GetStringSlice("workload.pools"))
	}
	if v.IsSet("workload.workers") {
		w.Workers = v.GetInt("workload.workers")
	}
	if v.IsSet("workload.cycles") {
		w.Cycles = v.GetInt("workload.cycles")
	}
	if v.IsSet("workload.elements") {
		w.Elements = v.GetInt("workload.elements")
	}
	if v.IsSet("workload.prewarm") {
		w.Prewarm = v.GetInt("workload.prewarm")
	}
	if v.IsSet("workload.storage") {
		w.Storage = v.GetString("workload.storage")
	}
	if v.IsSet("workload.timeout") {
		w.Timeout = v.GetDuration("workload.timeout")
	}
	if v.IsSet("metrics.listen_addr") {
		cfg.Metrics.ListenAddr = v.GetString("metrics.listen_addr")
	}
	if v.IsSet("metrics.interval") {
		cfg.Metrics.Interval = v.GetDuration("metrics.interval")
	}
	if v.IsSet("metrics.otlp_endpoint") {
		cfg.Metrics.OTLPEndpoint = v.GetString("metrics.otlp_endpoint")
	}
	if v.IsSet("metrics.otlp_insecure") {
		cfg.Metrics.OTLPInsecure = v.GetBool("metrics.otlp_insecure")
	}
	if v.IsSet("tracing.exporter") {
		cfg.Tracing.Exporter = v.GetString("tracing.exporter")
	}
	if v.IsSet("tracing.sample_rate") {
		cfg.Tracing.SampleRate = v.GetFloat64("tracing.sample_rate")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("report.format") {
		cfg.Report.Format = v.GetString("report.format")
	}
	if v.IsSet("report.compression") {
		cfg.Report.Compression = v.GetString("report.compression")
	}
	if v.IsSet("report.output") {
		cfg.Report.Output = v.GetString("report.output")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both repeated values and comma separated lists.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

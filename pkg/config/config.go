// Package config provides the configuration for the clearpool stress tool.
// It defines a single BenchConfig structure loaded from YAML, flags and
// environment.
//
// The configuration is organized into logical sections:
//   - Workload: which pools to exercise and how hard
//   - Metrics: Prometheus listen address, round interval and OTLP export
//   - Tracing: OpenTelemetry exporter and sampling
//   - Logging: log level and encoding
//   - Report: output format, compression and destination for bench results
//
// Example usage:
//
//	cfg := config.NewBenchConfig()
//	cfg.Workload.Workers = 32
//	cfg.Workload.Storage = config.StorageLocked
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"
	"slices"
	"time"

	"github.com/ajitpratap0/clearpool/pkg/compression"
	"github.com/ajitpratap0/clearpool/pkg/errors"
)

// Storage kinds a workload can run against.
const (
	StorageLocked = "locked"
	StorageLocal  = "local"
)

// PoolKinds lists the container pools the stress tool knows how to drive.
var PoolKinds = []string{"slice", "map", "set", "string", "deque", "heap", "bitset"}

// BenchConfig is the configuration for bench and serve runs.
type BenchConfig struct {
	// Name identifies the run in logs and reports
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Workload describes the checkout/mutate/return cycles to run
	Workload WorkloadConfig `yaml:"workload" json:"workload" mapstructure:"workload"`

	// Metrics configures the Prometheus endpoint used by serve
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`

	// Tracing configures OpenTelemetry spans around workloads
	Tracing TracingConfig `yaml:"tracing" json:"tracing" mapstructure:"tracing"`

	// Logging configures the global logger
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Report configures result output
	Report ReportConfig `yaml:"report" json:"report" mapstructure:"report"`
}

// WorkloadConfig contains the stress workload settings.
type WorkloadConfig struct {
	// Pools lists the container pools to exercise, from PoolKinds
	Pools []string `yaml:"pools" json:"pools" mapstructure:"pools"`
	// Workers is the number of goroutines per pool
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
	// Cycles is the number of checkout/return cycles per worker
	Cycles int `yaml:"cycles" json:"cycles" mapstructure:"cycles"`
	// Elements is how many elements each cycle writes into the container
	Elements int `yaml:"elements" json:"elements" mapstructure:"elements"`
	// Prewarm is the number of instances added to each pool before the run
	Prewarm int `yaml:"prewarm" json:"prewarm" mapstructure:"prewarm"`
	// Storage selects locked (shared) or local (one pool per worker) storage
	Storage string `yaml:"storage" json:"storage" mapstructure:"storage"`
	// Timeout bounds a bench run; zero means no limit
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// MetricsConfig contains Prometheus and OpenTelemetry metric settings.
type MetricsConfig struct {
	// ListenAddr is the address serve exposes /metrics on
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" mapstructure:"listen_addr"`
	// Interval is the pause between workload rounds in serve, and the OTLP
	// export interval
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`
	// OTLPEndpoint is an OTLP/HTTP collector that pool metrics are pushed
	// to; empty disables the push
	OTLPEndpoint string `yaml:"otlp_endpoint" json:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	// OTLPInsecure sends OTLP over plain HTTP
	OTLPInsecure bool `yaml:"otlp_insecure" json:"otlp_insecure" mapstructure:"otlp_insecure"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Exporter is "none" or "stdout"
	Exporter string `yaml:"exporter" json:"exporter" mapstructure:"exporter"`
	// SampleRate is the fraction of workloads traced
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate" mapstructure:"sample_rate"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level" mapstructure:"level"`
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
}

// ReportConfig contains report settings.
type ReportConfig struct {
	// Format is "json" or "yaml"
	Format string `yaml:"format" json:"format" mapstructure:"format"`
	// Compression is a compression algorithm name; empty or "none" writes plain text
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// Output is a file path; empty means stdout
	Output string `yaml:"output" json:"output" mapstructure:"output"`
}

// NewBenchConfig creates a BenchConfig with defaults that finish in well
// under a second on a laptop.
func NewBenchConfig() *BenchConfig {
	return &BenchConfig{
		Name: "clearpool",
		Workload: WorkloadConfig{
			Pools:    []string{"slice", "map", "string"},
			Workers:  runtime.NumCPU(),
			Cycles:   1000,
			Elements: 64,
			Prewarm:  runtime.NumCPU(),
			Storage:  StorageLocked,
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9090",
			Interval:   time.Second,
		},
		Tracing: TracingConfig{
			Exporter:   "none",
			SampleRate: 0.1,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Report: ReportConfig{
			Format:      "json",
			Compression: string(compression.None),
		},
	}
}

// Validate validates the configuration for correctness.
func (c *BenchConfig) Validate() error {
	w := c.Workload
	if len(w.Pools) == 0 {
		return validation("workload.pools", "at least one pool is required")
	}
	for _, kind := range w.Pools {
		if !slices.Contains(PoolKinds, kind) {
			return validation("workload.pools", "unknown pool kind").WithDetail("kind", kind)
		}
	}
	if w.Workers <= 0 {
		return validation("workload.workers", "must be positive")
	}
	if w.Cycles <= 0 {
		return validation("workload.cycles", "must be positive")
	}
	if w.Elements < 0 {
		return validation("workload.elements", "cannot be negative")
	}
	if w.Prewarm < 0 {
		return validation("workload.prewarm", "cannot be negative")
	}
	if w.Storage != StorageLocked && w.Storage != StorageLocal {
		return validation("workload.storage", "must be locked or local").WithDetail("storage", w.Storage)
	}
	if w.Timeout < 0 {
		return validation("workload.timeout", "cannot be negative")
	}
	if c.Metrics.Interval <= 0 {
		return validation("metrics.interval", "must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return validation("tracing.sample_rate", "must be between 0 and 1")
	}
	if c.Report.Format != "json" && c.Report.Format != "yaml" {
		return validation("report.format", "must be json or yaml").WithDetail("format", c.Report.Format)
	}
	if _, err := compression.ParseAlgorithm(c.Report.Compression); err != nil {
		return validation("report.compression", "unsupported algorithm").WithDetail("compression", c.Report.Compression)
	}
	return nil
}

// IsShared reports whether workers share one pool per kind.
func (w *WorkloadConfig) IsShared() bool {
	return w.Storage != StorageLocal
}

func validation(field, message string) *errors.Error {
	return errors.New(errors.ErrorTypeValidation, field+": "+message).WithDetail("field", field)
}

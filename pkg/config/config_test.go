package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/clearpool/pkg/errors"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, NewBenchConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BenchConfig)
		field  string
	}{
		{"no pools", func(c *BenchConfig) { c.Workload.Pools = nil }, "workload.pools"},
		{"unknown pool", func(c *BenchConfig) { c.Workload.Pools = []string{"tree"} }, "workload.pools"},
		{"zero workers", func(c *BenchConfig) { c.Workload.Workers = 0 }, "workload.workers"},
		{"zero cycles", func(c *BenchConfig) { c.Workload.Cycles = 0 }, "workload.cycles"},
		{"negative elements", func(c *BenchConfig) { c.Workload.Elements = -1 }, "workload.elements"},
		{"negative prewarm", func(c *BenchConfig) { c.Workload.Prewarm = -1 }, "workload.prewarm"},
		{"bad storage", func(c *BenchConfig) { c.Workload.Storage = "sharded" }, "workload.storage"},
		{"negative timeout", func(c *BenchConfig) { c.Workload.Timeout = -time.Second }, "workload.timeout"},
		{"zero interval", func(c *BenchConfig) { c.Metrics.Interval = 0 }, "metrics.interval"},
		{"negative interval", func(c *BenchConfig) { c.Metrics.Interval = -time.Second }, "metrics.interval"},
		{"sample rate", func(c *BenchConfig) { c.Tracing.SampleRate = 2 }, "tracing.sample_rate"},
		{"report format", func(c *BenchConfig) { c.Report.Format = "xml" }, "report.format"},
		{"report compression", func(c *BenchConfig) { c.Report.Compression = "rar" }, "report.compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewBenchConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

			var e *errors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.field, e.Details["field"])
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")

	cfg := NewBenchConfig()
	cfg.Workload.Pools = []string{"bitset"}
	cfg.Workload.Timeout = 3 * time.Second
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadBench(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	err := Load(filepath.Join(dir, "missing.yaml"), NewBenchConfig())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workload: [unclosed"), 0600))
	err = Load(bad, NewBenchConfig())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("workload:\n  storage: shared\n"), 0600))
	_, err = LoadBench(invalid)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("CP_A", "alpha")
	t.Setenv("CP_B", "${CP_A}")

	assert.Equal(t, "x alpha y", substituteEnvVars("x ${CP_A} y"))
	assert.Equal(t, "missing: ", substituteEnvVars("missing: ${CP_UNSET_VAR}"))
	// substituted values are not expanded again
	assert.Equal(t, "${CP_A}", substituteEnvVars("${CP_B}"))
	assert.Equal(t, "open ${CP_A", substituteEnvVars("open ${CP_A"))
}

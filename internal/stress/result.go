package stress

import (
	"time"

	"github.com/ajitpratap0/clearpool/pkg/performance"
	"github.com/ajitpratap0/clearpool/pkg/pool"
)

// Result is the outcome of one stress run.
type Result struct {
	Name            string                     `json:"name" yaml:"name"`
	Storage         string                     `json:"storage" yaml:"storage"`
	Workers         int                        `json:"workers" yaml:"workers"`
	Cycles          int                        `json:"cycles" yaml:"cycles"`
	Elements        int                        `json:"elements" yaml:"elements"`
	StartedAt       time.Time                  `json:"started_at" yaml:"started_at"`
	Duration        time.Duration              `json:"duration" yaml:"duration"`
	Pools           []PoolResult               `json:"pools" yaml:"pools"`
	ResourcesBefore *performance.ResourceUsage `json:"resources_before,omitempty" yaml:"resources_before,omitempty"`
	ResourcesAfter  *performance.ResourceUsage `json:"resources_after,omitempty" yaml:"resources_after,omitempty"`
}

// Operations returns the number of cycles across all pools.
func (r *Result) Operations() int64 {
	var total int64
	for _, p := range r.Pools {
		total += p.Operations
	}
	return total
}

// PoolResult holds the measurements for one pool kind.
type PoolResult struct {
	Kind            string        `json:"kind" yaml:"kind"`
	Operations      int64         `json:"operations" yaml:"operations"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
	OpsPerSecond    float64       `json:"ops_per_second" yaml:"ops_per_second"`
	CycleLatencyP50 time.Duration `json:"cycle_latency_p50" yaml:"cycle_latency_p50"`
	CycleLatencyP99 time.Duration `json:"cycle_latency_p99" yaml:"cycle_latency_p99"`
	Idle            int           `json:"idle" yaml:"idle"`
	IdleKnown       bool          `json:"idle_known" yaml:"idle_known"`
	Stats           pool.Stats    `json:"stats" yaml:"stats"`
}

package testutil

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// MemoryProfile captures memory statistics
type MemoryProfile struct {
	AllocBytes uint64
	TotalAlloc uint64
	Mallocs    uint64
	Frees      uint64
	HeapInuse  uint64
}

// CaptureMemoryProfile captures current memory profile
func CaptureMemoryProfile() *MemoryProfile {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &MemoryProfile{
		AllocBytes: m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		Frees:      m.Frees,
		HeapInuse:  m.HeapInuse,
	}
}

// AllocationTest runs a workload and checks its throughput and heap
// allocation against targets.
type AllocationTest struct {
	t         *testing.T
	name      string
	threshold struct {
		minThroughput   float64 // ops/sec
		maxBytesPerOp   float64
		maxMallocsPerOp float64
	}
}

// NewAllocationTest creates a new allocation test
func NewAllocationTest(t *testing.T, name string) *AllocationTest {
	return &AllocationTest{
		t:    t,
		name: name,
	}
}

// WithThroughputTarget sets minimum throughput requirement
func (a *AllocationTest) WithThroughputTarget(opsPerSec float64) *AllocationTest {
	a.threshold.minThroughput = opsPerSec
	return a
}

// WithBytesPerOpTarget sets the maximum heap bytes allocated per operation
func (a *AllocationTest) WithBytesPerOpTarget(maxBytes float64) *AllocationTest {
	a.threshold.maxBytesPerOp = maxBytes
	return a
}

// WithMallocsPerOpTarget sets the maximum heap allocations per operation
func (a *AllocationTest) WithMallocsPerOpTarget(maxMallocs float64) *AllocationTest {
	a.threshold.maxMallocsPerOp = maxMallocs
	return a
}

// Run executes fn, which reports how many operations it performed
func (a *AllocationTest) Run(fn func() (ops int64)) {
	a.t.Helper()

	runtime.GC()
	before := CaptureMemoryProfile()
	start := time.Now()

	ops := fn()

	duration := time.Since(start)
	after := CaptureMemoryProfile()

	if ops <= 0 {
		a.t.Fatalf("%s: workload reported %d operations", a.name, ops)
	}

	throughput := float64(ops) / duration.Seconds()
	bytesPerOp := float64(after.TotalAlloc-before.TotalAlloc) / float64(ops)
	mallocsPerOp := float64(after.Mallocs-before.Mallocs) / float64(ops)

	a.t.Logf("Allocation Test: %s", a.name)
	a.t.Logf("  Operations: %d", ops)
	a.t.Logf("  Duration: %v", duration)
	a.t.Logf("  Throughput: %.0f ops/sec", throughput)
	a.t.Logf("  Allocated: %s (%.1f B/op, %.2f allocs/op)",
		FormatBytes(int64(after.TotalAlloc-before.TotalAlloc)), bytesPerOp, mallocsPerOp)

	if a.threshold.minThroughput > 0 && throughput < a.threshold.minThroughput {
		a.t.Errorf("Throughput %.0f ops/sec below target %.0f ops/sec",
			throughput, a.threshold.minThroughput)
	}

	if a.threshold.maxBytesPerOp > 0 && bytesPerOp > a.threshold.maxBytesPerOp {
		a.t.Errorf("Allocation %.1f B/op exceeds target %.1f B/op",
			bytesPerOp, a.threshold.maxBytesPerOp)
	}

	if a.threshold.maxMallocsPerOp > 0 && mallocsPerOp > a.threshold.maxMallocsPerOp {
		a.t.Errorf("Allocation %.2f allocs/op exceeds target %.2f allocs/op",
			mallocsPerOp, a.threshold.maxMallocsPerOp)
	}
}

// FormatBytes formats bytes into human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

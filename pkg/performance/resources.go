// Package performance samples process resources for clearpool workloads
package performance

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ajitpratap0/clearpool/pkg/errors"
)

// ResourceMonitor monitors the resources of the current process
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// NewResourceMonitor creates a resource monitor for the current process
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCapability, "process metrics unavailable")
	}

	rm := &ResourceMonitor{
		process:   proc,
		startTime: time.Now(),
	}
	if cpuTime, err := proc.Times(); err == nil {
		rm.startCPUTime = cpuTime.Total()
	}
	return rm, nil
}

// Reset restarts the CPU measurement window
func (rm *ResourceMonitor) Reset() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.startTime = time.Now()
	if cpuTime, err := rm.process.Times(); err == nil {
		rm.startCPUTime = cpuTime.Total()
	}
}

// GetResourceUsage returns current resource usage. Fields the platform
// cannot report are left zero.
func (rm *ResourceMonitor) GetResourceUsage() *ResourceUsage {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	usage := &ResourceUsage{}

	// CPU usage since the last reset
	if cpuTime, err := rm.process.Times(); err == nil {
		if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
			usage.CPUPercent = ((cpuTime.Total() - rm.startCPUTime) / elapsed) * 100
		}
	}

	if memInfo, err := rm.process.MemoryInfo(); err == nil {
		usage.MemoryRSS = memInfo.RSS
		usage.MemoryVMS = memInfo.VMS
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAlloc = memStats.HeapAlloc
	usage.NumGC = memStats.NumGC

	usage.GoroutineCount = runtime.NumGoroutine()
	usage.ThreadCount, _ = rm.process.NumThreads()

	return usage
}

// ResourceUsage contains resource usage information
type ResourceUsage struct {
	CPUPercent          float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryRSS           uint64  `json:"memory_rss" yaml:"memory_rss"`
	MemoryVMS           uint64  `json:"memory_vms" yaml:"memory_vms"`
	SystemMemoryPercent float64 `json:"system_memory_percent" yaml:"system_memory_percent"`
	HeapAlloc           uint64  `json:"heap_alloc" yaml:"heap_alloc"`
	NumGC               uint32  `json:"num_gc" yaml:"num_gc"`
	GoroutineCount      int     `json:"goroutines" yaml:"goroutines"`
	ThreadCount         int32   `json:"threads" yaml:"threads"`
}

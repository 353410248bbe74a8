// Package metrics exports pool statistics and stress workload measurements
// as Prometheus metrics.
//
// # Basic Usage
//
//	collector := metrics.NewPoolCollector()
//	collector.Add(slices, maps)
//	prometheus.MustRegister(collector)
//
//	// Track workload latency
//	timer := metrics.NewTimer("checkout")
//	runCycle()
//	metrics.OperationLatency.WithLabelValues("slices", "cycle").
//	    Observe(float64(timer.Stop().Nanoseconds()))
//
//	// Track throughput
//	tracker := metrics.NewThroughputTracker("slices")
//	for range cycles {
//	    runCycle()
//	    tracker.Increment(1)
//	}
//	throughput := tracker.GetAndReset()
//
// Pool metrics are read from pool.Source at scrape time, so the pools keep
// only their own atomic counters on the hot path.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/clearpool/pkg/pool"
)

var (
	// OperationsTotal counts stress workload operations.
	// Labels: pool, status (ok/failed)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clearpool_operations_total",
			Help: "Total number of workload operations",
		},
		[]string{"pool", "status"},
	)

	// OperationLatency tracks the distribution of operation latencies in nanoseconds.
	// Labels: pool, operation
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "clearpool_operation_latency_nanoseconds",
			Help: "Operation latency in nanoseconds",
			Buckets: []float64{
				100,    // 100ns - pool hit
				1000,   // 1μs - pool miss with allocation
				10000,  // 10μs - contended lock
				100000, // 100μs
				1e6,    // 1ms
				1e7,    // 10ms
			},
		},
		[]string{"pool", "operation"},
	)

	// Throughput tracks operations per second
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clearpool_throughput_operations_per_second",
			Help: "Current throughput in operations per second",
		},
		[]string{"pool"},
	)

	// ResidentMemory tracks the process resident set size
	ResidentMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clearpool_process_resident_memory_bytes",
			Help: "Resident set size of the process in bytes",
		},
	)
)

var (
	idleDesc = prometheus.NewDesc(
		"clearpool_pool_idle",
		"Number of idle instances in the pool",
		[]string{"pool"}, nil,
	)
	availableDesc = prometheus.NewDesc(
		"clearpool_pool_available",
		"Whether the pool's idle list could be read (1) or not (0)",
		[]string{"pool"}, nil,
	)
	inUseDesc = prometheus.NewDesc(
		"clearpool_pool_in_use",
		"Number of instances currently borrowed",
		[]string{"pool"}, nil,
	)
	allocatedDesc = prometheus.NewDesc(
		"clearpool_pool_allocated_total",
		"Total number of instances constructed",
		[]string{"pool"}, nil,
	)
	getsDesc = prometheus.NewDesc(
		"clearpool_pool_gets_total",
		"Total number of Get calls by result",
		[]string{"pool", "result"}, nil,
	)
	returnedDesc = prometheus.NewDesc(
		"clearpool_pool_returned_total",
		"Total number of instances returned to the idle list",
		[]string{"pool"}, nil,
	)
	discardedDesc = prometheus.NewDesc(
		"clearpool_pool_discarded_total",
		"Total number of instances dropped instead of returned",
		[]string{"pool"}, nil,
	)
	prewarmedDesc = prometheus.NewDesc(
		"clearpool_pool_prewarmed_total",
		"Total number of instances added by Prewarm",
		[]string{"pool"}, nil,
	)
)

// PoolCollector is a prometheus.Collector that reads statistics from pools
// at scrape time. Safe for concurrent use.
type PoolCollector struct {
	mu      sync.RWMutex
	sources []pool.Source
}

// NewPoolCollector creates a collector for the given pools.
func NewPoolCollector(sources ...pool.Source) *PoolCollector {
	c := &PoolCollector{}
	c.Add(sources...)
	return c
}

// Add registers more pools with the collector.
func (c *PoolCollector) Add(sources ...pool.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, sources...)
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- idleDesc
	ch <- availableDesc
	ch <- inUseDesc
	ch <- allocatedDesc
	ch <- getsDesc
	ch <- returnedDesc
	ch <- discardedDesc
	ch <- prewarmedDesc
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	sources := append([]pool.Source(nil), c.sources...)
	c.mu.RUnlock()

	for _, src := range sources {
		name := src.Name()
		stats := src.Stats()

		idle, ok := src.Size()
		available := 0.0
		if ok {
			available = 1
			ch <- prometheus.MustNewConstMetric(idleDesc, prometheus.GaugeValue, float64(idle), name)
		}
		ch <- prometheus.MustNewConstMetric(availableDesc, prometheus.GaugeValue, available, name)
		ch <- prometheus.MustNewConstMetric(inUseDesc, prometheus.GaugeValue, float64(stats.InUse), name)
		ch <- prometheus.MustNewConstMetric(allocatedDesc, prometheus.CounterValue, float64(stats.Allocated), name)
		ch <- prometheus.MustNewConstMetric(getsDesc, prometheus.CounterValue, float64(stats.Hits), name, "hit")
		ch <- prometheus.MustNewConstMetric(getsDesc, prometheus.CounterValue, float64(stats.Misses), name, "miss")
		ch <- prometheus.MustNewConstMetric(returnedDesc, prometheus.CounterValue, float64(stats.Returned), name)
		ch <- prometheus.MustNewConstMetric(discardedDesc, prometheus.CounterValue, float64(stats.Discarded), name)
		ch <- prometheus.MustNewConstMetric(prewarmedDesc, prometheus.CounterValue, float64(stats.Prewarmed), name)
	}
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. The timer can be
// stopped multiple times, each returning the total elapsed time.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks throughput (operations per second) over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Operations since last reset
	lastReset time.Time // Time of last reset
	pool      string    // Pool name label
}

// NewThroughputTracker creates a new throughput tracker for a pool.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("slices")
//	for i := 0; i < cycles; i++ {
//	    runCycle()
//	    tracker.Increment(1)
//	}
//	logger.Info("throughput", zap.Float64("ops_per_sec", tracker.GetAndReset()))
func NewThroughputTracker(pool string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		pool:      pool,
	}
}

// Increment adds n to the operation count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (operations/second),
// updates the Prometheus metric, resets the counter, and returns
// the calculated throughput. Safe for concurrent use.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	// Reset for next period
	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.pool).Set(throughput)

	return throughput
}

// LatencyTracker keeps the most recent latencies for percentile queries
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	next    int
	maxSize int
}

// NewLatencyTracker creates a new latency tracker
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value, overwriting the oldest once full
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) < l.maxSize {
		l.values = append(l.values, d)
		return
	}
	l.values[l.next] = d
	l.next = (l.next + 1) % l.maxSize
}

// GetPercentile returns the percentile value (0-100)
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	sorted := append([]time.Duration(nil), l.values...)
	l.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(float64(len(sorted)) * p / 100)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}

	return sorted[index]
}

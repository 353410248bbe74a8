// Package clearpool is an object pool for clearable containers: dynamic
// arrays, hash maps, hash sets, deques, priority queues, bit sets and
// growable strings. A released container is cleared but keeps its backing
// storage, so the next borrower starts empty without paying for growth
// again.
//
// # Architecture
//
// The module is organized in three layers:
//
// 1. The pool itself (pkg/pool): the Clearable capability, the Local and
// Locked idle-list storages, Pool with Get, Prewarm and Size, and the Pooled
// handle that clears and returns its instance on Release.
//
// 2. The containers it knows how to pool (pkg/containers, pkg/strings),
// each with a capacity-preserving Clear.
//
// 3. Tooling around the pool: a stress runner (internal/stress), Prometheus
// and OpenTelemetry exporters (pkg/metrics, pkg/observability), and the
// clearpool command.
//
// # Quick Start
//
//	import "github.com/ajitpratap0/clearpool/pkg/pool"
//
//	scratch := pool.NewSlicePool[int](pool.WithName("scratch"))
//	_ = scratch.Prewarm(8)
//
//	h := scratch.Get()
//	defer h.Release()
//	h.Value().Append(1, 2, 3)
//
// # Key Packages
//
//	pkg/pool          - Pool, storages, handles and container pools
//	pkg/containers    - Capacity-preserving containers
//	pkg/strings       - Growable string builder with Clear
//	pkg/errors        - Structured error types
//	pkg/logger        - Global zap logger
//	pkg/config        - Stress tool configuration
//	pkg/metrics       - Prometheus collector for pool stats
//	pkg/observability - OpenTelemetry tracing and metrics
//	pkg/compression   - Report compression codecs
//	pkg/report        - JSON and YAML report encoding
//	pkg/performance   - Process resource sampling
//	internal/stress   - Concurrent checkout/return workloads
//
// # Command Line
//
//	go install github.com/ajitpratap0/clearpool/cmd/clearpool@latest
//
//	clearpool bench --pools slice,map --workers 16 --format yaml
//	clearpool serve --listen :9090
//	clearpool version
package clearpool

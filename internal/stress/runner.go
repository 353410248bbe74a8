// Package stress runs concurrent checkout/mutate/return workloads against
// clearpool container pools and verifies the pool guarantees while doing
// so: every borrowed instance starts empty, and no instance is held by two
// workers at once.
//
// # Basic Usage
//
//	cfg := config.NewBenchConfig()
//	runner, err := stress.NewRunner(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx)
//
// A Runner keeps its pools between runs, so later runs start warm. serve
// relies on this to expose steady-state pool metrics.
package stress

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/metrics"
	"github.com/ajitpratap0/clearpool/pkg/observability"
	"github.com/ajitpratap0/clearpool/pkg/performance"
	"github.com/ajitpratap0/clearpool/pkg/pool"
)

// Runner owns the pools for a workload configuration.
type Runner struct {
	cfg       *config.BenchConfig
	logger    *zap.Logger
	workloads []workload
	monitor   *performance.ResourceMonitor
}

// NewRunner validates cfg, builds one pool family per configured kind and
// prewarms them.
func NewRunner(cfg *config.BenchConfig, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    cfg,
		logger: logger.Named("stress"),
	}

	monitor, err := performance.NewResourceMonitor()
	if err != nil {
		r.logger.Warn("resource sampling disabled", zap.Error(err))
	} else {
		r.monitor = monitor
	}

	for _, kind := range cfg.Workload.Pools {
		w, err := newWorkload(kind, cfg.Workload, logger)
		if err != nil {
			return nil, err
		}
		if err := w.Prewarm(cfg.Workload.Prewarm); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "prewarm failed").
				WithDetail("pool", kind)
		}
		r.workloads = append(r.workloads, w)
	}

	return r, nil
}

// Sources returns the runner's pools for metric export.
func (r *Runner) Sources() []pool.Source {
	sources := make([]pool.Source, 0, len(r.workloads))
	for _, w := range r.workloads {
		sources = append(sources, w.Source())
	}
	return sources
}

// Run drives every configured pool in turn and returns the measurements.
// It stops at the first guarantee violation or when ctx is done.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	wc := r.cfg.Workload
	if wc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wc.Timeout)
		defer cancel()
	}

	ol := observability.NewOperationLogger(ctx, r.logger, "bench")
	ol.LogStart("stress run starting",
		zap.Strings("pools", wc.Pools),
		zap.Int("workers", wc.Workers),
		zap.Int("cycles", wc.Cycles),
		zap.String("storage", wc.Storage))

	result := &Result{
		Name:      r.cfg.Name,
		Storage:   wc.Storage,
		Workers:   wc.Workers,
		Cycles:    wc.Cycles,
		Elements:  wc.Elements,
		StartedAt: time.Now(),
	}
	if r.monitor != nil {
		r.monitor.Reset()
		result.ResourcesBefore = r.monitor.GetResourceUsage()
	}

	for i, w := range r.workloads {
		pr, err := r.runWorkload(ctx, w)
		if err != nil {
			ol.LogError("stress run failed", err, zap.String("pool", w.Kind()))
			return nil, err
		}
		result.Pools = append(result.Pools, *pr)
		ol.LogProgress("pool finished", float64(i+1)/float64(len(r.workloads)),
			zap.String("pool", pr.Kind),
			zap.Float64("ops_per_second", pr.OpsPerSecond))
	}

	result.Duration = time.Since(result.StartedAt)
	if r.monitor != nil {
		result.ResourcesAfter = r.monitor.GetResourceUsage()
		metrics.ResidentMemory.Set(float64(result.ResourcesAfter.MemoryRSS))
	}

	ol.LogComplete("stress run completed",
		zap.Int64("operations", result.Operations()),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func (r *Runner) runWorkload(ctx context.Context, w workload) (*PoolResult, error) {
	wc := r.cfg.Workload
	tracer := observability.NewWorkloadTracer(w.Kind(), wc.Storage)
	throughput := metrics.NewThroughputTracker(w.Kind())
	latency := metrics.NewLatencyTracker(wc.Workers)
	timer := metrics.NewTimer(w.Kind())

	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < wc.Workers; worker++ {
		g.Go(func() error {
			return tracer.TraceWorker(gctx, worker, wc.Cycles, func(ctx context.Context) error {
				start := time.Now()
				err := w.Run(ctx, worker, wc.Cycles, wc.Elements)
				if err != nil {
					metrics.OperationsTotal.WithLabelValues(w.Kind(), "failed").Inc()
					return err
				}

				perCycle := time.Since(start) / time.Duration(wc.Cycles)
				latency.Record(perCycle)
				metrics.OperationLatency.WithLabelValues(w.Kind(), "cycle").
					Observe(float64(perCycle.Nanoseconds()))
				metrics.OperationsTotal.WithLabelValues(w.Kind(), "ok").Add(float64(wc.Cycles))
				throughput.Increment(int64(wc.Cycles))
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := timer.Stop()
	ops := int64(wc.Workers) * int64(wc.Cycles)
	pr := &PoolResult{
		Kind:            w.Kind(),
		Operations:      ops,
		Duration:        elapsed,
		OpsPerSecond:    throughput.GetAndReset(),
		CycleLatencyP50: latency.GetPercentile(50),
		CycleLatencyP99: latency.GetPercentile(99),
		Stats:           w.Source().Stats(),
	}
	pr.Idle, pr.IdleKnown = w.Idle()

	r.logger.Debug("pool workload finished",
		zap.String("pool", w.Kind()),
		zap.Int64("operations", ops),
		zap.Duration("duration", elapsed),
		zap.Float64("hit_rate", pr.Stats.HitRate()))
	return pr, nil
}

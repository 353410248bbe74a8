package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ajitpratap0/clearpool/pkg/pool"
)

// RegisterPoolMetrics publishes pool statistics through otel observable
// instruments on meter. Values are read at collection time. Unregister the
// returned registration to stop observing the pools.
func RegisterPoolMetrics(meter metric.Meter, sources ...pool.Source) (metric.Registration, error) {
	idle, err := meter.Int64ObservableGauge("clearpool.pool.idle",
		metric.WithDescription("Number of idle instances in the pool"))
	if err != nil {
		return nil, err
	}
	inUse, err := meter.Int64ObservableUpDownCounter("clearpool.pool.in_use",
		metric.WithDescription("Number of instances currently borrowed"))
	if err != nil {
		return nil, err
	}
	allocated, err := meter.Int64ObservableCounter("clearpool.pool.allocated",
		metric.WithDescription("Total number of instances constructed"))
	if err != nil {
		return nil, err
	}
	gets, err := meter.Int64ObservableCounter("clearpool.pool.gets",
		metric.WithDescription("Total number of Get calls by result"))
	if err != nil {
		return nil, err
	}
	discarded, err := meter.Int64ObservableCounter("clearpool.pool.discarded",
		metric.WithDescription("Total number of instances dropped instead of returned"))
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, src := range sources {
			name := attribute.String("pool", src.Name())
			stats := src.Stats()

			if n, ok := src.Size(); ok {
				o.ObserveInt64(idle, int64(n), metric.WithAttributes(name))
			}
			o.ObserveInt64(inUse, stats.InUse, metric.WithAttributes(name))
			o.ObserveInt64(allocated, stats.Allocated, metric.WithAttributes(name))
			o.ObserveInt64(gets, stats.Hits, metric.WithAttributes(name, attribute.String("result", "hit")))
			o.ObserveInt64(gets, stats.Misses, metric.WithAttributes(name, attribute.String("result", "miss")))
			o.ObserveInt64(discarded, stats.Discarded, metric.WithAttributes(name))
		}
		return nil
	}, idle, inUse, allocated, gets, discarded)
}

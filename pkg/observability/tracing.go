package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span wraps an otel span and batches attributes until End
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// NewSpan starts a span on the clearpool tracer
func NewSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName)

	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetStatus sets the span status
func (s *Span) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// Duration returns the time since the span started
func (s *Span) Duration() time.Duration {
	return time.Since(s.startTime)
}

// End ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// WorkloadTracer traces stress workloads against one pool
type WorkloadTracer struct {
	pool    string
	storage string
}

// NewWorkloadTracer creates a tracer for the named pool
func NewWorkloadTracer(pool, storage string) *WorkloadTracer {
	return &WorkloadTracer{
		pool:    pool,
		storage: storage,
	}
}

// StartSpan starts a pool-specific span
func (wt *WorkloadTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := NewSpan(ctx, "pool."+wt.pool+"."+operation)

	span.SetAttribute("pool.name", wt.pool)
	span.SetAttribute("pool.storage", wt.storage)
	span.SetAttribute("pool.operation", operation)

	return ctx, span
}

// TraceWorker traces one worker running cycles checkout/return cycles
func (wt *WorkloadTracer) TraceWorker(ctx context.Context, worker, cycles int, fn func(ctx context.Context) error) error {
	ctx, span := wt.StartSpan(ctx, "worker")
	defer span.End()

	span.SetAttribute("worker.index", worker)
	span.SetAttribute("worker.cycles", cycles)

	err := fn(ctx)
	duration := span.Duration()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttribute("error", true)
		span.SetAttribute("error.message", err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
		if duration > 0 {
			span.SetAttribute("worker.cycles_per_second", float64(cycles)/duration.Seconds())
		}
	}

	return err
}

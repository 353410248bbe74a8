package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OperationLogger logs the phases of a long-running operation
type OperationLogger struct {
	logger    *zap.Logger
	operation string
	startTime time.Time
}

// NewOperationLogger creates an operation logger. Trace and span IDs from
// ctx are attached when present.
func NewOperationLogger(ctx context.Context, logger *zap.Logger, operation string) *OperationLogger {
	fields := []zap.Field{zap.String("operation", operation)}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		fields = append(fields,
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.String("span_id", span.SpanContext().SpanID().String()),
		)
	}

	return &OperationLogger{
		logger:    logger.With(fields...),
		operation: operation,
		startTime: time.Now(),
	}
}

// Logger returns the underlying logger with operation fields
func (ol *OperationLogger) Logger() *zap.Logger {
	return ol.logger
}

// LogStart logs the start of an operation
func (ol *OperationLogger) LogStart(msg string, fields ...zap.Field) {
	ol.logger.Info(msg, append(fields, zap.String("phase", "start"))...)
}

// LogProgress logs operation progress
func (ol *OperationLogger) LogProgress(msg string, progress float64, fields ...zap.Field) {
	ol.logger.Info(msg, append(fields,
		zap.String("phase", "progress"),
		zap.Float64("progress_percent", progress*100),
		zap.Duration("elapsed", time.Since(ol.startTime)),
	)...)
}

// LogComplete logs the completion of an operation
func (ol *OperationLogger) LogComplete(msg string, fields ...zap.Field) {
	ol.logger.Info(msg, append(fields,
		zap.String("phase", "complete"),
		zap.Duration("total_duration", time.Since(ol.startTime)),
	)...)
}

// LogError logs an operation error
func (ol *OperationLogger) LogError(msg string, err error, fields ...zap.Field) {
	ol.logger.Error(msg, append(fields,
		zap.String("phase", "error"),
		zap.Duration("duration_before_error", time.Since(ol.startTime)),
		zap.Error(err),
	)...)
}

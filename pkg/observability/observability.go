// Package observability wires OpenTelemetry tracing and metrics for clearpool
// workloads.
package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer and meter name used by clearpool.
const InstrumentationName = "github.com/ajitpratap0/clearpool"

// Config contains tracing and metrics configuration
type Config struct {
	ServiceName    string        `yaml:"service_name" json:"service_name"`
	ServiceVersion string        `yaml:"service_version" json:"service_version"`
	Environment    string        `yaml:"environment" json:"environment"`
	SamplingRate   float64       `yaml:"sampling_rate" json:"sampling_rate"`
	ExporterType   string        `yaml:"exporter_type" json:"exporter_type"` // "stdout" or "none"
	BatchTimeout   time.Duration `yaml:"batch_timeout" json:"batch_timeout"`
	MaxExportBatch int           `yaml:"max_export_batch" json:"max_export_batch"`
	MaxQueueSize   int           `yaml:"max_queue_size" json:"max_queue_size"`

	// OTLPEndpoint is an OTLP/HTTP collector, with or without scheme. When
	// set, metrics are pushed there every MetricInterval.
	OTLPEndpoint   string        `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	OTLPInsecure   bool          `yaml:"otlp_insecure" json:"otlp_insecure"`
	MetricInterval time.Duration `yaml:"metric_interval" json:"metric_interval"`

	// MetricReader receives otel metrics when set and takes precedence over
	// OTLPEndpoint. Without either the global meter provider is left alone.
	MetricReader sdkmetric.Reader `yaml:"-" json:"-"`
}

// DefaultConfig returns a default observability configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    "clearpool",
		ServiceVersion: "dev",
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   0.1, // 10% sampling
		ExporterType:   getEnv("TRACING_EXPORTER", "none"),
		BatchTimeout:   5 * time.Second,
		MaxExportBatch: 512,
		MaxQueueSize:   2048,
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:   os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		MetricInterval: 30 * time.Second,
	}
}

// Provider owns the tracer and meter providers installed by Init.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init installs global otel providers for cfg. Call Shutdown on the result
// to flush spans before exit.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRate)),
	}
	switch cfg.ExporterType {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatch),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
		))
	case "", "none":
		// spans are sampled and timed but not exported
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.ExporterType)
	}
	p.tracerProvider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(p.tracerProvider)

	reader := cfg.MetricReader
	if reader == nil && cfg.OTLPEndpoint != "" {
		if reader, err = otlpReader(ctx, cfg); err != nil {
			return nil, err
		}
	}
	if reader != nil {
		p.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		)
		otel.SetMeterProvider(p.meterProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// Shutdown flushes and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter: %w", err))
		}
	}
	return stderrors.Join(errs...)
}

// Meter returns a meter from the provider installed by Init, or from the
// global provider when Init installed none.
func (p *Provider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.meterProvider == nil {
		return otel.Meter(name, opts...)
	}
	return p.meterProvider.Meter(name, opts...)
}

func otlpReader(ctx context.Context, cfg Config) (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(stripScheme(cfg.OTLPEndpoint)),
	}
	if cfg.OTLPInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	return sdkmetric.NewPeriodicReader(exporter, readerOpts...), nil
}

// stripScheme turns "http://host:4318" into "host:4318".
func stripScheme(endpoint string) string {
	if _, rest, ok := strings.Cut(endpoint, "://"); ok {
		return rest
	}
	return endpoint
}

// Tracer returns the clearpool tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// getEnv gets environment variable with default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/clearpool/internal/stress"
	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/logger"
	"github.com/ajitpratap0/clearpool/pkg/metrics"
	"github.com/ajitpratap0/clearpool/pkg/observability"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stress workloads continuously and expose Prometheus metrics",
		Long: `Prewarm the configured pools, run workload rounds until interrupted, and
serve pool and workload metrics on /metrics. With --otlp-endpoint the pool
statistics are also pushed to an OpenTelemetry collector every interval.

Example:
  clearpool serve --listen :9090 --interval 500ms --pools slice,string
  clearpool serve --otlp-endpoint localhost:4318 --otlp-insecure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, provider, cleanup, err := setup(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer cleanup()
			return serve(cmd.Context(), cfg, provider)
		},
	}

	cmd.Flags().String("listen", ":9090", "Address to serve /metrics on")
	cmd.Flags().Duration("interval", time.Second, "Pause between workload rounds")
	cmd.Flags().String("otlp-endpoint", "", "OTLP/HTTP collector to push pool metrics to")
	cmd.Flags().Bool("otlp-insecure", false, "Push OTLP metrics over plain HTTP")
	bindFlags(v, cmd.Flags(), map[string]string{
		"listen":        "metrics.listen_addr",
		"interval":      "metrics.interval",
		"otlp-endpoint": "metrics.otlp_endpoint",
		"otlp-insecure": "metrics.otlp_insecure",
	})
	return cmd
}

func serve(ctx context.Context, cfg *config.BenchConfig, provider *observability.Provider) error {
	log := logger.Get()

	runner, err := stress.NewRunner(cfg, log)
	if err != nil {
		return err
	}

	reg, err := observability.RegisterPoolMetrics(
		provider.Meter(observability.InstrumentationName), runner.Sources()...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to register pool metrics")
	}
	defer func() {
		if err := reg.Unregister(); err != nil {
			log.Warn("pool metrics unregister failed", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewPoolCollector(runner.Sources()...))
	// the default gatherer carries the workload metrics and the Go runtime
	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              cfg.Metrics.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("serving metrics", zap.String("addr", cfg.Metrics.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ticker := time.NewTicker(cfg.Metrics.Interval)
	defer ticker.Stop()

	var runErr error
loop:
	for {
		if _, err := runner.Run(ctx); err != nil {
			if ctx.Err() == nil {
				runErr = err
			}
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case err, ok := <-serveErr:
			if ok {
				runErr = err
			}
			break loop
		case <-ticker.C:
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics server shutdown failed", zap.Error(err))
	}
	return runErr
}

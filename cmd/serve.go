package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/teemow/linearcal/internal/config"
	"github.com/teemow/linearcal/internal/instrumentation"
	"github.com/teemow/linearcal/internal/logging"
	"github.com/teemow/linearcal/internal/server"
)

// runTimeout bounds a single scheduled run so a hung API call cannot block
// the next scheduled slot indefinitely.
const runTimeout = 15 * time.Minute

func newServeCmd() *cobra.Command {
	var (
		configPath  string
		schedule    string
		listenAddr  string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync on a cron schedule with health and metrics endpoints",
		Long: `Run linearcal as a long-running daemon. A sync run executes immediately
on startup and then on the configured cron schedule (hourly by default).

Health endpoints (/healthz, /readyz, /healthz/detailed) report the outcome
of the most recent run; Prometheus metrics are served on a dedicated port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schedule") {
				conf.Serve.Schedule = schedule
			}
			if cmd.Flags().Changed("listen") {
				conf.Serve.Listen = listenAddr
			}
			if cmd.Flags().Changed("metrics-addr") {
				conf.Serve.MetricsListen = metricsAddr
			}
			if err := conf.Validate(); err != nil {
				return err
			}
			return runServe(conf)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	cmd.Flags().StringVar(&schedule, "schedule", "@hourly", "Cron schedule for sync runs")
	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8080", "Listen address for health endpoints")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Listen address for Prometheus metrics")
	return cmd
}

func runServe(conf *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	instrConfig := instrumentation.FromEnv()
	instrConfig.ServiceVersion = version
	// The daemon serves metrics for scraping, so default to the Prometheus
	// exporter unless explicitly configured otherwise.
	if os.Getenv("METRICS_EXPORTER") == "" {
		instrConfig.MetricsExporter = instrumentation.ExporterPrometheus
	}
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}

	runner, err := newRunner(ctx, conf, false)
	if err != nil {
		return err
	}

	health := server.NewHealthChecker()

	// Health endpoint server.
	healthMux := http.NewServeMux()
	health.RegisterHealthEndpoints(healthMux)
	healthServer := &http.Server{
		Addr:              conf.Serve.Listen,
		Handler:           healthMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("starting health server", "addr", conf.Serve.Listen)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("health server failed", logging.Err(err))
			cancel()
		}
	}()

	// Metrics server, only when the Prometheus exporter is active.
	var metricsServer *server.MetricsServer
	if provider.Enabled() && instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		metricsServer, err = server.NewMetricsServer(conf.Serve.MetricsListen, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", logging.Err(err))
				cancel()
			}
		}()
	}

	runOnce := func() {
		runCtx, runCancel := context.WithTimeout(ctx, runTimeout)
		defer runCancel()
		report, runErr := runSync(runCtx, runner, provider)
		health.SetLastRun(report, runErr)
	}

	// First run immediately; the schedule covers subsequent runs.
	runOnce()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.Serve.Schedule, runOnce); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", conf.Serve.Schedule, err)
	}
	scheduler.Start()
	slog.Info("scheduler started", "schedule", conf.Serve.Schedule)

	// Block until a shutdown signal arrives or a server fails.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("signal received, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	// Let an in-flight run finish before tearing anything down.
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shut down health server", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to shut down metrics server", logging.Err(err))
		}
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shut down instrumentation", logging.Err(err))
	}
	return nil
}

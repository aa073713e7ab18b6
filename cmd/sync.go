package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/linearcal/internal/calendar"
	"github.com/teemow/linearcal/internal/config"
	"github.com/teemow/linearcal/internal/google"
	"github.com/teemow/linearcal/internal/instrumentation"
	"github.com/teemow/linearcal/internal/linear"
	"github.com/teemow/linearcal/internal/logging"
	"github.com/teemow/linearcal/internal/sync"
)

func newSyncCmd() *cobra.Command {
	var (
		configPath string
		calendarID string
		windowDays int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync of Linear items into Google Calendar",
		Long: `Fetch issues and projects from Linear and reconcile them against the
target calendar: create events for new items, update events whose content
changed, and leave everything else alone.

The exit status is non-zero when the run fails entirely or when any single
item could not be synced, so a scheduler's run history reflects sync health.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("calendar") {
				conf.Calendar.ID = calendarID
			}
			if cmd.Flags().Changed("window-days") {
				conf.Calendar.WindowDays = windowDays
			}
			if err := conf.Validate(); err != nil {
				return err
			}

			ctx := context.Background()

			instrConfig := instrumentation.FromEnv()
			instrConfig.ServiceVersion = version
			if err := instrConfig.Validate(); err != nil {
				return fmt.Errorf("invalid instrumentation config: %w", err)
			}
			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					slog.Warn("failed to shut down instrumentation", logging.Err(err))
				}
			}()

			runner, err := newRunner(ctx, conf, dryRun)
			if err != nil {
				return err
			}

			report, err := runSync(ctx, runner, provider)
			if err != nil {
				return err
			}
			if !report.Ok() {
				return fmt.Errorf("sync completed with %d failed items", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional; environment variables suffice)")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Target calendar ID")
	cmd.Flags().IntVar(&windowDays, "window-days", 365, "Half-width in days of the reconciliation window")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log decisions without writing to the calendar")
	return cmd
}

// newRunner wires the Linear client, Google credentials and calendar client
// into a sync.Runner.
func newRunner(ctx context.Context, conf *config.Config, dryRun bool) (*sync.Runner, error) {
	linearOpts := []linear.Option{}
	if conf.Linear.Endpoint != "" {
		linearOpts = append(linearOpts, linear.WithEndpoint(conf.Linear.Endpoint))
	}
	if conf.Linear.PageSize > 0 {
		linearOpts = append(linearOpts, linear.WithPageSize(conf.Linear.PageSize))
	}
	source, err := linear.NewClient(conf.Linear.APIKey, linearOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Linear client: %w", err)
	}

	credentials := google.NewServiceAccountProvider()
	if !credentials.HasCredentials() {
		return nil, fmt.Errorf("missing Google credentials: set %s (path) or %s (content)",
			google.EnvCredentialsFile, google.EnvServiceAccountJSON)
	}
	store, err := calendar.NewClient(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}

	return &sync.Runner{
		Source:     source,
		Store:      store,
		CalendarID: conf.Calendar.ID,
		WindowDays: conf.Calendar.WindowDays,
		TimeZone:   conf.Calendar.Timezone,
		Retry:      conf.RetryPolicy(),
		DryRun:     dryRun,
		Logger:     logging.DefaultLogger(),
	}, nil
}

// runSync executes one run, records its metrics and logs the summary line.
func runSync(ctx context.Context, runner *sync.Runner, provider *instrumentation.Provider) (sync.Report, error) {
	metrics := provider.Metrics()

	ctx, span := provider.Tracer().Start(ctx, "sync.run")
	defer span.End()

	start := time.Now()
	report, err := runner.Run(ctx)
	duration := time.Since(start)

	result := instrumentation.RunSuccess
	if err != nil || !report.Ok() {
		result = instrumentation.RunError
	}
	metrics.RecordRun(ctx, result, duration)
	metrics.RecordItems(ctx, report.Created, report.Updated, report.Skipped, report.Failed, report.Duplicates)
	metrics.RecordWriteRetries(ctx, report.Retries)

	if err != nil {
		slog.Error("sync run failed", logging.Err(err), logging.Duration(duration))
		return report, err
	}

	slog.Info("sync run finished",
		"summary", report.Summary(),
		logging.Duration(duration),
		logging.Status(statusFor(report)))
	for _, failure := range report.Failures {
		slog.Warn("item failed",
			logging.SourceID(failure.SourceID),
			logging.Operation(failure.Op),
			logging.Err(failure.Err))
	}
	return report, nil
}

func statusFor(report sync.Report) string {
	if report.Ok() {
		return logging.StatusSuccess
	}
	return logging.StatusError
}

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrResult = "result"
)

// Item result values for sync_items_total.
const (
	ResultCreated   = "created"
	ResultUpdated   = "updated"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
	ResultDuplicate = "duplicate"
)

// Run result values for sync_runs_total.
const (
	RunSuccess = "success"
	RunError   = "error"
)

// Metrics provides methods for recording sync observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	syncRunsTotal     metric.Int64Counter
	syncRunDuration   metric.Float64Histogram
	syncItemsTotal    metric.Int64Counter
	writeRetriesTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.syncRunsTotal, err = meter.Int64Counter(
		"sync_runs_total",
		metric.WithDescription("Total number of sync runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync_runs_total counter: %w", err)
	}

	m.syncRunDuration, err = meter.Float64Histogram(
		"sync_run_duration_seconds",
		metric.WithDescription("Sync run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 5.0, 15.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync_run_duration_seconds histogram: %w", err)
	}

	m.syncItemsTotal, err = meter.Int64Counter(
		"sync_items_total",
		metric.WithDescription("Total number of items processed, by result"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync_items_total counter: %w", err)
	}

	m.writeRetriesTotal, err = meter.Int64Counter(
		"write_retries_total",
		metric.WithDescription("Total number of calendar write retries beyond the first attempt"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create write_retries_total counter: %w", err)
	}

	return m, nil
}

// RecordRun records the outcome and duration of one sync run.
func (m *Metrics) RecordRun(ctx context.Context, result string, duration time.Duration) {
	if m.syncRunsTotal == nil {
		return
	}
	m.syncRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
	m.syncRunDuration.Record(ctx, duration.Seconds())
}

// RecordItems records the per-item outcome counts of one run.
func (m *Metrics) RecordItems(ctx context.Context, created, updated, skipped, failed, duplicates int) {
	if m.syncItemsTotal == nil {
		return
	}
	counts := map[string]int{
		ResultCreated:   created,
		ResultUpdated:   updated,
		ResultSkipped:   skipped,
		ResultFailed:    failed,
		ResultDuplicate: duplicates,
	}
	for result, n := range counts {
		if n > 0 {
			m.syncItemsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrResult, result)))
		}
	}
}

// RecordWriteRetries records extra write attempts made during a run.
func (m *Metrics) RecordWriteRetries(ctx context.Context, n int) {
	if m.writeRetriesTotal == nil || n <= 0 {
		return
	}
	m.writeRetriesTotal.Add(ctx, int64(n))
}

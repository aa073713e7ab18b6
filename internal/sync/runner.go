package sync

import (
	"context"
	"time"

	"github.com/teemow/linearcal/internal/calendar"
	"github.com/teemow/linearcal/internal/linear"
	"github.com/teemow/linearcal/internal/logging"
)

// SourceReader fetches the source records for a run. Satisfied by
// *linear.Client.
type SourceReader interface {
	FetchItems(ctx context.Context) ([]linear.Item, error)
}

// Runner executes one complete run: fetch, map, index, reconcile. It holds
// no state between runs; all memory of prior syncs lives in the identity
// tags on the calendar events themselves.
type Runner struct {
	// Source reads Linear items.
	Source SourceReader

	// Store is the target calendar.
	Store TargetStore

	// CalendarID selects the target calendar ("primary" by default upstream).
	CalendarID string

	// WindowDays is the half-width of the reconciliation window: the target
	// listing covers now ± WindowDays. It must be wide enough to cover every
	// plausible source item date.
	WindowDays int

	// TimeZone is the IANA zone written on timed events.
	TimeZone string

	// Retry bounds write retries.
	Retry RetryPolicy

	// DryRun previews decisions without writing.
	DryRun bool

	// Logger receives run progress. Defaults to the slog default.
	Logger logging.Logger

	// now allows tests to pin the reconciliation window.
	now func() time.Time
}

// Run executes one run and returns its report. Errors are fatal run-level
// failures (source fetch or index build); per-item problems are recovered
// into the report instead.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}

	items, err := r.Source.FetchItems(ctx)
	if err != nil {
		return Report{}, &SourceFetchError{Err: err}
	}
	logger.Info("fetched source items", "count", len(items))

	var report Report
	var drafts []calendar.EventDraft
	for _, item := range items {
		draft, ok, merr := BuildDraft(item, r.TimeZone)
		if merr != nil {
			logger.Warn("skipping unmappable item",
				logging.KeySourceID, item.ID,
				logging.KeyKind, string(item.Kind),
				logging.KeyError, merr.Error())
			report.recordFailure(item.ID, "map", merr)
			continue
		}
		if !ok {
			// No date, no event. Not an error and not counted.
			continue
		}
		drafts = append(drafts, draft)
	}

	windowMin := now().AddDate(0, 0, -r.WindowDays)
	windowMax := now().AddDate(0, 0, r.WindowDays)
	events, err := r.Store.ListWindow(ctx, r.CalendarID, windowMin, windowMax)
	if err != nil {
		return report, &IndexBuildError{Err: err}
	}
	idx := BuildIndex(events)
	logger.Info("built reconciliation index",
		"window_days", r.WindowDays,
		"indexed", idx.Len(),
		"duplicates", len(idx.Duplicates()))

	rec := &Reconciler{
		Store:      r.Store,
		CalendarID: r.CalendarID,
		Retry:      r.Retry,
		DryRun:     r.DryRun,
		Logger:     logger,
	}
	result := rec.Reconcile(ctx, idx, drafts)

	// Merge mapping failures into the reconcile result.
	result.Failed += report.Failed
	result.Failures = append(report.Failures, result.Failures...)
	return result, nil
}

package sync

import (
	"context"
	"time"

	"github.com/teemow/linearcal/internal/calendar"
	"github.com/teemow/linearcal/internal/logging"
)

// TargetStore is the calendar surface the reconciler drives. It is satisfied
// by *calendar.Client; tests substitute a fake.
type TargetStore interface {
	// ListWindow lists all events whose start falls within the window.
	ListWindow(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendar.Event, error)

	// CreateEvent inserts an event and returns its store-assigned id.
	CreateEvent(ctx context.Context, calendarID string, draft calendar.EventDraft) (string, error)

	// UpdateEvent patches an existing event to match the draft.
	UpdateEvent(ctx context.Context, calendarID, eventID string, draft calendar.EventDraft) error
}

// Reconciler applies the create/update/skip decision for each draft against
// the reconciliation index. Drafts are independent: one item's failure never
// aborts the batch.
type Reconciler struct {
	// Store is the write surface of the target calendar.
	Store TargetStore

	// CalendarID selects the target calendar.
	CalendarID string

	// Retry bounds the backoff loop around each write call.
	Retry RetryPolicy

	// DryRun logs decisions and counts them without issuing writes.
	DryRun bool

	// Logger receives per-item decisions. Defaults to the slog default.
	Logger logging.Logger
}

// Reconcile walks the drafts and decides, per draft, whether to create a new
// event, update the existing one, or do nothing. The decision is keyed
// purely on the identity tag and the content comparison; running twice with
// unchanged sources yields zero writes on the second run.
func (r *Reconciler) Reconcile(ctx context.Context, idx Index, drafts []calendar.EventDraft) Report {
	logger := r.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	report := Report{Duplicates: len(idx.Duplicates())}
	for _, dup := range idx.Duplicates() {
		logger.Warn("duplicate tagged event, keeping first",
			logging.KeySourceID, dup.SourceID,
			logging.KeyEventID, dup.ID)
	}

	for _, draft := range drafts {
		existing, found := idx.Lookup(draft.SourceID)

		switch {
		case !found:
			if r.DryRun {
				logger.Info("would create event", logging.KeySourceID, draft.SourceID)
				report.Created++
				continue
			}
			attempts, err := r.Retry.Do(ctx, func() error {
				_, cerr := r.Store.CreateEvent(ctx, r.CalendarID, draft)
				return cerr
			})
			report.Retries += attempts - 1
			if err != nil {
				logger.Error("failed to create event",
					logging.KeySourceID, draft.SourceID,
					logging.KeyError, err.Error())
				report.recordFailure(draft.SourceID, "create", err)
				continue
			}
			logger.Info("created event", logging.KeySourceID, draft.SourceID)
			report.Created++

		case contentDiffers(existing, draft):
			if r.DryRun {
				logger.Info("would update event",
					logging.KeySourceID, draft.SourceID,
					logging.KeyEventID, existing.ID)
				report.Updated++
				continue
			}
			attempts, err := r.Retry.Do(ctx, func() error {
				return r.Store.UpdateEvent(ctx, r.CalendarID, existing.ID, draft)
			})
			report.Retries += attempts - 1
			if err != nil {
				logger.Error("failed to update event",
					logging.KeySourceID, draft.SourceID,
					logging.KeyEventID, existing.ID,
					logging.KeyError, err.Error())
				report.recordFailure(draft.SourceID, "update", err)
				continue
			}
			logger.Info("updated event",
				logging.KeySourceID, draft.SourceID,
				logging.KeyEventID, existing.ID)
			report.Updated++

		default:
			logger.Debug("event up to date, skipping",
				logging.KeySourceID, draft.SourceID,
				logging.KeyEventID, existing.ID)
			report.Skipped++
		}
	}

	return report
}

// contentDiffers compares only the semantically relevant fields. Times are
// compared by instant for timed events and by calendar date for all-day
// events, so representational differences (zone offsets in listings) do not
// trigger needless writes.
func contentDiffers(existing calendar.Event, draft calendar.EventDraft) bool {
	if existing.Summary != draft.Summary {
		return true
	}
	if existing.Description != draft.Description {
		return true
	}
	if existing.AllDay != draft.AllDay {
		return true
	}
	if draft.AllDay {
		return !sameDate(existing.Start, draft.Start) || !sameDate(existing.End, draft.End)
	}
	return !existing.Start.Equal(draft.Start) || !existing.End.Equal(draft.End)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

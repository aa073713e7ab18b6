package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Private extended property keys attached to every synced event. TagSourceID
// is the identity tag: it holds the Linear record id and is the sync key
// that makes runs idempotent.
const (
	TagSourceID   = "linear_id"
	TagSourceKind = "linear_kind"
	TagSourceURL  = "linear_url"
)

// EventDraft is the desired state of a calendar event, derived from a
// Linear item by the mapper.
type EventDraft struct {
	Summary     string
	Description string

	// Start and End are the event times. For all-day events only the date
	// component is used and End is the exclusive end date (Google convention).
	Start time.Time
	End   time.Time

	// AllDay marks a date-only event.
	AllDay bool

	// TimeZone is the IANA zone written on timed events.
	TimeZone string

	// SourceID is the Linear record id, written verbatim as the identity tag.
	SourceID string

	// SourceKind and SourceURL are informational tags ("issue"/"project" and
	// the Linear web URL).
	SourceKind string
	SourceURL  string
}

// Event is an existing calendar event as seen by the reconciler. Only the
// semantically relevant fields are carried; store-managed fields (etag,
// sequence, updated) are deliberately dropped so content comparison cannot
// be polluted by them.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool

	// SourceID is the identity tag value, empty for events not created by
	// this sync.
	SourceID string
}

// toEvent converts a Google Calendar event to the internal Event type.
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	e := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
	}

	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				e.Start = t
			}
		} else if event.Start.Date != "" {
			e.AllDay = true
			if t, err := time.Parse("2006-01-02", event.Start.Date); err == nil {
				e.Start = t
			}
		}
	}
	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				e.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse("2006-01-02", event.End.Date); err == nil {
				e.End = t
			}
		}
	}

	if event.ExtendedProperties != nil {
		e.SourceID = event.ExtendedProperties.Private[TagSourceID]
	}

	return e
}

// fromDraft builds the Google Calendar API body for a draft.
func fromDraft(draft EventDraft) *calendar.Event {
	event := &calendar.Event{
		Summary:     draft.Summary,
		Description: draft.Description,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TagSourceID:   draft.SourceID,
				TagSourceKind: draft.SourceKind,
				TagSourceURL:  draft.SourceURL,
			},
		},
	}

	if draft.AllDay {
		event.Start = &calendar.EventDateTime{
			Date: draft.Start.Format("2006-01-02"),
		}
		event.End = &calendar.EventDateTime{
			Date: draft.End.Format("2006-01-02"),
		}
	} else {
		tz := draft.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		event.Start = &calendar.EventDateTime{
			DateTime: draft.Start.Format(time.RFC3339),
			TimeZone: tz,
		}
		event.End = &calendar.EventDateTime{
			DateTime: draft.End.Format(time.RFC3339),
			TimeZone: tz,
		}
	}

	return event
}

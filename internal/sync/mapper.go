package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/linearcal/internal/calendar"
	"github.com/teemow/linearcal/internal/linear"
)

// defaultDuration is the event length used when the source only provides a
// start timestamp.
const defaultDuration = time.Hour

// BuildDraft transforms a Linear item into a calendar event draft. It is a
// pure function with no side effects.
//
// Items without a due/target date produce no draft (ok=false): a time is
// never fabricated for them. Items without a title are rejected with a
// MappingError.
//
// Date-only values become all-day events with the exclusive end-date
// convention Google expects; timestamp values become timed events with a
// one hour default duration, annotated with tz.
func BuildDraft(item linear.Item, tz string) (draft calendar.EventDraft, ok bool, err error) {
	if strings.TrimSpace(item.Title) == "" {
		return calendar.EventDraft{}, false, &MappingError{SourceID: item.ID, Reason: "missing title"}
	}
	if item.DueDate == "" {
		return calendar.EventDraft{}, false, nil
	}

	draft = calendar.EventDraft{
		Summary:     summaryFor(item),
		Description: descriptionFor(item),
		TimeZone:    tz,
		SourceID:    item.ID,
		SourceKind:  string(item.Kind),
		SourceURL:   item.URL,
	}

	if strings.Contains(item.DueDate, "T") {
		start, perr := time.Parse(time.RFC3339, item.DueDate)
		if perr != nil {
			return calendar.EventDraft{}, false, &MappingError{SourceID: item.ID, Reason: fmt.Sprintf("invalid timestamp %q", item.DueDate)}
		}
		draft.Start = start.UTC()
		draft.End = start.UTC().Add(defaultDuration)
		return draft, true, nil
	}

	day, perr := time.Parse("2006-01-02", item.DueDate)
	if perr != nil {
		return calendar.EventDraft{}, false, &MappingError{SourceID: item.ID, Reason: fmt.Sprintf("invalid date %q", item.DueDate)}
	}
	draft.AllDay = true
	draft.Start = day
	draft.End = day.AddDate(0, 0, 1)
	return draft, true, nil
}

// summaryFor derives the event title. Items carry a short provenance prefix
// so the origin is visible in the calendar UI.
func summaryFor(item linear.Item) string {
	if item.Identifier != "" {
		return fmt.Sprintf("%s: %s", item.Identifier, item.Title)
	}
	return fmt.Sprintf("[%s] %s", item.Kind, item.Title)
}

// descriptionFor combines the item body with its Linear URL.
func descriptionFor(item linear.Item) string {
	return fmt.Sprintf("%s\n\n%s", item.Description, item.URL)
}

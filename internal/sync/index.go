package sync

import (
	"github.com/teemow/linearcal/internal/calendar"
)

// Index is the ephemeral reconciliation index: a mapping from Linear source
// id to the calendar event currently embodying it. It is rebuilt from a
// windowed listing at the start of every run and discarded at the end;
// nothing about it survives a run.
type Index struct {
	events     map[string]calendar.Event
	duplicates []calendar.Event
}

// BuildIndex builds an Index from the events returned by a windowed listing.
// Events without the identity tag were not created by this sync and are
// ignored. When two events carry the same tag, the first encountered wins
// (listings are ordered by start time, so this is deterministic) and the
// rest are recorded as duplicates for the run report; they are never deleted
// automatically.
func BuildIndex(events []calendar.Event) Index {
	idx := Index{events: make(map[string]calendar.Event)}
	for _, e := range events {
		if e.SourceID == "" {
			continue
		}
		if _, exists := idx.events[e.SourceID]; exists {
			idx.duplicates = append(idx.duplicates, e)
			continue
		}
		idx.events[e.SourceID] = e
	}
	return idx
}

// Lookup returns the event for a source id, if one exists.
func (i Index) Lookup(sourceID string) (calendar.Event, bool) {
	e, ok := i.events[sourceID]
	return e, ok
}

// Len returns the number of distinct tagged events in the index.
func (i Index) Len() int {
	return len(i.events)
}

// Duplicates returns the redundant tagged events found while building the
// index, in listing order.
func (i Index) Duplicates() []calendar.Event {
	return i.duplicates
}

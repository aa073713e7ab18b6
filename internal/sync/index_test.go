package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/linearcal/internal/calendar"
)

func taggedEvent(id, sourceID string, start time.Time) calendar.Event {
	return calendar.Event{ID: id, Summary: "e " + id, Start: start, SourceID: sourceID}
}

func TestBuildIndex(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		events     []calendar.Event
		wantLen    int
		duplicates int
	}{
		{
			name:    "empty listing",
			wantLen: 0,
		},
		{
			name: "tagged events are indexed",
			events: []calendar.Event{
				taggedEvent("ev-1", "a", day),
				taggedEvent("ev-2", "b", day.AddDate(0, 0, 1)),
			},
			wantLen: 2,
		},
		{
			name: "untagged events are ignored",
			events: []calendar.Event{
				taggedEvent("ev-1", "a", day),
				{ID: "ev-2", Summary: "dentist"},
				{ID: "ev-3", Summary: "vacation"},
			},
			wantLen: 1,
		},
		{
			name: "duplicate tags keep the first",
			events: []calendar.Event{
				taggedEvent("ev-1", "a", day),
				taggedEvent("ev-2", "a", day.AddDate(0, 0, 2)),
				taggedEvent("ev-3", "b", day),
			},
			wantLen:    2,
			duplicates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := BuildIndex(tt.events)
			assert.Equal(t, tt.wantLen, idx.Len())
			assert.Len(t, idx.Duplicates(), tt.duplicates)
		})
	}
}

func TestIndex_LookupKeepsFirst(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	idx := BuildIndex([]calendar.Event{
		taggedEvent("ev-first", "a", day),
		taggedEvent("ev-second", "a", day.AddDate(0, 0, 3)),
	})

	e, ok := idx.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "ev-first", e.ID, "listing order decides the winner")

	require.Len(t, idx.Duplicates(), 1)
	assert.Equal(t, "ev-second", idx.Duplicates()[0].ID)
}

func TestIndex_LookupMissing(t *testing.T) {
	idx := BuildIndex(nil)
	_, ok := idx.Lookup("nope")
	assert.False(t, ok)
}

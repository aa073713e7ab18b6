package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/linearcal/internal/calendar"
	"github.com/teemow/linearcal/internal/linear"
)

type fakeSource struct {
	items []linear.Item
	err   error
}

func (f *fakeSource) FetchItems(context.Context) ([]linear.Item, error) {
	return f.items, f.err
}

func testRunner(source SourceReader, store TargetStore) *Runner {
	return &Runner{
		Source:     source,
		Store:      store,
		CalendarID: "primary",
		WindowDays: 365,
		TimeZone:   "UTC",
		Retry:      noRetry(),
		now:        func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRunner_Run(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "One", DueDate: "2026-09-10"},
		{ID: "i-2", Kind: linear.KindIssue, Identifier: "ENG-2", Title: "Two", DueDate: "2026-09-11"},
		{ID: "p-1", Kind: linear.KindProject, Title: "Launch", DueDate: "2026-10-01"},
	}}
	store := &fakeStore{}

	report, err := testRunner(source, store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.True(t, report.Ok())
	assert.Len(t, store.events, 3)
}

func TestRunner_RunIsIdempotent(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "One", DueDate: "2026-09-10"},
		{ID: "i-2", Kind: linear.KindIssue, Identifier: "ENG-2", Title: "Two", DueDate: "2026-09-11T14:00:00Z"},
	}}
	store := &fakeStore{}
	runner := testRunner(source, store)

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	second, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 2, store.createCalls, "the second run must not write")
	assert.Equal(t, 0, store.updateCalls)
}

func TestRunner_SourceChangePatchesInPlace(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "Old name", DueDate: "2026-09-10"},
	}}
	store := &fakeStore{}
	runner := testRunner(source, store)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	source.items[0].Title = "New name"
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	require.Len(t, store.events, 1, "rename must patch, never duplicate")
	assert.Equal(t, "ENG-1: New name", store.events[0].Summary)
}

func TestRunner_ItemsWithoutDatesAreExcluded(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "Dated", DueDate: "2026-09-10"},
		{ID: "i-2", Kind: linear.KindIssue, Identifier: "ENG-2", Title: "Undated"},
	}}
	store := &fakeStore{}

	report, err := testRunner(source, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Skipped, "undated items do not appear in any counter")
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, store.events, 1)
}

func TestRunner_UnmappableItemsAreCountedAsFailed(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "Good", DueDate: "2026-09-10"},
		{ID: "i-2", Kind: linear.KindIssue, DueDate: "2026-09-11"}, // no title
	}}
	store := &fakeStore{}

	report, err := testRunner(source, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "i-2", report.Failures[0].SourceID)
	assert.Equal(t, "map", report.Failures[0].Op)
}

func TestRunner_SourceFetchFailureIsFatal(t *testing.T) {
	source := &fakeSource{err: errors.New("401 unauthorized")}
	store := &fakeStore{}

	_, err := testRunner(source, store).Run(context.Background())
	var fetchErr *SourceFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, store.createCalls, "no writes after a fetch failure")
}

func TestRunner_ListingFailureIsFatal(t *testing.T) {
	source := &fakeSource{items: []linear.Item{
		{ID: "i-1", Kind: linear.KindIssue, Identifier: "ENG-1", Title: "One", DueDate: "2026-09-10"},
	}}
	store := &fakeStore{listErr: errors.New("503 backend error")}

	_, err := testRunner(source, store).Run(context.Background())
	var idxErr *IndexBuildError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, 0, store.createCalls, "a failed listing must not be treated as an empty calendar")
}

func TestRunner_WindowBoundsFollowConfiguredWidth(t *testing.T) {
	source := &fakeSource{items: nil}
	store := &recordingStore{}
	runner := testRunner(source, store)
	runner.WindowDays = 30

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, -30), store.timeMin)
	assert.Equal(t, now.AddDate(0, 0, 30), store.timeMax)
}

type recordingStore struct {
	fakeStore
	timeMin time.Time
	timeMax time.Time
}

func (r *recordingStore) ListWindow(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	r.timeMin = timeMin
	r.timeMax = timeMax
	return r.fakeStore.ListWindow(ctx, calendarID, timeMin, timeMax)
}

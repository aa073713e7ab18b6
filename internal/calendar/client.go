package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/linearcal/internal/google"
)

// listPageSize is the maximum page size accepted by the events list API.
const listPageSize = 250

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a new Calendar client authenticated through the given
// token source provider.
func NewClient(ctx context.Context, provider google.TokenSourceProvider) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token source provider cannot be nil")
	}

	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google token source: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// NewClientWithService wraps an existing Calendar service. Used by tests.
func NewClientWithService(svc *calendar.Service) *Client {
	return &Client{svc: svc}
}

// ListWindow lists all events in the calendar whose start falls within
// [timeMin, timeMax), following pagination. Recurring events are expanded to
// single instances and ordered by start time, which makes the duplicate
// keep-first policy deterministic.
func (c *Client) ListWindow(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	var events []Event
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range resp.Items {
			events = append(events, toEvent(item))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return events, nil
}

// CreateEvent inserts a new event built from the draft and returns the
// event id assigned by the store.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, draft EventDraft) (string, error) {
	created, err := c.svc.Events.Insert(calendarID, fromDraft(draft)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent patches an existing event to match the draft. Patch semantics
// leave store-managed fields untouched.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, draft EventDraft) error {
	_, err := c.svc.Events.Patch(calendarID, eventID, fromDraft(draft)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	return nil
}

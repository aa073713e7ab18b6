package linear

import "fmt"

// Kind distinguishes the two Linear record types that are synced.
type Kind string

const (
	// KindIssue marks an item that originated from a Linear issue.
	KindIssue Kind = "issue"

	// KindProject marks an item that originated from a Linear project.
	KindProject Kind = "project"
)

// Item is a normalized Linear record (issue or project), an immutable
// snapshot taken at fetch time. The ID is globally unique within Linear and
// is the sync key embedded in calendar events.
type Item struct {
	// ID is Linear's globally unique identifier for the record.
	ID string

	// Kind is whether this item is an issue or a project.
	Kind Kind

	// Identifier is the human-readable issue identifier (e.g. "ENG-123").
	// Empty for projects.
	Identifier string

	// Title is the issue title or project name.
	Title string

	// Description is the markdown body. May be empty.
	Description string

	// URL is the Linear web URL of the record.
	URL string

	// DueDate is the raw scheduling value: the issue dueDate or project
	// targetDate. Linear returns either a date ("2026-03-01") or an RFC 3339
	// timestamp. Empty when the record carries no date.
	DueDate string

	// State is the workflow state name (e.g. "In Progress"). Informational
	// only; it is logged but never written to the calendar.
	State string
}

// Error represents an error that occurred while talking to the Linear API.
type Error struct {
	// Op is the operation that failed (e.g. "issues", "projects", "query")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("linear %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

package sync

import "fmt"

// SourceFetchError marks a failure to fetch or decode source records. It is
// fatal for the run: with no items there is nothing to reconcile.
type SourceFetchError struct {
	Err error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source fetch failed: %v", e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// IndexBuildError marks a failure of the windowed target listing. It is
// fatal for the run: proceeding with a partial or empty index would
// miscategorize every item as new and create duplicates.
type IndexBuildError struct {
	Err error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("index build failed: %v", e.Err)
}

func (e *IndexBuildError) Unwrap() error {
	return e.Err
}

// MappingError marks a single source item that cannot be normalized into an
// event draft. It is recovered locally: the item is skipped and the run
// continues.
type MappingError struct {
	// SourceID identifies the rejected item.
	SourceID string

	// Reason describes what was missing or malformed.
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map item %s: %s", e.SourceID, e.Reason)
}

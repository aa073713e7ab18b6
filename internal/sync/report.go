package sync

import "fmt"

// ItemFailure records one item that could not be synced.
type ItemFailure struct {
	// SourceID identifies the item.
	SourceID string

	// Op is the operation that failed ("map", "create", "update").
	Op string

	// Err is the final error after retries.
	Err error
}

// Report aggregates the outcome of one run.
type Report struct {
	// Created counts events inserted for previously unseen source ids.
	Created int

	// Updated counts existing events patched because their content differed.
	Updated int

	// Skipped counts items whose event already matched; no write was issued.
	Skipped int

	// Failed counts items that could not be mapped or written.
	Failed int

	// Duplicates counts redundant tagged events found in the target store.
	// They are flagged for manual cleanup, never deleted.
	Duplicates int

	// Retries counts extra write attempts beyond the first, across all items.
	Retries int

	// Failures holds per-item detail for everything counted in Failed.
	Failures []ItemFailure
}

// Ok reports whether the run completed without item failures.
func (r Report) Ok() bool {
	return r.Failed == 0
}

// Summary returns a one-line human-readable summary.
func (r Report) Summary() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d failed=%d duplicates=%d",
		r.Created, r.Updated, r.Skipped, r.Failed, r.Duplicates)
}

// recordFailure counts a failed item and keeps its detail.
func (r *Report) recordFailure(sourceID, op string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, ItemFailure{SourceID: sourceID, Op: op, Err: err})
}

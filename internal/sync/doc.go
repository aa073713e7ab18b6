// Package sync implements the one-way reconciliation of Linear items into
// Google Calendar events.
//
// The pipeline is fetch → map → index → reconcile. There is no persistent
// local state: each run rebuilds an in-memory index from a windowed listing
// of the target calendar, keyed on the identity tag (a private extended
// property holding the Linear record id) that every synced event carries.
// For each mapped item the reconciler then creates the event if the tag is
// unknown, patches it if the content differs, and does nothing otherwise,
// which makes runs idempotent: a second run over unchanged sources issues
// zero writes.
//
// Failure handling follows a strict split: run-level errors (source fetch,
// index listing) abort the run, because continuing would either sync nothing
// or duplicate everything; item-level errors (unmappable item, write failure
// after bounded retries) are recorded in the Report and never stop the batch.
package sync

// Package calendar provides a client for the Google Calendar API, scoped to
// what the sync needs: windowed event listing, insert, and patch.
//
// Synced events carry a private extended property holding the Linear record
// id. That tag, not the calendar event id, is the identity the reconciler
// keys on; see the sync package.
package calendar

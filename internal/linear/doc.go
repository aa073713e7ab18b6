// Package linear provides a read-only client for the Linear GraphQL API.
//
// The client fetches issues (with due dates) and projects (with target
// dates) and normalizes both into the Item type consumed by the sync
// pipeline. Authentication uses a Linear API key sent as the Authorization
// header; the key never leaves this package.
package linear

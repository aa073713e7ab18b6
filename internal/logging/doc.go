// Package logging provides structured logging utilities built on log/slog.
//
// It defines the canonical attribute keys used across the codebase so that
// log output stays consistent and greppable, a small Logger interface that
// components accept instead of a concrete logger, and attribute helpers for
// the domain (source items, calendar events, sync runs).
package logging

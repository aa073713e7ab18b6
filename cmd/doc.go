// Package cmd implements the command-line interface for linearcal.
//
// This package provides the following commands:
//   - sync: Run one synchronization of Linear items into Google Calendar
//   - serve: Run the sync periodically with health and metrics endpoints
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd

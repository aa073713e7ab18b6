// Package config provides the application configuration model.
//
// Configuration layers, later wins: built-in defaults, an optional YAML
// file, then environment variables. The environment variable names match
// the original deployment (LINEAR_API_KEY, GCAL_CALENDAR_ID, TIMEZONE,
// SEARCH_WINDOW_DAYS) so a scheduler-driven setup needs no config file.
package config

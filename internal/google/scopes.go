package google

import calendar "google.golang.org/api/calendar/v3"

// Scopes are the Google OAuth scopes required by the application.
// Calendar access is the only Google surface this tool touches.
var Scopes = []string{
	calendar.CalendarScope,
}

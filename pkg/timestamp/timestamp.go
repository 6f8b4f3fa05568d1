// Package timestamp formats times the one way the core requires of any
// sink that chooses to stamp its output: ISO-8601, UTC, millisecond
// fractional seconds.
package timestamp

import "time"

// Layout is the Go reference-time layout for ISO-8601 UTC with
// millisecond-resolved fractional seconds, e.g. 2024-01-02T03:04:05.678Z.
const Layout = "2006-01-02T15:04:05.000Z"

// Format renders t in UTC using Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Now renders the current time using Layout.
func Now() string {
	return Format(time.Now())
}

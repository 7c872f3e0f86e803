package postgres

import "time"

// dateOnly normalises a DATE column to midnight UTC, which is how the domain
// represents calendar days.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

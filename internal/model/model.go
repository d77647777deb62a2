package model

// Package model contains domain models/data structures.
// Keep it free of persistence concerns; calendar helpers live here because every layer needs them.

import "time"

// DateOf returns the calendar date of t (in t's own location) as midnight UTC.
// Dates produced this way compare and subtract without DST or zone drift.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

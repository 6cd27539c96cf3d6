// Package dates holds the calendar-day arithmetic used by streak
// transitions. Day boundaries are evaluated in UTC so streak outcomes
// don't depend on server locale.
package dates

import "time"

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return CalendarDate(a).Equal(CalendarDate(b))
}

// IsYesterday reports whether a falls on the UTC calendar day
// immediately before the day of b.
func IsYesterday(a, b time.Time) bool {
	return CalendarDate(a).AddDate(0, 0, 1).Equal(CalendarDate(b))
}

// DaysBetween returns the number of whole UTC calendar days from a to b.
// Negative when a is after b.
func DaysBetween(a, b time.Time) int {
	return int(CalendarDate(b).Sub(CalendarDate(a)) / (24 * time.Hour))
}

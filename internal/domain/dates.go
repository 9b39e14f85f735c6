package domain

import (
	"fmt"
	"math"
	"time"
)

// DayLayout is the calendar-day format used in storage keys, query strings and
// API payloads.
const DayLayout = "2006-01-02"

// DaysBetween returns the fractional number of days from a to b. The result is
// negative when b is before a.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// AddDays moves t by n calendar days, keeping the wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysUntil rounds the distance from now to target up to whole days: a target
// later today counts as 1, a target earlier today as 0.
func DaysUntil(target, now time.Time) int {
	return int(math.Ceil(DaysBetween(now, target)))
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// ParseDay parses a YYYY-MM-DD string as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DayLayout, s, loc)
}

// FormatShort renders a date the way prediction cards show it, e.g. "Mon, Jan 2".
func FormatShort(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// Countdown turns a DaysUntil result into display text.
func Countdown(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

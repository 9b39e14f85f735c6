package domain

import (
	"context"
	"time"
)

// EventType classifies a calendar event.
type EventType string

const (
	EventReminder    EventType = "reminder"
	EventAnniversary EventType = "anniversary"
	EventDate        EventType = "date"
	EventCycle       EventType = "cycle"
	EventCustom      EventType = "custom"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventReminder, EventAnniversary, EventDate, EventCycle, EventCustom:
		return true
	}
	return false
}

// Icon is the emoji shown next to events of this type.
func (t EventType) Icon() string {
	switch t {
	case EventAnniversary:
		return "💕"
	case EventDate:
		return "🌹"
	case EventCycle:
		return "🌸"
	case EventReminder:
		return "⏰"
	default:
		return "📅"
	}
}

// Recurrence is how often an event repeats.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// CalendarEvent is a user-created event. Date is the first occurrence as a
// calendar day; Time is an optional "15:04" wall-clock time.
type CalendarEvent struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Date            time.Time  `json:"date"`
	Time            string     `json:"time,omitempty"`
	Type            EventType  `json:"type"`
	Recurring       Recurrence `json:"recurring"`
	ReminderMinutes *int       `json:"reminderMinutes,omitempty"`
}

// CalendarEventRepository is the port for calendar event persistence.
type CalendarEventRepository interface {
	ListCalendarEvents(ctx context.Context) ([]CalendarEvent, error)
	AddCalendarEvent(ctx context.Context, e CalendarEvent) error
}

// civil maps t to UTC midnight of its calendar date in loc, so that whole
// days can be counted without DST drift.
func civil(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// OccursOn reports whether e falls on the calendar day of day in loc.
// Monthly and yearly events anchored on a day the target month lacks (the
// 31st, February 29th) fall on that month's last day.
func (e CalendarEvent) OccursOn(day time.Time, loc *time.Location) bool {
	start := civil(e.Date, loc)
	d := civil(day, loc)
	if d.Before(start) {
		return false
	}
	switch e.Recurring {
	case RecurDaily:
		return true
	case RecurWeekly:
		return int(d.Sub(start).Hours()/24)%7 == 0
	case RecurMonthly:
		return d.Day() == min(start.Day(), daysIn(d.Year(), d.Month()))
	case RecurYearly:
		return d.Month() == start.Month() && d.Day() == min(start.Day(), daysIn(d.Year(), d.Month()))
	default:
		return d.Equal(start)
	}
}

// NextOccurrence returns the first day on or after from (as a calendar day
// in loc) on which e occurs. ok is false when a one-off event is already past.
func (e CalendarEvent) NextOccurrence(from time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	start := StartOfDay(e.Date, loc)
	day := StartOfDay(from, loc)
	if day.Before(start) {
		day = start
	}
	// Every recurrence repeats at least once a year.
	for range 366 + 1 {
		if e.OccursOn(day, loc) {
			return day, true
		}
		if e.Recurring == RecurNone || e.Recurring == "" {
			return time.Time{}, false
		}
		day = AddDays(day, 1)
	}
	return time.Time{}, false
}

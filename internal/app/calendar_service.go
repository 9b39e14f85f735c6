package app

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"bettertogether/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrTitleRequired indicates an event without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrEventDateRequired indicates an event without a date.
	ErrEventDateRequired = errors.New("date is required")
	// ErrInvalidEventType indicates an unknown event type.
	ErrInvalidEventType = errors.New("type must be one of reminder, anniversary, date, cycle, custom")
	// ErrInvalidRecurrence indicates an unknown recurrence.
	ErrInvalidRecurrence = errors.New("recurring must be one of none, daily, weekly, monthly, yearly")
	// ErrInvalidEventTime indicates a time that is not HH:MM.
	ErrInvalidEventTime = errors.New("time must be HH:MM")
	// ErrInvalidReminder indicates a negative reminder offset.
	ErrInvalidReminder = errors.New("reminder minutes must not be negative")
)

// DefaultUpcomingLimit is how many upcoming events are listed by default.
const DefaultUpcomingLimit = 5

// EventInput is the data needed to create a calendar event.
type EventInput struct {
	Title           string
	Description     string
	Date            time.Time
	Time            string
	Type            domain.EventType
	Recurring       domain.Recurrence
	ReminderMinutes *int
}

// CalendarService builds the month grid and manages calendar events.
type CalendarService struct {
	cycles *CycleService
	events domain.CalendarEventRepository
	log    *zap.Logger
}

// NewCalendarService creates a CalendarService reading cycle data through
// cycles and events from events.
func NewCalendarService(cycles *CycleService, events domain.CalendarEventRepository, log *zap.Logger) *CalendarService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarService{cycles: cycles, events: events, log: log}
}

// AddEvent validates and stores a new event. Type defaults to reminder and
// recurrence to none.
func (s *CalendarService) AddEvent(ctx context.Context, in EventInput) (domain.CalendarEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.CalendarEvent{}, ErrTitleRequired
	}
	if in.Date.IsZero() {
		return domain.CalendarEvent{}, ErrEventDateRequired
	}
	if in.Type == "" {
		in.Type = domain.EventReminder
	}
	if !in.Type.Valid() {
		return domain.CalendarEvent{}, ErrInvalidEventType
	}
	if in.Recurring == "" {
		in.Recurring = domain.RecurNone
	}
	if !in.Recurring.Valid() {
		return domain.CalendarEvent{}, ErrInvalidRecurrence
	}
	if in.Time != "" {
		if _, err := time.Parse("15:04", in.Time); err != nil {
			return domain.CalendarEvent{}, ErrInvalidEventTime
		}
	}
	if in.ReminderMinutes != nil && *in.ReminderMinutes < 0 {
		return domain.CalendarEvent{}, ErrInvalidReminder
	}

	e := domain.CalendarEvent{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		Date:            domain.StartOfDay(in.Date, s.cycles.Location()),
		Time:            in.Time,
		Type:            in.Type,
		Recurring:       in.Recurring,
		ReminderMinutes: in.ReminderMinutes,
	}
	if err := s.events.AddCalendarEvent(ctx, e); err != nil {
		s.log.Error("add calendar event", zap.Error(err))
		return domain.CalendarEvent{}, err
	}
	s.log.Debug("calendar event added", zap.String("id", e.ID), zap.String("type", string(e.Type)))
	return e, nil
}

// ListEvents returns every stored event in the order they were added.
func (s *CalendarService) ListEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	return s.events.ListCalendarEvents(ctx)
}

// UpcomingEvent is an event paired with its next occurrence.
type UpcomingEvent struct {
	Event domain.CalendarEvent `json:"event"`
	Icon  string               `json:"icon"`
	Next  DatedCountdown       `json:"next"`
}

// Upcoming returns events occurring today or later, soonest first, up to
// limit (0 means DefaultUpcomingLimit). Recurring events appear once, at
// their next occurrence.
func (s *CalendarService) Upcoming(ctx context.Context, limit int) ([]UpcomingEvent, error) {
	events, err := s.events.ListCalendarEvents(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	return BuildUpcoming(events, s.cycles.Now(), s.cycles.Location(), limit), nil
}

// BuildUpcoming is the pure projection behind Upcoming.
func BuildUpcoming(events []domain.CalendarEvent, now time.Time, loc *time.Location, limit int) []UpcomingEvent {
	type dated struct {
		e    domain.CalendarEvent
		next time.Time
	}
	var found []dated
	for _, e := range events {
		if next, ok := e.NextOccurrence(now, loc); ok {
			found = append(found, dated{e, next})
		}
	}
	slices.SortStableFunc(found, func(a, b dated) int {
		if c := a.next.Compare(b.next); c != 0 {
			return c
		}
		return cmp.Compare(a.e.Time, b.e.Time)
	})

	out := make([]UpcomingEvent, 0, min(limit, len(found)))
	for _, d := range found[:min(limit, len(found))] {
		out = append(out, UpcomingEvent{
			Event: d.e,
			Icon:  d.e.Type.Icon(),
			Next:  datedCountdown(d.next, now),
		})
	}
	return out
}

// DayEvent is an event occurrence shown in a calendar cell.
type DayEvent struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Type  domain.EventType `json:"type"`
	Icon  string           `json:"icon"`
	Time  string           `json:"time,omitempty"`
}

// CalendarDay is a single cell of the month grid.
type CalendarDay struct {
	Day               string               `json:"day"`
	InMonth           bool                 `json:"inMonth"`
	IsToday           bool                 `json:"isToday"`
	IsLoggedPeriod    bool                 `json:"isLoggedPeriod"`
	IsPredictedPeriod bool                 `json:"isPredictedPeriod"`
	IsFertile         bool                 `json:"isFertile"`
	IsOvulation       bool                 `json:"isOvulation"`
	Moon              domain.MoonPhaseName `json:"moon"`
	Events            []DayEvent           `json:"events,omitempty"`
}

// Month returns a Sunday-first grid of whole weeks covering year/month.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) ([]CalendarDay, error) {
	settings, err := s.cycles.Settings(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.cycles.ListEntries(ctx, 0)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListCalendarEvents(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMonth(year, month, settings, entries, events, s.cycles.Now(), s.cycles.Location()), nil
}

// daySpan is an inclusive range of calendar days.
type daySpan struct {
	from, to time.Time
}

func (r daySpan) contains(d time.Time) bool {
	return !d.Before(r.from) && !d.After(r.to)
}

// BuildMonth is the pure projection behind Month. Period ranges are tested per
// cell and never expanded, however long they are.
func BuildMonth(year int, month time.Month, settings domain.CycleSettings, entries []domain.CycleEntry, events []domain.CalendarEvent, now time.Time, loc *time.Location) []CalendarDay {
	if loc == nil {
		loc = time.UTC
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	logged := make([]daySpan, 0, len(entries))
	for _, e := range entries {
		start := domain.StartOfDay(e.StartDate, loc)
		end := domain.AddDays(start, settings.AveragePeriodLength-1)
		if e.EndDate != nil {
			end = domain.StartOfDay(*e.EndDate, loc)
		}
		if end.Before(gridStart) || start.After(gridEnd) {
			continue
		}
		logged = append(logged, daySpan{start, end})
	}

	var predicted, fertile daySpan
	var ovulation time.Time
	hasPrediction := false
	if p, ok := domain.PredictCycle(settings); ok {
		hasPrediction = true
		next := domain.StartOfDay(p.NextPeriod, loc)
		predicted = daySpan{next, domain.AddDays(next, settings.AveragePeriodLength-1)}
		fertile = daySpan{domain.StartOfDay(p.FertileWindowStart, loc), domain.StartOfDay(p.FertileWindowEnd, loc)}
		ovulation = domain.StartOfDay(p.Ovulation, loc)
	}

	today := domain.StartOfDay(now, loc)
	days := make([]CalendarDay, 0, 42)
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		cell := CalendarDay{
			Day:     d.Format(domain.DayLayout),
			InMonth: d.Month() == month,
			IsToday: d.Equal(today),
			Moon:    domain.MoonPhaseAt(d.Add(12 * time.Hour)).Phase,
			Events:  eventsOn(events, d, loc),
		}
		cell.IsLoggedPeriod = slices.ContainsFunc(logged, func(r daySpan) bool { return r.contains(d) })
		if hasPrediction {
			cell.IsPredictedPeriod = predicted.contains(d)
			cell.IsFertile = fertile.contains(d)
			cell.IsOvulation = d.Equal(ovulation)
		}
		days = append(days, cell)
	}
	return days
}

func eventsOn(events []domain.CalendarEvent, d time.Time, loc *time.Location) []DayEvent {
	var out []DayEvent
	for _, e := range events {
		if !e.OccursOn(d, loc) {
			continue
		}
		out = append(out, DayEvent{ID: e.ID, Title: e.Title, Type: e.Type, Icon: e.Type.Icon(), Time: e.Time})
	}
	slices.SortStableFunc(out, func(a, b DayEvent) int { return cmp.Compare(a.Time, b.Time) })
	return out
}

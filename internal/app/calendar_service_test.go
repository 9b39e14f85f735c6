package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"

	"github.com/google/go-cmp/cmp"
)

type mockEventRepo struct {
	listFn func(ctx context.Context) ([]domain.CalendarEvent, error)
	addFn  func(ctx context.Context, e domain.CalendarEvent) error
}

func (m *mockEventRepo) ListCalendarEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEventRepo) AddCalendarEvent(ctx context.Context, e domain.CalendarEvent) error {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return nil
}

func TestCalendarMonth(t *testing.T) {
	settings := domain.DefaultCycleSettings()
	start := day(2026, time.October, 1)
	settings.LastPeriodStart = &start
	repo := &mockCycleRepo{
		getSettingsFn: func(context.Context) (domain.CycleSettings, error) { return settings, nil },
		listFn: func(context.Context) ([]domain.CycleEntry, error) {
			return []domain.CycleEntry{{ID: "a", StartDate: start, Flow: domain.FlowMedium}}, nil
		},
	}
	cycles := app.NewCycleService(repo, time.UTC, nil).
		WithClock(fixedClock(time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)))
	svc := app.NewCalendarService(cycles, &mockEventRepo{}, nil)

	days, err := svc.Month(context.Background(), 2026, time.October)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Sun Sep 27 through Sat Oct 31.
	if len(days) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(days))
	}
	if days[0].Day != "2026-09-27" || days[0].InMonth {
		t.Errorf("unexpected first cell: %+v", days[0])
	}
	if days[len(days)-1].Day != "2026-10-31" {
		t.Errorf("unexpected last cell: %s", days[len(days)-1].Day)
	}

	byDay := make(map[string]app.CalendarDay, len(days))
	for _, d := range days {
		byDay[d.Day] = d
		if d.Moon == "" {
			t.Errorf("%s has no moon phase", d.Day)
		}
	}

	for _, d := range []string{"2026-10-01", "2026-10-05"} {
		if !byDay[d].IsLoggedPeriod {
			t.Errorf("%s should be a logged period day", d)
		}
	}
	if byDay["2026-10-06"].IsLoggedPeriod {
		t.Error("logged period should span the average period length only")
	}
	for _, d := range []string{"2026-10-29", "2026-10-31"} {
		if !byDay[d].IsPredictedPeriod {
			t.Errorf("%s should be a predicted period day", d)
		}
	}
	for _, d := range []string{"2026-10-10", "2026-10-16"} {
		if !byDay[d].IsFertile {
			t.Errorf("%s should be fertile", d)
		}
	}
	if byDay["2026-10-17"].IsFertile || byDay["2026-10-09"].IsFertile {
		t.Error("fertile window is too wide")
	}
	if !byDay["2026-10-15"].IsOvulation {
		t.Error("Oct 15 should be ovulation day")
	}
	if !byDay["2026-10-19"].IsToday || byDay["2026-10-18"].IsToday {
		t.Error("today marker misplaced")
	}
}

func TestBuildMonth_EndDateOverridesPeriodLength(t *testing.T) {
	settings := domain.DefaultCycleSettings()
	start := day(2026, time.February, 3)
	end := day(2026, time.February, 9)
	entries := []domain.CycleEntry{{ID: "x", StartDate: start, EndDate: &end}}

	days := app.BuildMonth(2026, time.February, settings, entries, nil, day(2026, time.February, 1), time.UTC)
	// February 2026 starts on a Sunday and ends on a Saturday.
	if len(days) != 28 {
		t.Fatalf("expected 28 cells, got %d", len(days))
	}
	logged := 0
	for _, d := range days {
		if d.IsLoggedPeriod {
			logged++
		}
		if d.IsPredictedPeriod || d.IsFertile {
			t.Errorf("%s: no prediction without a last period start", d.Day)
		}
	}
	if logged != 7 {
		t.Errorf("expected 7 logged days, got %d", logged)
	}
}

func TestCalendarMonth_UnboundedRanges(t *testing.T) {
	repo, _, _ := statefulCycleRepo(domain.DefaultCycleSettings())
	cycles := app.NewCycleService(repo, time.UTC, nil).
		WithClock(fixedClock(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	if _, err := cycles.UpdateSettings(ctx, app.CycleSettingsPatch{AveragePeriodLength: intPtr(3000000)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	farEnd := day(9999, time.December, 31)
	if _, err := cycles.RecordEntry(ctx, app.CycleEntryInput{StartDate: day(2026, time.March, 1), EndDate: &farEnd}); err != nil {
		t.Fatalf("RecordEntry: %v", err)
	}
	if _, err := cycles.RecordEntry(ctx, app.CycleEntryInput{StartDate: day(2025, time.December, 1)}); err != nil {
		t.Fatalf("RecordEntry: %v", err)
	}
	// The second entry moved the last period start back to December.
	if _, err := cycles.UpdateSettings(ctx, app.CycleSettingsPatch{LastPeriodStart: timePtr(day(2026, time.March, 1))}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	begin := time.Now()
	days, err := app.NewCalendarService(cycles, &mockEventRepo{}, nil).Month(ctx, 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(begin); elapsed > time.Second {
		t.Errorf("month grid took %v", elapsed)
	}

	// March 2026 starts on a Sunday: Mar 1 through Sat Apr 4.
	if len(days) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(days))
	}
	for _, d := range days {
		if !d.IsLoggedPeriod {
			t.Errorf("%s should be a logged period day", d.Day)
		}
	}
	byDay := make(map[string]app.CalendarDay, len(days))
	for _, d := range days {
		byDay[d.Day] = d
	}
	if byDay["2026-03-28"].IsPredictedPeriod || !byDay["2026-03-29"].IsPredictedPeriod || !byDay["2026-04-04"].IsPredictedPeriod {
		t.Error("predicted period should run from Mar 29 to the end of the grid")
	}
	if !byDay["2026-03-15"].IsOvulation {
		t.Error("Mar 15 should be ovulation day")
	}
}

func TestBuildMonth_SkipsRangesOutsideGrid(t *testing.T) {
	settings := domain.DefaultCycleSettings()
	settings.AveragePeriodLength = 3000000
	entries := []domain.CycleEntry{{ID: "future", StartDate: day(2027, time.January, 1)}}

	days := app.BuildMonth(2026, time.February, settings, entries, nil, day(2026, time.February, 1), time.UTC)
	for _, d := range days {
		if d.IsLoggedPeriod {
			t.Errorf("%s: period starting next year should not show", d.Day)
		}
	}
}

func TestBuildMonth_Events(t *testing.T) {
	events := []domain.CalendarEvent{
		{ID: "anniv", Title: "Anniversary", Date: day(2020, time.October, 12), Type: domain.EventAnniversary, Recurring: domain.RecurYearly},
		{ID: "walk", Title: "Walk", Date: day(2026, time.October, 1), Type: domain.EventCustom, Recurring: domain.RecurWeekly},
		{ID: "dinner", Title: "Dinner", Date: day(2026, time.October, 24), Time: "19:30", Type: domain.EventDate, Recurring: domain.RecurNone},
		{ID: "pill", Title: "Vitamins", Date: day(2026, time.October, 30), Time: "08:00", Type: domain.EventReminder, Recurring: domain.RecurDaily},
		{ID: "lunch", Title: "Lunch", Date: day(2026, time.October, 24), Time: "12:00", Type: domain.EventDate},
	}
	days := app.BuildMonth(2026, time.October, domain.DefaultCycleSettings(), nil, events, day(2026, time.October, 19), time.UTC)

	byDay := make(map[string]app.CalendarDay, len(days))
	walks := 0
	for _, d := range days {
		byDay[d.Day] = d
		for _, e := range d.Events {
			if e.ID == "walk" {
				walks++
			}
		}
	}
	if walks != 5 {
		t.Errorf("expected 5 weekly walks in the grid, got %d", walks)
	}
	if got := byDay["2026-10-12"].Events; len(got) != 1 || got[0].Icon != "💕" {
		t.Errorf("unexpected anniversary cell: %+v", got)
	}
	sat := byDay["2026-10-24"].Events
	if len(sat) != 2 || sat[0].ID != "lunch" || sat[1].ID != "dinner" {
		t.Errorf("expected lunch then dinner on Oct 24, got %+v", sat)
	}
	if len(byDay["2026-10-29"].Events) != 1 || len(byDay["2026-10-31"].Events) != 1 {
		t.Error("daily reminder should start on Oct 30")
	}
	if got := byDay["2026-10-30"].Events; len(got) != 1 || got[0].ID != "pill" {
		t.Errorf("unexpected Oct 30 events: %+v", got)
	}
	if len(byDay["2026-09-27"].Events) != 0 {
		t.Error("weekly event should not appear before its start")
	}
}

func TestAddEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      app.EventInput
		wantErr error
	}{
		{"missing title", app.EventInput{Title: "  ", Date: day(2026, time.October, 20)}, app.ErrTitleRequired},
		{"missing date", app.EventInput{Title: "Dinner"}, app.ErrEventDateRequired},
		{"unknown type", app.EventInput{Title: "Dinner", Date: day(2026, time.October, 20), Type: "party"}, app.ErrInvalidEventType},
		{"unknown recurrence", app.EventInput{Title: "Dinner", Date: day(2026, time.October, 20), Recurring: "hourly"}, app.ErrInvalidRecurrence},
		{"bad time", app.EventInput{Title: "Dinner", Date: day(2026, time.October, 20), Time: "7pm"}, app.ErrInvalidEventTime},
		{"negative reminder", app.EventInput{Title: "Dinner", Date: day(2026, time.October, 20), ReminderMinutes: intPtr(-5)}, app.ErrInvalidReminder},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockEventRepo{addFn: func(context.Context, domain.CalendarEvent) error {
				t.Error("invalid event must not be stored")
				return nil
			}}
			svc := app.NewCalendarService(app.NewCycleService(&mockCycleRepo{}, time.UTC, nil), repo, nil)
			if _, err := svc.AddEvent(context.Background(), tc.in); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAddEvent_DefaultsAndStores(t *testing.T) {
	var stored []domain.CalendarEvent
	repo := &mockEventRepo{addFn: func(_ context.Context, e domain.CalendarEvent) error {
		stored = append(stored, e)
		return nil
	}}
	svc := app.NewCalendarService(app.NewCycleService(&mockCycleRepo{}, time.UTC, nil), repo, nil)

	e, err := svc.AddEvent(context.Background(), app.EventInput{
		Title: " Dinner ",
		Date:  time.Date(2026, time.October, 24, 18, 45, 0, 0, time.UTC),
		Time:  "19:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" || e.Title != "Dinner" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Type != domain.EventReminder || e.Recurring != domain.RecurNone {
		t.Errorf("expected reminder/none defaults, got %s/%s", e.Type, e.Recurring)
	}
	if !e.Date.Equal(day(2026, time.October, 24)) {
		t.Errorf("date should be truncated to the day, got %v", e.Date)
	}
	if len(stored) != 1 || stored[0].ID != e.ID {
		t.Errorf("expected the event to be stored once, got %+v", stored)
	}
}

func TestAddEvent_StorageError(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockEventRepo{addFn: func(context.Context, domain.CalendarEvent) error { return boom }}
	svc := app.NewCalendarService(app.NewCycleService(&mockCycleRepo{}, time.UTC, nil), repo, nil)
	if _, err := svc.AddEvent(context.Background(), app.EventInput{Title: "x", Date: day(2026, time.October, 1)}); !errors.Is(err, boom) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestUpcoming(t *testing.T) {
	events := []domain.CalendarEvent{
		{ID: "past", Title: "Past", Date: day(2026, time.October, 1), Type: domain.EventReminder, Recurring: domain.RecurNone},
		{ID: "xmas", Title: "Xmas", Date: day(2026, time.December, 25), Type: domain.EventCustom, Recurring: domain.RecurNone},
		{ID: "valentine", Title: "Valentine", Date: day(2019, time.February, 14), Type: domain.EventAnniversary, Recurring: domain.RecurYearly},
		{ID: "dinner", Title: "Dinner", Date: day(2026, time.October, 24), Type: domain.EventDate, Recurring: domain.RecurNone},
		{ID: "walk", Title: "Walk", Date: day(2026, time.October, 1), Type: domain.EventCustom, Recurring: domain.RecurWeekly},
		{ID: "tonight", Title: "Tonight", Date: day(2026, time.October, 19), Time: "20:00", Type: domain.EventDate, Recurring: domain.RecurNone},
		{ID: "pill", Title: "Vitamins", Date: day(2026, time.October, 30), Type: domain.EventReminder, Recurring: domain.RecurDaily},
	}
	repo := &mockEventRepo{listFn: func(context.Context) ([]domain.CalendarEvent, error) { return events, nil }}
	cycles := app.NewCycleService(&mockCycleRepo{}, time.UTC, nil).
		WithClock(fixedClock(time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)))
	svc := app.NewCalendarService(cycles, repo, nil)

	got, err := svc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids, dates []string
	for _, u := range got {
		ids = append(ids, u.Event.ID)
		dates = append(dates, u.Next.Date)
	}
	wantIDs := []string{"tonight", "walk", "dinner", "pill", "xmas"}
	wantDates := []string{"2026-10-19", "2026-10-22", "2026-10-24", "2026-10-30", "2026-12-25"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDates, dates); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}
	if got[0].Next.DaysUntil != 0 || got[1].Next.DaysUntil != 3 {
		t.Errorf("unexpected countdowns: %d, %d", got[0].Next.DaysUntil, got[1].Next.DaysUntil)
	}
	if got[0].Icon != "🌹" {
		t.Errorf("unexpected icon %q", got[0].Icon)
	}

	all, err := svc.Upcoming(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 6 || all[5].Event.ID != "valentine" || all[5].Next.Date != "2027-02-14" {
		t.Errorf("expected valentine last in the full list, got %+v", all)
	}
}

func timePtr(t time.Time) *time.Time { return &t }

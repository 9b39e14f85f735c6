package app

import (
	"context"
	"errors"
	"time"

	"bettertogether/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrStartDateRequired indicates a cycle entry without a start date.
	ErrStartDateRequired = errors.New("start date is required")
	// ErrEndBeforeStart indicates an end date earlier than the start date.
	ErrEndBeforeStart = errors.New("end date must not be before start date")
	// ErrInvalidFlow indicates an unknown flow level.
	ErrInvalidFlow = errors.New("flow must be \"light\", \"medium\" or \"heavy\"")
	// ErrInvalidLength indicates a non-positive cycle or period length.
	ErrInvalidLength = errors.New("cycle and period lengths must be positive")
)

// CycleSettingsPatch is a partial update; nil fields are left unchanged.
type CycleSettingsPatch struct {
	AverageCycleLength  *int                       `json:"averageCycleLength,omitempty"`
	AveragePeriodLength *int                       `json:"averagePeriodLength,omitempty"`
	LastPeriodStart     *time.Time                 `json:"lastPeriodStart,omitempty"`
	Notifications       *domain.CycleNotifications `json:"notifications,omitempty"`
}

// CycleEntryInput is the data needed to log a period.
type CycleEntryInput struct {
	StartDate time.Time
	EndDate   *time.Time
	Flow      domain.Flow
	Symptoms  []string
	Mood      []string
	Notes     string
}

// CycleService encapsulates cycle-tracking use cases.
type CycleService struct {
	repo domain.CycleRepository
	loc  *time.Location
	now  func() time.Time
	log  *zap.Logger
}

// NewCycleService creates a CycleService backed by the given repository.
// Calendar dates are interpreted in loc.
func NewCycleService(repo domain.CycleRepository, loc *time.Location, log *zap.Logger) *CycleService {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CycleService{repo: repo, loc: loc, now: time.Now, log: log}
}

// WithClock replaces the time source.
func (s *CycleService) WithClock(now func() time.Time) *CycleService {
	s.now = now
	return s
}

// Location returns the time zone used for calendar dates.
func (s *CycleService) Location() *time.Location {
	return s.loc
}

// Now returns the current instant in the service's time zone.
func (s *CycleService) Now() time.Time {
	return s.now().In(s.loc)
}

// Settings returns the stored cycle settings, or defaults.
func (s *CycleService) Settings(ctx context.Context) (domain.CycleSettings, error) {
	return s.repo.GetCycleSettings(ctx)
}

// UpdateSettings merges patch into the stored settings and persists the result
// as a whole.
func (s *CycleService) UpdateSettings(ctx context.Context, patch CycleSettingsPatch) (domain.CycleSettings, error) {
	if (patch.AverageCycleLength != nil && *patch.AverageCycleLength <= 0) ||
		(patch.AveragePeriodLength != nil && *patch.AveragePeriodLength <= 0) {
		return domain.CycleSettings{}, ErrInvalidLength
	}
	cur, err := s.repo.GetCycleSettings(ctx)
	if err != nil {
		return domain.CycleSettings{}, err
	}
	if patch.AverageCycleLength != nil {
		cur.AverageCycleLength = *patch.AverageCycleLength
	}
	if patch.AveragePeriodLength != nil {
		cur.AveragePeriodLength = *patch.AveragePeriodLength
	}
	if patch.LastPeriodStart != nil {
		start := domain.StartOfDay(*patch.LastPeriodStart, s.loc)
		cur.LastPeriodStart = &start
	}
	if patch.Notifications != nil {
		cur.Notifications = *patch.Notifications
	}
	if err := s.repo.SaveCycleSettings(ctx, cur); err != nil {
		s.log.Error("save cycle settings", zap.Error(err))
		return domain.CycleSettings{}, err
	}
	return cur, nil
}

// ListEntries returns logged periods newest first, up to limit (0 means all).
func (s *CycleService) ListEntries(ctx context.Context, limit int) ([]domain.CycleEntry, error) {
	entries, err := s.repo.ListCycleEntries(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// RecordEntry validates and stores a logged period, then moves the settings'
// last period start to the entry's start date.
func (s *CycleService) RecordEntry(ctx context.Context, in CycleEntryInput) (domain.CycleEntry, error) {
	if in.StartDate.IsZero() {
		return domain.CycleEntry{}, ErrStartDateRequired
	}
	if in.Flow == "" {
		in.Flow = domain.FlowMedium
	}
	if !in.Flow.Valid() {
		return domain.CycleEntry{}, ErrInvalidFlow
	}
	start := domain.StartOfDay(in.StartDate, s.loc)
	e := domain.CycleEntry{
		ID:        uuid.NewString(),
		StartDate: start,
		Flow:      in.Flow,
		Symptoms:  uniqueTags(in.Symptoms),
		Mood:      uniqueTags(in.Mood),
		Notes:     in.Notes,
	}
	if in.EndDate != nil {
		end := domain.StartOfDay(*in.EndDate, s.loc)
		if end.Before(start) {
			return domain.CycleEntry{}, ErrEndBeforeStart
		}
		e.EndDate = &end
	}

	if err := s.repo.AddCycleEntry(ctx, e); err != nil {
		s.log.Error("add cycle entry", zap.Error(err))
		return domain.CycleEntry{}, err
	}
	if _, err := s.UpdateSettings(ctx, CycleSettingsPatch{LastPeriodStart: &start}); err != nil {
		return e, err
	}
	s.log.Debug("cycle entry recorded", zap.String("id", e.ID), zap.Time("start", start))
	return e, nil
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// DatedCountdown is a predicted date ready for display.
type DatedCountdown struct {
	Date      string `json:"date"`
	Display   string `json:"display"`
	DaysUntil int    `json:"daysUntil"`
	Countdown string `json:"countdown"`
}

// FertileWindowView is the fertile window ready for display.
type FertileWindowView struct {
	Start  DatedCountdown       `json:"start"`
	End    DatedCountdown       `json:"end"`
	Status domain.FertileStatus `json:"status"`
}

// PredictionView is the prediction block of the overview.
type PredictionView struct {
	NextPeriod    DatedCountdown    `json:"nextPeriod"`
	Ovulation     DatedCountdown    `json:"ovulation"`
	FertileWindow FertileWindowView `json:"fertileWindow"`
}

// PhaseView is the current cycle phase with its guidance.
type PhaseView struct {
	Phase    domain.CyclePhase    `json:"phase"`
	CycleDay int                  `json:"cycleDay"`
	Guidance domain.PhaseGuidance `json:"guidance"`
}

// Overview is everything the cycle & moon screen renders.
type Overview struct {
	Today      string               `json:"today"`
	Settings   domain.CycleSettings `json:"settings"`
	Prediction *PredictionView      `json:"prediction"`
	Phase      *PhaseView           `json:"phase"`
	Moon       domain.MoonReading   `json:"moon"`
}

// Overview projects predictions, the current phase and the moon for now.
func (s *CycleService) Overview(ctx context.Context) (Overview, error) {
	settings, err := s.repo.GetCycleSettings(ctx)
	if err != nil {
		return Overview{}, err
	}
	now := s.Now()
	return BuildOverview(settings, now), nil
}

// BuildOverview is the pure projection behind Overview.
func BuildOverview(settings domain.CycleSettings, now time.Time) Overview {
	ov := Overview{
		Today:    now.Format(domain.DayLayout),
		Settings: settings,
		Moon:     domain.MoonPhaseAt(now),
	}
	if p, ok := domain.PredictCycle(settings); ok {
		ov.Prediction = &PredictionView{
			NextPeriod: datedCountdown(p.NextPeriod, now),
			Ovulation:  datedCountdown(p.Ovulation, now),
			FertileWindow: FertileWindowView{
				Start:  datedCountdown(p.FertileWindowStart, now),
				End:    datedCountdown(p.FertileWindowEnd, now),
				Status: domain.FertileWindowStatus(p, now),
			},
		}
	}
	if phase, ok := domain.CurrentCyclePhase(settings, now); ok {
		days, _ := domain.DaysSincePeriodStart(settings, now)
		ov.Phase = &PhaseView{
			Phase:    phase,
			CycleDay: days + 1,
			Guidance: domain.GuidanceFor(phase),
		}
	}
	return ov
}

func datedCountdown(t, now time.Time) DatedCountdown {
	days := domain.DaysUntil(t, now)
	return DatedCountdown{
		Date:      t.Format(domain.DayLayout),
		Display:   domain.FormatShort(t),
		DaysUntil: days,
		Countdown: domain.Countdown(days),
	}
}

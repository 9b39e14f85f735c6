package domain

import (
	"context"
	"math"
	"time"
)

// Default cycle parameters used until the user configures their own.
const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

const (
	lutealPhaseDays = 14
	fertileLeadDays = 5
	fertileTailDays = 1

	// Phase boundaries in days since the period started. They do not scale
	// with the configured cycle length.
	follicularLastDay = 13
	ovulationLastDay  = 16
)

// Flow is the intensity recorded for a period.
type Flow string

const (
	FlowLight  Flow = "light"
	FlowMedium Flow = "medium"
	FlowHeavy  Flow = "heavy"
)

// Valid reports whether f is one of the known flow levels.
func (f Flow) Valid() bool {
	switch f {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	}
	return false
}

// CycleNotifications holds the reminder toggles shown on the settings screen.
type CycleNotifications struct {
	PeriodReminder    bool `json:"periodReminder"`
	OvulationReminder bool `json:"ovulationReminder"`
	PMSReminder       bool `json:"pmsReminder"`
}

// CycleSettings are the user-configured inputs to the cycle predictor.
type CycleSettings struct {
	AverageCycleLength  int                `json:"averageCycleLength"`
	AveragePeriodLength int                `json:"averagePeriodLength"`
	LastPeriodStart     *time.Time         `json:"lastPeriodStart,omitempty"`
	Notifications       CycleNotifications `json:"notifications"`
}

// DefaultCycleSettings returns the settings used when nothing is stored.
func DefaultCycleSettings() CycleSettings {
	return CycleSettings{
		AverageCycleLength:  DefaultCycleLength,
		AveragePeriodLength: DefaultPeriodLength,
		Notifications: CycleNotifications{
			PeriodReminder:    true,
			OvulationReminder: true,
			PMSReminder:       true,
		},
	}
}

// CycleEntry is a single logged period.
type CycleEntry struct {
	ID        string     `json:"id"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Flow      Flow       `json:"flow"`
	Symptoms  []string   `json:"symptoms"`
	Mood      []string   `json:"mood"`
	Notes     string     `json:"notes,omitempty"`
}

// CycleRepository is the port for cycle persistence.
type CycleRepository interface {
	GetCycleSettings(ctx context.Context) (CycleSettings, error)
	SaveCycleSettings(ctx context.Context, s CycleSettings) error
	ListCycleEntries(ctx context.Context) ([]CycleEntry, error)
	AddCycleEntry(ctx context.Context, e CycleEntry) error
}

// CyclePrediction holds the projected dates for the current cycle.
type CyclePrediction struct {
	NextPeriod         time.Time `json:"nextPeriod"`
	Ovulation          time.Time `json:"ovulation"`
	FertileWindowStart time.Time `json:"fertileWindowStart"`
	FertileWindowEnd   time.Time `json:"fertileWindowEnd"`
}

// PredictCycle projects next period, ovulation and fertile window from the
// last period start. ok is false when no start date is known.
func PredictCycle(s CycleSettings) (p CyclePrediction, ok bool) {
	if s.LastPeriodStart == nil {
		return CyclePrediction{}, false
	}
	start := *s.LastPeriodStart
	ovulation := AddDays(start, s.AverageCycleLength-lutealPhaseDays)
	return CyclePrediction{
		NextPeriod:         AddDays(start, s.AverageCycleLength),
		Ovulation:          ovulation,
		FertileWindowStart: AddDays(ovulation, -fertileLeadDays),
		FertileWindowEnd:   AddDays(ovulation, fertileTailDays),
	}, true
}

// CyclePhase is the phase of the menstrual cycle on a given day.
type CyclePhase int

const (
	PhaseMenstruation CyclePhase = iota
	PhaseFollicular
	PhaseOvulation
	PhaseLuteal
)

var cyclePhaseNames = [...]string{"Menstruation", "Follicular", "Ovulation", "Luteal"}

func (p CyclePhase) String() string {
	if p < 0 || int(p) >= len(cyclePhaseNames) {
		return "Unknown"
	}
	return cyclePhaseNames[p]
}

// MarshalText encodes the phase by name.
func (p CyclePhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DaysSincePeriodStart is the whole number of days elapsed since the last
// period started, rounded down. ok is false when no start date is known.
func DaysSincePeriodStart(s CycleSettings, now time.Time) (days int, ok bool) {
	if s.LastPeriodStart == nil {
		return 0, false
	}
	return int(math.Floor(DaysBetween(*s.LastPeriodStart, now))), true
}

// ClassifyCycleDay maps elapsed days since the period started to a phase.
func ClassifyCycleDay(days, periodLength int) CyclePhase {
	switch {
	case days <= periodLength:
		return PhaseMenstruation
	case days <= follicularLastDay:
		return PhaseFollicular
	case days <= ovulationLastDay:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// CurrentCyclePhase classifies now against the configured settings.
func CurrentCyclePhase(s CycleSettings, now time.Time) (CyclePhase, bool) {
	days, ok := DaysSincePeriodStart(s, now)
	if !ok {
		return PhaseMenstruation, false
	}
	return ClassifyCycleDay(days, s.AveragePeriodLength), true
}

// FertileStatus describes where now sits relative to the fertile window.
type FertileStatus string

const (
	FertileUpcoming FertileStatus = "upcoming"
	FertileActive   FertileStatus = "active"
	FertileEnded    FertileStatus = "ended"
)

// FertileWindowStatus reports whether the fertile window has started, is
// running, or is over.
func FertileWindowStatus(p CyclePrediction, now time.Time) FertileStatus {
	if DaysUntil(p.FertileWindowStart, now) > 0 {
		return FertileUpcoming
	}
	if DaysUntil(p.FertileWindowEnd, now) >= 0 {
		return FertileActive
	}
	return FertileEnded
}

package domain

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of a lunar cycle in days.
const SynodicMonth = 29.5305902

// ReferenceNewMoon is a known new moon used as the epoch for phase arithmetic.
var ReferenceNewMoon = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

// MoonPhaseName is one of the eight named lunar phases.
type MoonPhaseName string

const (
	NewMoon        MoonPhaseName = "New Moon"
	WaxingCrescent MoonPhaseName = "Waxing Crescent"
	FirstQuarter   MoonPhaseName = "First Quarter"
	WaxingGibbous  MoonPhaseName = "Waxing Gibbous"
	FullMoon       MoonPhaseName = "Full Moon"
	WaningGibbous  MoonPhaseName = "Waning Gibbous"
	LastQuarter    MoonPhaseName = "Last Quarter"
	WaningCrescent MoonPhaseName = "Waning Crescent"
)

// moonBands are half-open [start, end) ranges of moon age in days. The last
// band runs to the end of the cycle.
var moonBands = []struct {
	end   float64
	name  MoonPhaseName
	emoji string
}{
	{1, NewMoon, "🌑"},
	{7.4, WaxingCrescent, "🌒"},
	{8.4, FirstQuarter, "🌓"},
	{14.8, WaxingGibbous, "🌔"},
	{15.8, FullMoon, "🌕"},
	{22.1, WaningGibbous, "🌖"},
	{23.1, LastQuarter, "🌗"},
	{math.Inf(1), WaningCrescent, "🌘"},
}

// MoonReading describes the moon at a given instant.
type MoonReading struct {
	Phase        MoonPhaseName `json:"phase"`
	Emoji        string        `json:"emoji"`
	Age          float64       `json:"age"`
	Illumination float64       `json:"illumination"`
}

// MoonAge returns the number of days since the most recent new moon, always in
// [0, SynodicMonth), including for instants before ReferenceNewMoon.
func MoonAge(t time.Time) float64 {
	age := math.Mod(DaysBetween(ReferenceNewMoon, t), SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	if age >= SynodicMonth {
		age = 0
	}
	return age
}

// ClassifyMoonAge maps a moon age in days to its phase name and emoji.
func ClassifyMoonAge(age float64) (MoonPhaseName, string) {
	for _, b := range moonBands {
		if age < b.end {
			return b.name, b.emoji
		}
	}
	last := moonBands[len(moonBands)-1]
	return last.name, last.emoji
}

// MoonPhaseAt classifies the moon at t.
func MoonPhaseAt(t time.Time) MoonReading {
	age := MoonAge(t)
	name, emoji := ClassifyMoonAge(age)
	return MoonReading{
		Phase:        name,
		Emoji:        emoji,
		Age:          age,
		Illumination: (1 - math.Cos(2*math.Pi*age/SynodicMonth)) / 2,
	}
}

// MoonPhasesBetween returns one reading per calendar day starting at start.
func MoonPhasesBetween(start time.Time, days int) []MoonReading {
	if days <= 0 {
		return nil
	}
	out := make([]MoonReading, 0, days)
	for i := range days {
		out = append(out, MoonPhaseAt(AddDays(start, i)))
	}
	return out
}

package domain

// PhaseGuidance is the display text paired with each cycle phase.
type PhaseGuidance struct {
	Phase        CyclePhase `json:"phase"`
	Moon         string     `json:"moon"`
	Energy       string     `json:"energy"`
	Focus        []string   `json:"focus"`
	SupportTips  []string   `json:"supportTips"`
	Affirmations []string   `json:"affirmations"`
}

var phaseGuidance = map[CyclePhase]PhaseGuidance{
	PhaseMenstruation: {
		Phase:  PhaseMenstruation,
		Moon:   "New Moon",
		Energy: "Low, inward-focused",
		Focus: []string{
			"Rest, reflect, release",
			"Journaling, light stretching, alone time",
		},
		SupportTips: []string{
			"Offer comfort, warmth, space",
			"Run a bath, bring a favorite snack or tea",
			"Be extra gentle with emotional tone",
		},
		Affirmations: []string{
			"I honor rest as a sacred part of creation.",
			"My body is wise and I listen.",
		},
	},
	PhaseFollicular: {
		Phase:  PhaseFollicular,
		Moon:   "Waxing Moon",
		Energy: "Rising, creative, playful",
		Focus: []string{
			"New ideas, learning, socializing",
			"Goal-setting, light movement",
		},
		SupportTips: []string{
			"Encourage new dreams",
			"Be playful, go on a date night",
			"Do something spontaneous together",
		},
		Affirmations: []string{
			"I welcome new beginnings with curiosity.",
			"My energy is rising and full of light.",
		},
	},
	PhaseOvulation: {
		Phase:  PhaseOvulation,
		Moon:   "Full Moon",
		Energy: "Magnetic, radiant, outward",
		Focus: []string{
			"Connection, intimacy, collaboration",
			"Creative or bold expression",
		},
		SupportTips: []string{
			"Say out loud how radiant your partner is",
			"Be physically affectionate and expressive",
			"Celebrate recent achievements",
		},
		Affirmations: []string{
			"I am magnetic and powerful.",
			"I shine my light and connect deeply.",
		},
	},
	PhaseLuteal: {
		Phase:  PhaseLuteal,
		Moon:   "Waning Moon",
		Energy: "Turning inward, analytical",
		Focus: []string{
			"Wrap up tasks, detail focus, self-care",
			"Clear boundaries, nesting",
		},
		SupportTips: []string{
			"Help finish whatever is in progress",
			"Be patient if moods shift",
			"Offer a grounding presence and no pressure",
		},
		Affirmations: []string{
			"I ground myself in clarity and calm.",
			"I honor the sacred pause before renewal.",
		},
	},
}

// GuidanceFor returns the guidance for p. Unknown phases get the menstruation
// entry.
func GuidanceFor(p CyclePhase) PhaseGuidance {
	if g, ok := phaseGuidance[p]; ok {
		return g
	}
	return phaseGuidance[PhaseMenstruation]
}

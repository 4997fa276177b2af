package model

import "time"

// Rules holds the tunable numbers of a duel
type Rules struct {
	Start CombatState

	AlcometerMin, AlcometerMax int
	RespectMin, RespectMax     int
	StomakMin, StomakMax       int
	NovcanikMin                int

	// RespectFloor loses the duel when respect is at or below it
	RespectFloor int

	// FoulThreshold loses the duel when fouls reach it
	FoulThreshold int

	// DrunkThreshold is the alcometer level at which fouls become possible
	DrunkThreshold      int
	FoulBaseChance      int
	FoulMaxChance       int
	FoulRespectCost     int
	OverflowRespectCost int

	// TurnCap is the last turn number played before the duel is decided on points
	TurnCap int

	RecentLogSize   int
	FinishedHistory int
	ChallengeTTL    time.Duration
}

// DefaultRules returns the standard kafana rules
func DefaultRules() Rules {
	return Rules{
		Start: CombatState{
			Alcometer:     0,
			Respect:       50,
			Stomak:        20,
			Novcanik:      100,
			PijaniFoulovi: 0,
		},
		AlcometerMin:        0,
		AlcometerMax:        150,
		RespectMin:          0,
		RespectMax:          100,
		StomakMin:           0,
		StomakMax:           100,
		NovcanikMin:         0,
		RespectFloor:        0,
		FoulThreshold:       3,
		DrunkThreshold:      80,
		FoulBaseChance:      20,
		FoulMaxChance:       90,
		FoulRespectCost:     5,
		OverflowRespectCost: 10,
		TurnCap:             20,
		RecentLogSize:       10,
		FinishedHistory:     10,
		ChallengeTTL:        24 * time.Hour,
	}
}

// StartingState returns a fresh combat state for a newly accepted duel
func (r Rules) StartingState() CombatState {
	s := r.Start.Clone()
	s.SpecialsUsed = map[string]int{}
	return s
}

// FoulChance returns the percentage chance of a foul at the given alcometer
func (r Rules) FoulChance(alcometer int) int {
	if alcometer < r.DrunkThreshold {
		return 0
	}
	chance := r.FoulBaseChance + (alcometer - r.DrunkThreshold)
	if chance > r.FoulMaxChance {
		chance = r.FoulMaxChance
	}
	return chance
}

// Clamp forces every bounded stat into its range
func (r Rules) Clamp(s *CombatState) {
	s.Alcometer = clamp(s.Alcometer, r.AlcometerMin, r.AlcometerMax)
	s.Respect = clamp(s.Respect, r.RespectMin, r.RespectMax)
	s.Stomak = clamp(s.Stomak, r.StomakMin, r.StomakMax)
	if s.Novcanik < r.NovcanikMin {
		s.Novcanik = r.NovcanikMin
	}
	if s.PijaniFoulovi < 0 {
		s.PijaniFoulovi = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

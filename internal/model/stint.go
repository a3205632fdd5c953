package model

// PlayerRef identifies a player on a lineup.
type PlayerRef struct {
	PersonID   int    `json:"personId"`
	NameI      string `json:"nameI,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// Stint is an interval within a period during which both lineups are unchanged.
// PlusMinus is the home team's point differential over the interval.
type Stint struct {
	Period      int         `json:"period,omitempty"`
	StartClock  string      `json:"startClock"`
	EndClock    string      `json:"endClock"`
	PlayersHome []PlayerRef `json:"playersHome"`
	PlayersAway []PlayerRef `json:"playersAway"`
	PlusMinus   int         `json:"plusMinus"`
}

// Duration returns the stint length in seconds (start clock minus end clock).
func (s *Stint) Duration() float64 {
	return ParseClock(s.StartClock) - ParseClock(s.EndClock)
}

// PeriodStints holds the stints of one period.
type PeriodStints struct {
	Period int     `json:"period"`
	Stints []Stint `json:"stints"`
}

// MinutesData is the on-court stint resource for a game.
type MinutesData struct {
	HomeTeam Team           `json:"homeTeam"`
	AwayTeam Team           `json:"awayTeam"`
	Periods  []PeriodStints `json:"periods"`
}

// PeriodData returns the stints for period p, or nil.
func (m *MinutesData) PeriodData(p int) []Stint {
	if m == nil {
		return nil
	}
	for _, ps := range m.Periods {
		if ps.Period == p {
			return ps.Stints
		}
	}
	return nil
}

// SegmentSeconds sums stint durations over the segment's periods.
func (m *MinutesData) SegmentSeconds(seg Segment) float64 {
	if m == nil {
		return 0
	}
	var total float64
	for _, ps := range m.Periods {
		if !seg.Includes(ps.Period) {
			continue
		}
		for i := range ps.Stints {
			total += ps.Stints[i].Duration()
		}
	}
	return total
}

// StartingStint returns the stint with the largest start clock for period p,
// i.e. the lineup that opened the period.
func (m *MinutesData) StartingStint(p int) (Stint, bool) {
	stints := m.PeriodData(p)
	if len(stints) == 0 {
		return Stint{}, false
	}
	best := 0
	for i := 1; i < len(stints); i++ {
		if ParseClock(stints[i].StartClock) > ParseClock(stints[best].StartClock) {
			best = i
		}
	}
	return stints[best], true
}

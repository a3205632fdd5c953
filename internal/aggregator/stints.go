package aggregator

import (
	"math"
	"sort"
	"strings"

	"github.com/pable/go-nba-metrics/internal/lineup"
	"github.com/pable/go-nba-metrics/internal/model"
)

// LineupMode selects how on-court seconds and plus-minus are attributed.
type LineupMode int

const (
	// LineupAuto uses stints for periods they fully cover, replay for the rest.
	LineupAuto LineupMode = iota
	// LineupStints uses stint records only.
	LineupStints
	// LineupReplay replays substitutions from each period's starting five.
	LineupReplay
	// LineupNone attributes no minutes.
	LineupNone
)

func (m LineupMode) String() string {
	switch m {
	case LineupStints:
		return "stints"
	case LineupReplay:
		return "replay"
	case LineupNone:
		return "none"
	default:
		return "auto"
	}
}

// ParseLineupMode maps a flag value to a mode; unknown values mean auto.
func ParseLineupMode(s string) LineupMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stints":
		return LineupStints
	case "replay":
		return LineupReplay
	case "none":
		return LineupNone
	default:
		return LineupAuto
	}
}

// coverageTolerance is how far (seconds) stint time may fall short of elapsed
// time before a period is considered incompletely covered.
const coverageTolerance = 1.0

func attributeLineups(acc *accumulator, in Input, ordered []model.Action) {
	if in.Minutes == nil || in.Lineup == LineupNone {
		return
	}

	replayPeriods := make(map[int]bool)
	for _, p := range lineupPeriods(in) {
		stints := in.Minutes.PeriodData(p)
		switch {
		case in.Lineup == LineupReplay:
			replayPeriods[p] = true
		case in.Lineup == LineupStints, stintsCover(stints, in.Live.Elapsed(p)):
			applyStints(acc, stints)
		default:
			replayPeriods[p] = true
		}
	}
	if len(replayPeriods) == 0 {
		return
	}
	res := lineup.Replay(ordered, in.Minutes, lineup.Options{
		HomeTeamID: in.HomeTeamID,
		AwayTeamID: in.AwayTeamID,
		Segment:    in.Segment,
		Live:       in.Live,
		Periods:    func(p int) bool { return replayPeriods[p] },
	})
	for id, line := range res.Players {
		p := acc.player(id, line.TeamID)
		p.Seconds += line.Seconds
		p.PlusMinusPoints += line.PlusMinus
	}
}

// lineupPeriods lists the segment's periods that have stint data, ascending.
func lineupPeriods(in Input) []int {
	seen := make(map[int]bool)
	for _, ps := range in.Minutes.Periods {
		if in.Segment.Includes(ps.Period) && len(ps.Stints) > 0 {
			seen[ps.Period] = true
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func stintsCover(stints []model.Stint, elapsed float64) bool {
	var total float64
	for i := range stints {
		total += math.Max(0, stints[i].Duration())
	}
	return total > 0 && total >= elapsed-coverageTolerance
}

// applyStints credits each listed player with the stint's duration and
// plus-minus, negated for the away lineup.
func applyStints(acc *accumulator, stints []model.Stint) {
	for i := range stints {
		s := &stints[i]
		dur := s.Duration()
		for _, ref := range s.PlayersHome {
			p := acc.stintPlayer(ref, acc.home)
			p.Seconds += dur
			p.PlusMinusPoints += s.PlusMinus
		}
		for _, ref := range s.PlayersAway {
			p := acc.stintPlayer(ref, acc.away)
			p.Seconds += dur
			p.PlusMinusPoints -= s.PlusMinus
		}
	}
}

// stintPlayer resolves a stint reference, falling back to the reference's own
// name when the player is missing from the box score.
func (acc *accumulator) stintPlayer(ref model.PlayerRef, teamID int) *model.PlayerStatLine {
	p := acc.player(ref.PersonID, teamID)
	if p.FamilyName == "" {
		p.FirstName = ref.FirstName
		p.FamilyName = ref.FamilyName
		if p.FamilyName == "" {
			p.FamilyName = ref.NameI
		}
	}
	return p
}

package metrics

import "github.com/pable/go-nba-metrics/internal/model"

// ShotProfile is where a team shot from and how well, in percent.
type ShotProfile struct {
	RimRate   float64 `json:"rimRate"`
	MidRate   float64 `json:"midRate"`
	ThreeRate float64 `json:"threeRate"`
	RimPct    float64 `json:"rimPct"`
	MidPct    float64 `json:"midPct"`
	ThreePct  float64 `json:"threePct"`
}

// ComputeShotProfile derives zone attempt rates and zone FG%.
func ComputeShotProfile(t model.TeamTotals) ShotProfile {
	p := ShotProfile{
		RimPct:   t.RimPercent(),
		MidPct:   t.MidPercent(),
		ThreePct: t.ThreePercent(),
	}
	if fga := float64(t.FieldGoalsAttempted); fga > 0 {
		p.RimRate = float64(t.RimFieldGoalsAttempted) / fga * 100
		p.MidRate = float64(t.MidFieldGoalsAttempted) / fga * 100
		p.ThreeRate = float64(t.ThreePointersAttempted) / fga * 100
	}
	return p
}

// Transition is the transition and hustle-points block for one team.
type Transition struct {
	Rate                  float64 `json:"transitionRate"`
	Points                float64 `json:"transitionPoints"`
	Turnovers             float64 `json:"transitionTurnovers"`
	SecondChancePoints    float64 `json:"secondChancePoints"`
	PointsOffTurnovers    float64 `json:"pointsOffTurnovers"`
	PaintPoints           float64 `json:"paintPoints"`
	ThreePointORebPercent float64 `json:"threePointORebPercent"`
	Official              bool    `json:"official"`
}

// ComputeTransition derives the block from totals over poss possessions
// (floored at 1).
func ComputeTransition(t model.TeamTotals, poss float64) Transition {
	if poss < 1 {
		poss = 1
	}
	tr := Transition{
		Points:                float64(t.TransitionPoints),
		Turnovers:             float64(t.TransitionTurnovers),
		SecondChancePoints:    float64(t.SecondChancePoints),
		PointsOffTurnovers:    float64(t.PointsOffTurnovers),
		PaintPoints:           float64(t.PaintPoints),
		ThreePointORebPercent: t.ThreePointORebPercent(),
	}
	if t.TransitionPossessions > 0 {
		tr.Rate = float64(t.TransitionPossessions) / poss * 100
	}
	return tr
}

// MergeTransition overlays every official field that was supplied.
func MergeTransition(derived Transition, official *model.OfficialTransition) Transition {
	if official == nil {
		return derived
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	out := derived
	set(&out.Rate, official.TransitionRate)
	set(&out.Points, official.TransitionPoints)
	set(&out.Turnovers, official.TransitionTurnovers)
	set(&out.SecondChancePoints, official.SecondChancePoints)
	set(&out.PointsOffTurnovers, official.PointsOffTurnovers)
	set(&out.PaintPoints, official.PaintPoints)
	set(&out.ThreePointORebPercent, official.ThreePointORebPercent)
	out.Official = true
	return out
}

// TeamTransition derives both sides' transition blocks, using the official
// figures for the whole game when both teams have them.
func TeamTransition(seg model.Segment, home, away model.TeamTotals, homePoss, awayPoss float64, official *model.TeamStats) (homeT, awayT Transition) {
	homeT = ComputeTransition(home, homePoss)
	awayT = ComputeTransition(away, awayPoss)
	if seg.IsAll() && official != nil && official.Home != nil && official.Away != nil &&
		official.Home.TransitionStats != nil && official.Away.TransitionStats != nil {
		homeT = MergeTransition(homeT, official.Home.TransitionStats)
		awayT = MergeTransition(awayT, official.Away.TransitionStats)
	}
	return homeT, awayT
}

// Deflections returns the official deflection count, which is only
// meaningful for the whole game.
func Deflections(seg model.Segment, official *model.OfficialTeamStats) float64 {
	if !seg.IsAll() || official == nil || official.AdvancedStats == nil {
		return 0
	}
	return official.AdvancedStats.Deflections
}

// Disruptions is steals + blocks + offensive fouls drawn + deflections.
func Disruptions(t model.TeamTotals, deflections float64) float64 {
	return float64(t.Steals+t.Blocks+t.OffensiveFoulsDrawn) + deflections
}

// BonusFouls is the team-foul count that puts the opponent in the bonus.
const BonusFouls = 5

// TeamFoulsInPeriod counts every foul charged to teamID in period.
func TeamFoulsInPeriod(actions []model.Action, period, teamID int) int {
	n := 0
	for i := range actions {
		a := &actions[i]
		if a.Period == period && a.ActionType == model.ActionFoul && a.TeamID == teamID {
			n++
		}
	}
	return n
}

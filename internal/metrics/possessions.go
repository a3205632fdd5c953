// Package metrics derives rates and ratings from segment team totals.
package metrics

import (
	"math"

	"github.com/pable/go-nba-metrics/internal/model"
)

// EstimatePossessions is FGA + 0.44*FTA + TOV - OREB.
func EstimatePossessions(t model.TeamTotals) float64 {
	return float64(t.FieldGoalsAttempted) + 0.44*float64(t.FreeThrowsAttempted) +
		float64(t.Turnovers) - float64(t.ReboundsOffensive)
}

// Possessions picks each side's possession count: official figures for the
// whole game when both are present and non-zero, estimates otherwise.
func Possessions(seg model.Segment, home, away model.TeamTotals, official *model.TeamStats) (homePoss, awayPoss float64, isOfficial bool) {
	if seg.IsAll() && official != nil && official.Home != nil && official.Away != nil &&
		official.Home.Possessions != 0 && official.Away.Possessions != 0 {
		return official.Home.Possessions, official.Away.Possessions, true
	}
	return EstimatePossessions(home), EstimatePossessions(away), false
}

// OffensiveRating is points per 100 possessions, rounded, with possessions floored at 1.
func OffensiveRating(points int, poss float64) int {
	return int(math.Round(float64(points) / math.Max(poss, 1) * 100))
}

// Ratings is a team's offensive and net rating.
type Ratings struct {
	Offensive int  `json:"offensiveRating"`
	Net       int  `json:"netRating"`
	Official  bool `json:"official"`
}

// TeamRatings computes both sides' ratings from estimated possessions. On the
// whole-game segment, official ratings override when both are present and non-zero.
func TeamRatings(seg model.Segment, home, away model.TeamTotals, official *model.TeamStats) (homeR, awayR Ratings) {
	if seg.IsAll() && official != nil && official.Home != nil && official.Away != nil &&
		official.Home.OffensiveRating != 0 && official.Away.OffensiveRating != 0 {
		homeR = Ratings{
			Offensive: int(math.Round(official.Home.OffensiveRating)),
			Net:       int(math.Round(official.Home.NetRating)),
			Official:  true,
		}
		awayR = Ratings{
			Offensive: int(math.Round(official.Away.OffensiveRating)),
			Net:       int(math.Round(official.Away.NetRating)),
			Official:  true,
		}
		return homeR, awayR
	}
	homeO := OffensiveRating(home.Points, EstimatePossessions(home))
	awayO := OffensiveRating(away.Points, EstimatePossessions(away))
	return Ratings{Offensive: homeO, Net: homeO - awayO}, Ratings{Offensive: awayO, Net: awayO - homeO}
}

// FourFactors are the four efficiency drivers of an offense, as percentages
// (FTR as FTA per 100 FGA).
type FourFactors struct {
	EFG float64 `json:"efgPct"`
	TOV float64 `json:"tovPct"`
	ORB float64 `json:"orbPct"`
	FTR float64 `json:"ftRate"`
}

// ComputeFourFactors derives t's four factors; opp supplies defensive rebounds
// for ORB%. Every ratio is zero when its denominator is zero.
func ComputeFourFactors(t, opp model.TeamTotals) FourFactors {
	var f FourFactors
	fga := float64(t.FieldGoalsAttempted)
	fta := float64(t.FreeThrowsAttempted)
	tov := float64(t.Turnovers)
	if fga > 0 {
		f.EFG = (float64(t.FieldGoalsMade) + 0.5*float64(t.ThreePointersMade)) / fga * 100
		f.FTR = fta / fga * 100
	}
	if d := fga + 0.44*fta + tov; d > 0 {
		f.TOV = tov / d * 100
	}
	orb := float64(t.ReboundsOffensive)
	if d := orb + float64(opp.DefensiveRebounds()); d > 0 {
		f.ORB = orb / d * 100
	}
	return f
}

// ElapsedSeconds is the game time played inside the segment as of clock,
// using 12-minute regulation and 5-minute overtime periods. A nil clock yields 0.
func ElapsedSeconds(seg model.Segment, clock *model.LiveClock) float64 {
	if clock == nil || clock.Period < 1 {
		return 0
	}
	var total float64
	for p := 1; p <= clock.Period; p++ {
		if seg.Includes(p) {
			total += clock.Elapsed(p)
		}
	}
	return total
}

// SegmentSeconds is the pace denominator: stint time when available (clamped
// to the elapsed time while live), else elapsed time from the clock for the
// whole game, else the nominal segment length.
func SegmentSeconds(seg model.Segment, minutes *model.MinutesData, clock *model.LiveClock, live bool) float64 {
	if total := minutes.SegmentSeconds(seg); total > 0 {
		if live {
			if elapsed := ElapsedSeconds(seg, clock); elapsed > 0 {
				return math.Min(total, elapsed)
			}
		}
		return total
	}
	if seg.IsAll() {
		if elapsed := ElapsedSeconds(seg, clock); elapsed > 0 {
			return elapsed
		}
	}
	return seg.DefaultSeconds()
}

// Pace normalizes average possessions to a 48-minute game.
func Pace(avgPoss, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return avgPoss * model.GameSeconds / seconds
}

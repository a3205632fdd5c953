package metrics

import (
	"math"
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

const (
	homeID = 1
	awayID = 2
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func totals(fgm, fga, tpm, fta, tov, oreb, dreb, pts int) model.TeamTotals {
	return model.TeamTotals{BoxCounts: model.BoxCounts{
		FieldGoalsMade:      fgm,
		FieldGoalsAttempted: fga,
		ThreePointersMade:   tpm,
		FreeThrowsAttempted: fta,
		Turnovers:           tov,
		ReboundsOffensive:   oreb,
		ReboundsTotal:       oreb + dreb,
		Points:              pts,
	}}
}

func TestEstimatePossessions(t *testing.T) {
	tt := totals(40, 85, 12, 20, 14, 10, 30, 110)
	if got := EstimatePossessions(tt); !approx(got, 85+8.8+14-10) {
		t.Errorf("possessions: want 97.8, got %v", got)
	}
}

func TestPossessionsOfficialOverride(t *testing.T) {
	home := totals(40, 85, 12, 20, 14, 10, 30, 110)
	away := totals(38, 90, 10, 15, 12, 8, 33, 100)
	official := &model.TeamStats{
		Home: &model.OfficialTeamStats{Possessions: 99},
		Away: &model.OfficialTeamStats{Possessions: 98},
	}
	h, a, ok := Possessions(model.SegmentAll, home, away, official)
	if !ok || h != 99 || a != 98 {
		t.Errorf("all segment: want official 99/98, got %v/%v (official=%v)", h, a, ok)
	}
	h, _, ok = Possessions(model.SegmentQ1, home, away, official)
	if ok || !approx(h, EstimatePossessions(home)) {
		t.Errorf("q1 segment: want estimate, got %v (official=%v)", h, ok)
	}
	official.Away.Possessions = 0
	if _, _, ok := Possessions(model.SegmentAll, home, away, official); ok {
		t.Error("zero official possessions should fall back to estimates")
	}
}

func TestOffensiveRating(t *testing.T) {
	if got := OffensiveRating(110, 100); got != 110 {
		t.Errorf("rating: want 110, got %d", got)
	}
	if got := OffensiveRating(3, 0.2); got != 300 {
		t.Errorf("rating with possessions below 1: want 300, got %d", got)
	}
	if got := OffensiveRating(0, 0); got != 0 {
		t.Errorf("empty rating: want 0, got %d", got)
	}
}

func TestTeamRatings(t *testing.T) {
	home := totals(40, 80, 10, 20, 10, 10, 30, 100) // 80+8.8+10-10 = 88.8
	away := totals(35, 80, 8, 10, 15, 5, 30, 90)    // 80+4.4+15-5 = 94.4
	h, a := TeamRatings(model.SegmentAll, home, away, nil)
	wantH := int(math.Round(100 / 88.8 * 100))
	wantA := int(math.Round(90 / 94.4 * 100))
	if h.Offensive != wantH || a.Offensive != wantA {
		t.Errorf("offensive ratings: want %d/%d, got %d/%d", wantH, wantA, h.Offensive, a.Offensive)
	}
	if h.Net != wantH-wantA || a.Net != wantA-wantH {
		t.Errorf("net ratings: want %d/%d, got %d/%d", wantH-wantA, wantA-wantH, h.Net, a.Net)
	}

	official := &model.TeamStats{
		Home: &model.OfficialTeamStats{OffensiveRating: 115.6, NetRating: 4.4},
		Away: &model.OfficialTeamStats{OffensiveRating: 111.2, NetRating: -4.4},
	}
	h, a = TeamRatings(model.SegmentAll, home, away, official)
	if !h.Official || h.Offensive != 116 || h.Net != 4 || a.Offensive != 111 || a.Net != -4 {
		t.Errorf("official ratings: got home %+v away %+v", h, a)
	}
	h, _ = TeamRatings(model.SegmentFirstHalf, home, away, official)
	if h.Official {
		t.Error("official ratings should only apply to the whole game")
	}
}

func TestFourFactors(t *testing.T) {
	team := totals(40, 80, 10, 20, 10, 10, 30, 100)
	opp := totals(35, 80, 8, 10, 15, 5, 30, 90)
	f := ComputeFourFactors(team, opp)
	if !approx(f.EFG, 45/80.0*100) {
		t.Errorf("eFG%%: want %v, got %v", 45/80.0*100, f.EFG)
	}
	if !approx(f.TOV, 10/(80+8.8+10)*100) {
		t.Errorf("TOV%%: got %v", f.TOV)
	}
	if !approx(f.ORB, 10/40.0*100) {
		t.Errorf("ORB%%: want 25, got %v", f.ORB)
	}
	if !approx(f.FTR, 25) {
		t.Errorf("FTR: want 25, got %v", f.FTR)
	}

	zero := ComputeFourFactors(model.TeamTotals{}, model.TeamTotals{})
	if zero != (FourFactors{}) {
		t.Errorf("empty totals: want zero factors, got %+v", zero)
	}
}

func TestSegmentSeconds(t *testing.T) {
	minutes := &model.MinutesData{Periods: []model.PeriodStints{
		{Period: 1, Stints: []model.Stint{{StartClock: "12:00", EndClock: "0:00"}}},
		{Period: 2, Stints: []model.Stint{{StartClock: "12:00", EndClock: "3:00"}}},
	}}
	live := &model.LiveClock{Period: 2, Clock: "PT05M00.00S"}

	cases := []struct {
		name    string
		seg     model.Segment
		minutes *model.MinutesData
		clock   *model.LiveClock
		live    bool
		want    float64
	}{
		{"stints final", model.SegmentFirstHalf, minutes, nil, false, 720 + 540},
		{"stints clamped live", model.SegmentFirstHalf, minutes, live, true, 720 + 420},
		{"stints not clamped when not live", model.SegmentAll, minutes, live, false, 1260},
		{"elapsed all from clock", model.SegmentAll, nil, live, true, 720 + 420},
		{"final overtime game", model.SegmentAll, nil, &model.LiveClock{Period: 5, Clock: "PT0S"}, false, 2880 + 300},
		{"default q3", model.SegmentQ3, nil, live, true, 720},
		{"default all", model.SegmentAll, nil, nil, false, 2880},
	}
	for _, c := range cases {
		if got := SegmentSeconds(c.seg, c.minutes, c.clock, c.live); !approx(got, c.want) {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestPace(t *testing.T) {
	if got := Pace(100, 2880); !approx(got, 100) {
		t.Errorf("full game pace: want 100, got %v", got)
	}
	if got := Pace(25, 720); !approx(got, 100) {
		t.Errorf("quarter pace: want 100, got %v", got)
	}
	if got := Pace(25, 0); got != 0 {
		t.Errorf("zero seconds: want 0, got %v", got)
	}
}

func TestShotProfile(t *testing.T) {
	tt := model.TeamTotals{BoxCounts: model.BoxCounts{
		FieldGoalsAttempted:    10,
		RimFieldGoalsAttempted: 4, RimFieldGoalsMade: 3,
		MidFieldGoalsAttempted: 2, MidFieldGoalsMade: 1,
		ThreePointersAttempted: 4, ThreePointersMade: 1,
	}}
	p := ComputeShotProfile(tt)
	if !approx(p.RimRate, 40) || !approx(p.MidRate, 20) || !approx(p.ThreeRate, 40) {
		t.Errorf("rates: got %+v", p)
	}
	if !approx(p.RimPct, 75) || !approx(p.MidPct, 50) || !approx(p.ThreePct, 25) {
		t.Errorf("percentages: got %+v", p)
	}
	if ComputeShotProfile(model.TeamTotals{}) != (ShotProfile{}) {
		t.Error("empty profile should be zero")
	}
}

func TestTransitionMerge(t *testing.T) {
	home := model.TeamTotals{TransitionPossessions: 10, TransitionPoints: 14, ThreePointOReb: 1}
	home.ReboundsOffensive = 4
	away := model.TeamTotals{TransitionPoints: 6}

	h, a := TeamTransition(model.SegmentQ1, home, away, 50, 50, nil)
	if !approx(h.Rate, 20) || h.Points != 14 || !approx(h.ThreePointORebPercent, 25) {
		t.Errorf("derived home transition: got %+v", h)
	}
	if a.Rate != 0 {
		t.Errorf("away transition rate without possessions: want 0, got %v", a.Rate)
	}

	pts := 18.0
	official := &model.TeamStats{
		Home: &model.OfficialTeamStats{TransitionStats: &model.OfficialTransition{TransitionPoints: &pts}},
		Away: &model.OfficialTeamStats{TransitionStats: &model.OfficialTransition{}},
	}
	h, _ = TeamTransition(model.SegmentAll, home, away, 50, 50, official)
	if h.Points != 18 || !approx(h.Rate, 20) || !h.Official {
		t.Errorf("merged home transition: want official points and derived rate, got %+v", h)
	}
	h, _ = TeamTransition(model.SegmentQ2, home, away, 50, 50, official)
	if h.Official {
		t.Error("official transition should only apply to the whole game")
	}
}

func TestDisruptions(t *testing.T) {
	tt := model.TeamTotals{OffensiveFoulsDrawn: 2}
	tt.Steals = 7
	tt.Blocks = 4
	official := &model.OfficialTeamStats{AdvancedStats: &model.OfficialAdvanced{Deflections: 15}}

	if got := Disruptions(tt, Deflections(model.SegmentAll, official)); got != 28 {
		t.Errorf("all disruptions: want 28, got %v", got)
	}
	if got := Disruptions(tt, Deflections(model.SegmentQ3, official)); got != 13 {
		t.Errorf("q3 disruptions: want 13, got %v", got)
	}
	if got := Deflections(model.SegmentAll, nil); got != 0 {
		t.Errorf("missing deflections: want 0, got %v", got)
	}
}

func TestTeamFoulsInPeriod(t *testing.T) {
	actions := []model.Action{
		{Period: 2, ActionType: model.ActionFoul, TeamID: homeID},
		{Period: 2, ActionType: model.ActionFoul, TeamID: homeID, SubType: "technical"},
		{Period: 2, ActionType: model.ActionFoul, TeamID: awayID},
		{Period: 1, ActionType: model.ActionFoul, TeamID: homeID},
		{Period: 2, ActionType: model.ActionTurnover, TeamID: homeID},
	}
	if got := TeamFoulsInPeriod(actions, 2, homeID); got != 2 {
		t.Errorf("home fouls in q2: want 2, got %d", got)
	}
}

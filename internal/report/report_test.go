package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
)

const (
	homeTeam = 1610612752
	awayTeam = 1610612744
)

func shot(n int, kind, result string, team int) model.Action {
	return model.Action{ActionNumber: n, OrderNumber: n, Period: 1, Clock: "PT10M00.00S",
		ActionType: kind, ShotResult: result, TeamID: team, PersonID: team + 1, Possession: team}
}

// TestRunningScore: scores accumulate from made shots until the feed supplies
// its own score, which then wins.
func TestRunningScore(t *testing.T) {
	actions := []model.Action{
		shot(3, model.ActionThreePoint, model.ShotMade, awayTeam),
		shot(1, model.ActionTwoPoint, model.ShotMade, homeTeam),
		shot(2, model.ActionTwoPoint, model.ShotMissed, awayTeam),
		shot(4, model.ActionFreeThrow, model.ShotMade, homeTeam),
	}
	actions[3].ScoreHome, actions[3].ScoreAway = "10", "3"

	lines := RunningScore(actions, homeTeam)
	if len(lines) != 4 {
		t.Fatalf("lines: want 4, got %d", len(lines))
	}
	if lines[0].Action.ActionNumber != 1 || lines[0].HomeScore != 2 || !lines[0].Scored {
		t.Errorf("first line: got %+v", lines[0])
	}
	if lines[1].Scored {
		t.Error("miss should not mark a score change")
	}
	if lines[2].AwayScore != 3 {
		t.Errorf("away after three: want 3, got %d", lines[2].AwayScore)
	}
	if lines[3].HomeScore != 10 || lines[3].AwayScore != 3 {
		t.Errorf("feed score: want 10-3, got %d-%d", lines[3].HomeScore, lines[3].AwayScore)
	}
}

func TestShortName(t *testing.T) {
	cases := []struct {
		name string
		id   int
		want string
	}{
		{"Jalen Brunson", 1, "Brunson"},
		{"Nene", 2, "Nene"},
		{"", 3, "3"},
	}
	for _, c := range cases {
		if got := shortName(c.name, c.id); got != c.want {
			t.Errorf("shortName(%q): want %s, got %s", c.name, c.want, got)
		}
	}
}

func sampleReport() *analysis.Report {
	r := &analysis.Report{
		GameID:  "0022400001",
		Segment: model.SegmentQ1,
		Lineup:  "auto",
		Status:  "Q2",
		Live:    true,
		Started: true,
		Seconds: 720,
		Pace:    98.4,
	}
	r.Home.Team = model.Team{TeamID: homeTeam, TeamTricode: "NYK"}
	r.Away.Team = model.Team{TeamID: awayTeam, TeamTricode: "GSW"}
	r.Home.Totals.Points, r.Away.Totals.Points = 30, 25
	r.Home.InPenalty = true
	r.Home.Transition.Official = true
	r.HomePlayers = []model.PlayerStatLine{{PersonID: 201, FirstName: "Jalen", FamilyName: "Brunson",
		Seconds: 600, BoxCounts: model.BoxCounts{Points: 12}, PlusMinusPoints: 4}}
	return r
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReportTo(&buf, sampleReport())
	out := buf.String()
	for _, want := range []string{"GSW", "NYK", "Jalen Brunson", "10:00", "+4", "Pace 98.4", "* official figures", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q", want)
		}
	}
}

func TestPrintReportNotStarted(t *testing.T) {
	r := sampleReport()
	r.Started = false
	r.Segment = model.SegmentQ4
	var buf bytes.Buffer
	PrintReportTo(&buf, r)
	if !strings.Contains(buf.String(), "Segment q4 has not started.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintMinutes(t *testing.T) {
	m := &model.MinutesData{
		HomeTeam: model.Team{TeamID: homeTeam, TeamTricode: "NYK"},
		AwayTeam: model.Team{TeamID: awayTeam, TeamTricode: "GSW"},
		Periods: []model.PeriodStints{{Period: 1, Stints: []model.Stint{{
			StartClock:  "PT12M00.00S",
			EndClock:    "PT07M30.00S",
			PlayersHome: []model.PlayerRef{{PersonID: 201, NameI: "J. Brunson"}},
			PlayersAway: []model.PlayerRef{{PersonID: 301}},
			PlusMinus:   -3,
		}}}},
	}
	var buf bytes.Buffer
	PrintMinutes(&buf, m)
	out := buf.String()
	for _, want := range []string{"12:00", "7:30", "04:30", "J. Brunson", "301", "-3"} {
		if !strings.Contains(out, want) {
			t.Errorf("minutes output missing %q", want)
		}
	}

	buf.Reset()
	PrintMinutes(&buf, nil)
	if !strings.Contains(buf.String(), "No minutes data.") {
		t.Errorf("nil minutes: got %q", buf.String())
	}
}

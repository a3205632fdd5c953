package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"PT11M32.00S", 692},
		{"PT05M30S", 330},
		{"PT0S", 0},
		{"PT45.5S", 45.5},
		{"PT1H2M3S", 3723},
		{"12:00", 720},
		{"5:30", 330},
		{"", 0},
		{"garbage", 0},
		{"PTxyz", 0},
		{"1:2:3", 0},
	}
	for _, c := range cases {
		if got := ParseClock(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseClock(%q): want %v, got %v", c.in, c.want, got)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"PT11M32.00S": "11:32",
		"PT00M05.90S": "0:05",
		"PT0S":        "0:00",
		"7:12":        "7:12",
		"":            "",
	}
	for in, want := range cases {
		if got := NormalizeClock(in); got != want {
			t.Errorf("NormalizeClock(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[float64]string{
		0:      "00:00",
		59.6:   "01:00",
		754:    "12:34",
		-10:    "00:00",
		2880.2: "48:00",
	}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%v): want %q, got %q", in, want, got)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	cases := map[int]string{1: "Q1", 4: "Q4", 5: "OT", 6: "OT2", 7: "OT3"}
	for p, want := range cases {
		if got := PeriodLabel(p); got != want {
			t.Errorf("PeriodLabel(%d): want %q, got %q", p, want, got)
		}
	}
	if PeriodLength(4) != 720 || PeriodLength(5) != 300 {
		t.Errorf("PeriodLength: want 720/300, got %v/%v", PeriodLength(4), PeriodLength(5))
	}
}

func TestSegmentIncludes(t *testing.T) {
	cases := []struct {
		seg     Segment
		periods []int
	}{
		{SegmentQ1, []int{1}},
		{SegmentQ2, []int{2}},
		{SegmentQ3, []int{3}},
		{SegmentQ4, []int{4}},
		{SegmentQ1Q3, []int{1, 2, 3}},
		{SegmentFirstHalf, []int{1, 2}},
		{SegmentSecondHalf, []int{3, 4}},
		{SegmentAll, []int{1, 2, 3, 4, 5, 6}},
	}
	for _, c := range cases {
		want := map[int]bool{}
		for _, p := range c.periods {
			want[p] = true
		}
		for p := 1; p <= 6; p++ {
			if got := c.seg.Includes(p); got != want[p] {
				t.Errorf("%s.Includes(%d): want %v, got %v", c.seg, p, want[p], got)
			}
		}
	}
}

func TestParseSegmentFallsBackToAll(t *testing.T) {
	if got := ParseSegment("Q2"); got != SegmentQ2 {
		t.Errorf("ParseSegment(Q2): want q2, got %s", got)
	}
	for _, in := range []string{"", "q5", "overtime"} {
		seg := ParseSegment(in)
		if seg != SegmentAll {
			t.Errorf("ParseSegment(%q): want all, got %s", in, seg)
		}
		if !seg.Includes(9) {
			t.Errorf("ParseSegment(%q) should include overtime periods", in)
		}
	}
}

func TestActionZone(t *testing.T) {
	cases := []struct {
		a    Action
		want ShotZone
	}{
		{Action{ActionType: ActionThreePoint, ShotDistance: 2}, ZoneThree},
		{Action{ActionType: ActionTwoPoint, ShotDistance: 4.9}, ZoneRim},
		{Action{ActionType: ActionTwoPoint, ShotDistance: 5}, ZoneMid},
		{Action{ActionType: ActionTwoPoint}, ZoneRim},
		{Action{ActionType: ActionFreeThrow}, ZoneNone},
	}
	for i, c := range cases {
		if got := c.a.Zone(); got != c.want {
			t.Errorf("case %d: want %s, got %s", i, c.want, got)
		}
	}
}

func TestActionShotCreation(t *testing.T) {
	drive := Action{ActionType: ActionTwoPoint, ShotDistance: 3, Description: "J. Doe Driving Layup"}
	if !drive.IsDriving() {
		t.Error("expected driving layup to count as driving")
	}
	longDrive := drive
	longDrive.ShotDistance = 9
	if longDrive.IsDriving() {
		t.Error("driving shot beyond 7 ft should not count")
	}
	cut := Action{ActionType: ActionTwoPoint, Descriptor: "cutting"}
	if !cut.IsCutting() {
		t.Error("expected cutting descriptor to count")
	}
	cs := Action{ActionType: ActionThreePoint, Description: "Jump Shot"}
	if !cs.IsCatchAndShootThree() {
		t.Error("expected plain three to count as catch-and-shoot")
	}
	pull := Action{ActionType: ActionThreePoint, Descriptor: "pullup"}
	step := Action{ActionType: ActionThreePoint, Description: "Step-Back Jump Shot"}
	if pull.IsCatchAndShootThree() || step.IsCatchAndShootThree() {
		t.Error("pull-up and step-back threes are not catch-and-shoot")
	}
}

func TestActionFouls(t *testing.T) {
	tech := Action{ActionType: ActionFoul, SubType: "technical"}
	if !tech.IsTechnicalFoul() {
		t.Error("expected technical foul")
	}
	for _, st := range []string{"offensive", "Charge"} {
		a := Action{ActionType: ActionFoul, SubType: st}
		if !a.IsOffensiveFoul() {
			t.Errorf("subType %q: expected offensive foul", st)
		}
	}
}

func TestBoxCountsAddSub(t *testing.T) {
	a := BoxCounts{Points: 10, ReboundsTotal: 4, FieldGoalsMade: 4, FieldGoalsAttempted: 9}
	b := BoxCounts{Points: 3, ReboundsTotal: 1, FieldGoalsMade: 1, FieldGoalsAttempted: 2}
	if got := a.Sub(b).Add(b); got != a {
		t.Errorf("Sub then Add: want %+v, got %+v", a, got)
	}
	if !a.Sub(a).IsZero() {
		t.Error("a - a should be zero")
	}
	if got := a.FGPercent(); math.Abs(got-44.444444) > 1e-4 {
		t.Errorf("FGPercent: want 44.44, got %v", got)
	}
	var empty BoxCounts
	if empty.ThreePercent() != 0 {
		t.Error("ThreePercent with zero attempts should be 0")
	}
}

func TestBoxPlayerDecodesFlatCounts(t *testing.T) {
	raw := `{"personId":7,"firstName":"A","familyName":"B","points":12,"reboundsTotal":5,"minutes":"PT24M10.00S","plusMinusPoints":-3}`
	var p BoxPlayer
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Points != 12 || p.ReboundsTotal != 5 {
		t.Errorf("counts: want 12/5, got %d/%d", p.Points, p.ReboundsTotal)
	}
	if p.PlusMinusPoints == nil || *p.PlusMinusPoints != -3 {
		t.Errorf("plusMinusPoints: want -3, got %v", p.PlusMinusPoints)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		s    GameSummary
		want string
	}{
		{GameSummary{GameStatus: StatusFinal, Period: 4}, "F"},
		{GameSummary{GameStatus: StatusFinal, Period: 5}, "F/OT"},
		{GameSummary{GameStatus: StatusFinal, Period: 6}, "F/OT2"},
		{GameSummary{GameStatus: StatusLive, Period: 2, GameStatusText: "Halftime"}, "HT"},
		{GameSummary{GameStatus: StatusLive, Period: 3, GameStatusText: "End of Q3"}, "End Q3"},
		{GameSummary{GameStatus: StatusLive, Period: 2, GameClock: "PT0S"}, "HT"},
		{GameSummary{GameStatus: StatusLive, Period: 1, GameClock: "PT00M00.00S"}, "End Q1"},
		{GameSummary{GameStatus: StatusLive, Period: 2, GameClock: "PT05M00.00S"}, "Q2"},
		{GameSummary{GameStatus: StatusLive, Period: 5, GameClock: "PT03M00.00S"}, "OT"},
		{GameSummary{GameStatus: StatusScheduled}, ""},
	}
	for i, c := range cases {
		if got := StatusLabel(c.s); got != c.want {
			t.Errorf("case %d: want %q, got %q", i, c.want, got)
		}
	}
}

func TestMinutesDataStartingStint(t *testing.T) {
	m := &MinutesData{Periods: []PeriodStints{{
		Period: 1,
		Stints: []Stint{
			{StartClock: "6:00", EndClock: "0:00"},
			{StartClock: "12:00", EndClock: "6:00", PlusMinus: 4},
		},
	}}}
	s, ok := m.StartingStint(1)
	if !ok || s.PlusMinus != 4 {
		t.Errorf("StartingStint: want the 12:00 stint, got %+v (ok=%v)", s, ok)
	}
	if _, ok := m.StartingStint(2); ok {
		t.Error("StartingStint(2): want none")
	}
	if got := m.SegmentSeconds(SegmentQ1); got != 720 {
		t.Errorf("SegmentSeconds(q1): want 720, got %v", got)
	}
	var nilData *MinutesData
	if nilData.SegmentSeconds(SegmentAll) != 0 || nilData.PeriodData(1) != nil {
		t.Error("nil MinutesData should yield zero values")
	}
}

func TestBuildSnapshot(t *testing.T) {
	if BuildSnapshot(BoxScore{}) != nil {
		t.Error("expected nil snapshot for empty box score")
	}
	box := BoxScore{
		Home: &TeamBox{TeamID: 1, Totals: &BoxCounts{Points: 50}, Players: []BoxPlayer{{PersonID: 10, BoxCounts: BoxCounts{Points: 20}}}},
		Away: &TeamBox{TeamID: 2, Players: []BoxPlayer{{PersonID: 20, BoxCounts: BoxCounts{Points: 8}}}},
	}
	s := BuildSnapshot(box)
	if s.Teams[1].Points != 50 || s.Players[10].Points != 20 || s.Players[20].Points != 8 {
		t.Errorf("unexpected snapshot: %+v", s)
	}
	if _, ok := s.Teams[2]; !ok {
		t.Error("away team without totals should still be keyed")
	}
	if PeriodEndKey(3) != "period-end-3" || TimeoutKey(42) != "timeout-42" {
		t.Error("unexpected snapshot keys")
	}
}

package metrics

import (
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

// possessionSeq builds alternating possessions. scored[i] says whether the
// i-th possession of first ends in a basket; the other team always scores.
func possessionSeq(first, second int, scored []bool) []model.Action {
	var out []model.Action
	n := 0
	add := func(a model.Action) {
		n++
		a.ActionNumber = n
		a.OrderNumber = n
		a.Period = 1
		out = append(out, a)
	}
	for _, s := range scored {
		if s {
			add(model.Action{ActionType: model.ActionTwoPoint, TeamID: first, Possession: first, ShotResult: model.ShotMade})
		} else {
			add(model.Action{ActionType: model.ActionTwoPoint, TeamID: first, Possession: first, ShotResult: model.ShotMissed})
		}
		add(model.Action{ActionType: model.ActionTwoPoint, TeamID: second, Possession: second, ShotResult: model.ShotMade})
	}
	return out
}

func TestKillsThreeStops(t *testing.T) {
	actions := possessionSeq(homeID, awayID, []bool{false, false, false})
	kc := Kills(actions, model.SegmentAll, homeID, awayID)
	if kc.Away != 1 {
		t.Errorf("away kills: want 1, got %d", kc.Away)
	}
	if kc.Home != 0 {
		t.Errorf("home kills: want 0, got %d", kc.Home)
	}
}

func TestKillsMultiplesOfThree(t *testing.T) {
	cases := []struct {
		stops int
		want  int
	}{
		{2, 0},
		{3, 1},
		{4, 1},
		{5, 1},
		{6, 2},
		{9, 3},
	}
	for _, c := range cases {
		scored := make([]bool, c.stops)
		kc := Kills(possessionSeq(homeID, awayID, scored), model.SegmentAll, homeID, awayID)
		if kc.Away != c.want {
			t.Errorf("%d stops: want %d kills, got %d", c.stops, c.want, kc.Away)
		}
	}
}

func TestKillsResetOnScore(t *testing.T) {
	// Two stops, a score, then two more stops: never three in a row.
	actions := possessionSeq(homeID, awayID, []bool{false, false, true, false, false})
	if kc := Kills(actions, model.SegmentAll, homeID, awayID); kc.Away != 0 {
		t.Errorf("away kills: want 0, got %d", kc.Away)
	}
}

func TestKillsFreeThrowScores(t *testing.T) {
	actions := possessionSeq(homeID, awayID, []bool{false, false})
	n := len(actions)
	actions = append(actions,
		model.Action{ActionNumber: n + 1, OrderNumber: n + 1, Period: 1, ActionType: model.ActionTwoPoint, TeamID: homeID, Possession: homeID, ShotResult: model.ShotMissed},
		model.Action{ActionNumber: n + 2, OrderNumber: n + 2, Period: 1, ActionType: model.ActionFreeThrow, TeamID: homeID, Possession: homeID, ShotResult: model.ShotMade},
	)
	if kc := Kills(actions, model.SegmentAll, homeID, awayID); kc.Away != 0 {
		t.Errorf("made free throw should score the possession, got %d away kills", kc.Away)
	}

	// A missed free throw does not.
	actions[len(actions)-1].ShotResult = model.ShotMissed
	if kc := Kills(actions, model.SegmentAll, homeID, awayID); kc.Away != 1 {
		t.Errorf("missed free throw: want 1 away kill, got %d", kc.Away)
	}
}

func TestKillsAnyMadeBasketScoresPossession(t *testing.T) {
	// A made field goal ends the stop streak whatever team it is tagged with.
	actions := possessionSeq(homeID, awayID, []bool{false, false, false})
	actions[0].TeamID = awayID
	actions[0].ShotResult = model.ShotMade
	if kc := Kills(actions, model.SegmentAll, homeID, awayID); kc.Away != 0 {
		t.Errorf("away kills: want 0, got %d", kc.Away)
	}
}

func TestKillsIgnoresDefenseFreeThrows(t *testing.T) {
	// Free throws only score the possession for the team holding the ball.
	actions := possessionSeq(homeID, awayID, []bool{false, false, false})
	// Sorts right after the first home miss, before possession changes.
	actions = append(actions, model.Action{ActionNumber: 100, OrderNumber: 1, Period: 1,
		ActionType: model.ActionFreeThrow, TeamID: awayID, ShotResult: model.ShotMade})
	if kc := Kills(actions, model.SegmentAll, homeID, awayID); kc.Away != 1 {
		t.Errorf("away kills: want 1, got %d", kc.Away)
	}
}

func TestKillsBySegmentAndOrder(t *testing.T) {
	actions := possessionSeq(awayID, homeID, []bool{false, false, false})
	for i := range actions {
		actions[i].Period = 3
	}
	// Reverse input order; replay must still sort.
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	if kc := Kills(actions, model.SegmentSecondHalf, homeID, awayID); kc.Home != 1 {
		t.Errorf("home kills in second half: want 1, got %d", kc.Home)
	}
	if kc := Kills(actions, model.SegmentFirstHalf, homeID, awayID); kc.Home != 0 {
		t.Errorf("home kills in first half: want 0, got %d", kc.Home)
	}
}

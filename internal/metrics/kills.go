package metrics

import "github.com/pable/go-nba-metrics/internal/model"

// KillStreak is the stop count that earns a kill.
const KillStreak = 3

// KillCount is the number of kills each side earned.
type KillCount struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Kills groups the segment's actions into possessions by contiguous
// possession value. A possession scores on any made field goal, or on a made
// free throw by the team holding the ball. Every third straight empty possession
// by one team credits a kill to its opponent; a score resets the streak.
// Actions before the first possession marker are ignored.
func Kills(actions []model.Action, seg model.Segment, homeTeamID, awayTeamID int) KillCount {
	ordered := model.FilterSorted(actions, seg.Includes)

	streak := map[int]int{homeTeamID: 0, awayTeamID: 0}
	var kc KillCount

	holder := 0
	scored := false
	finish := func() {
		if holder == 0 {
			return
		}
		if scored {
			streak[holder] = 0
			return
		}
		streak[holder]++
		if streak[holder]%KillStreak != 0 {
			return
		}
		switch holder {
		case homeTeamID:
			kc.Away++
		case awayTeamID:
			kc.Home++
		}
	}

	for i := range ordered {
		a := &ordered[i]
		if a.Possession != 0 && a.Possession != holder {
			finish()
			holder = a.Possession
			scored = false
		}
		if holder == 0 {
			continue
		}
		if a.IsMade() && (a.IsFieldGoal() || (a.ActionType == model.ActionFreeThrow && a.TeamID == holder)) {
			scored = true
		}
	}
	finish()
	return kc
}

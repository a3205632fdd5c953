package aggregator

import (
	"github.com/pable/go-nba-metrics/internal/model"
)

// Input is everything one aggregation call needs. Nothing in it is mutated.
type Input struct {
	Actions    []model.Action
	Segment    model.Segment
	Minutes    *model.MinutesData
	HomeTeamID int
	AwayTeamID int
	// BasePlayers supplies names, jersey numbers and team for lazily created lines.
	BasePlayers []model.BoxPlayer
	Lineup      LineupMode
	// Live is the in-progress clock, nil once the game is final.
	Live *model.LiveClock
}

// Result is the segment box score.
type Result struct {
	Players map[int]model.PlayerStatLine
	Teams   map[int]model.TeamTotals
}

// Aggregate replays the segment's actions and builds per-player and per-team
// counting stats, then attributes on-court seconds and plus-minus according
// to in.Lineup.
func Aggregate(in Input) Result {
	acc := newAccumulator(in)

	// ---- Pass 1: filter by segment and fix the replay order. ----

	ordered := model.FilterSorted(in.Actions, in.Segment.Includes)
	if !in.Segment.IsAll() && len(ordered) == 0 && in.Minutes.SegmentSeconds(in.Segment) == 0 {
		// Segment has not started yet.
		return Result{Players: map[int]model.PlayerStatLine{}, Teams: map[int]model.TeamTotals{}}
	}
	for i := range ordered {
		acc.byNumber[ordered[i].ActionNumber] = &ordered[i]
	}

	// ---- Pass 2: box score. ----

	for i := range ordered {
		acc.apply(&ordered[i])
	}

	// ---- Pass 3: minutes and plus-minus. ----

	attributeLineups(acc, in, ordered)

	return acc.result()
}

// teamPossession tracks the ball within a period so transition credits can be
// keyed to a single possession.
type teamPossession struct {
	period int
	holder int
	seq    int
}

func (tp *teamPossession) observe(a *model.Action) {
	if a.Period != tp.period {
		*tp = teamPossession{period: a.Period}
	}
	if a.Possession != 0 && a.Possession != tp.holder {
		tp.holder = a.Possession
		tp.seq++
	}
}

// possessionKey identifies one team possession inside a period. A negative
// seq is an action-number fallback used when the feed carries no possession.
type possessionKey struct {
	teamID int
	period int
	seq    int
}

// ownSeq is the sequence number of teamID's possession during which a happened.
func (tp *teamPossession) ownSeq(teamID int, a *model.Action) int {
	switch {
	case tp.holder == 0:
		return -a.ActionNumber
	case tp.holder == teamID:
		return tp.seq
	default:
		return tp.seq - 1
	}
}

// handedSeq is the sequence number of the opponent possession that follows
// teamID losing the ball at a.
func (tp *teamPossession) handedSeq(teamID int, a *model.Action) int {
	switch {
	case tp.holder == 0:
		return -a.ActionNumber
	case tp.holder == teamID:
		return tp.seq + 1
	default:
		return tp.seq
	}
}

type blockKey struct {
	personID int
	period   int
	clock    float64
}

// accumulator is the per-call mutable state. It never outlives Aggregate.
type accumulator struct {
	home, away int
	base       map[int]*model.BoxPlayer
	players    map[int]*model.PlayerStatLine
	teams      map[int]*model.TeamTotals
	byNumber   map[int]*model.Action

	lastMiss map[int]*model.Action // team -> last unresolved missed shot
	blocks   map[blockKey]bool
	// transTO is keyed by the team that lost the ball and the opponent
	// possession that followed.
	transTO    map[possessionKey]bool
	transPoss  map[possessionKey]bool
	possession teamPossession
}

func newAccumulator(in Input) *accumulator {
	acc := &accumulator{
		home:      in.HomeTeamID,
		away:      in.AwayTeamID,
		base:      make(map[int]*model.BoxPlayer, len(in.BasePlayers)),
		players:   make(map[int]*model.PlayerStatLine),
		teams:     make(map[int]*model.TeamTotals, 2),
		byNumber:  make(map[int]*model.Action),
		lastMiss:  make(map[int]*model.Action),
		blocks:    make(map[blockKey]bool),
		transTO:   make(map[possessionKey]bool),
		transPoss: make(map[possessionKey]bool),
	}
	for i := range in.BasePlayers {
		acc.base[in.BasePlayers[i].PersonID] = &in.BasePlayers[i]
	}
	for _, id := range []int{in.HomeTeamID, in.AwayTeamID} {
		if id != 0 {
			acc.teams[id] = &model.TeamTotals{TeamID: id}
		}
	}
	return acc
}

func (acc *accumulator) opponent(teamID int) int {
	switch teamID {
	case acc.home:
		return acc.away
	case acc.away:
		return acc.home
	}
	return 0
}

// team returns the totals for a home or away team, nil otherwise.
func (acc *accumulator) team(teamID int) *model.TeamTotals {
	if teamID == 0 {
		return nil
	}
	return acc.teams[teamID]
}

// player lazily creates the stat line, seeding identity from the base box score.
func (acc *accumulator) player(personID, teamID int) *model.PlayerStatLine {
	if p, ok := acc.players[personID]; ok {
		if p.TeamID == 0 {
			p.TeamID = teamID
		}
		return p
	}
	p := &model.PlayerStatLine{PersonID: personID, TeamID: teamID}
	if b, ok := acc.base[personID]; ok {
		p.FirstName = b.FirstName
		p.FamilyName = b.FamilyName
		p.JerseyNum = b.JerseyNum
		p.Position = b.Position
	}
	acc.players[personID] = p
	return p
}

func (acc *accumulator) apply(a *model.Action) {
	acc.possession.observe(a)
	switch a.ActionType {
	case model.ActionTwoPoint, model.ActionThreePoint:
		acc.shot(a)
	case model.ActionFreeThrow:
		acc.freeThrow(a)
	case model.ActionRebound:
		acc.rebound(a)
	case model.ActionSteal:
		if t := acc.team(a.TeamID); t != nil {
			t.Steals++
		}
		if a.PersonID != 0 {
			acc.player(a.PersonID, a.TeamID).Steals++
		}
	case model.ActionBlock:
		acc.creditBlock(a.PersonID, a.TeamID, a)
	case model.ActionTurnover:
		acc.turnover(a)
	case model.ActionFoul:
		acc.foul(a)
	}
}

func (acc *accumulator) shot(a *model.Action) {
	t := acc.team(a.TeamID)
	zone := a.Zone()
	made := a.IsMade()
	pts := a.Points()
	driving, cutting, catchShoot := a.IsDriving(), a.IsCutting(), a.IsCatchAndShootThree()

	if a.HasQualifier(model.QualFromTurnover) {
		// Charge the opponent one transition turnover per possession.
		if opp := acc.opponent(a.TeamID); opp != 0 {
			key := possessionKey{opp, a.Period, acc.possession.ownSeq(a.TeamID, a)}
			if !acc.transTO[key] {
				acc.transTO[key] = true
				acc.teams[opp].TransitionTurnovers++
			}
		}
	}

	if t != nil {
		countShot(&t.BoxCounts, zone, made, pts)
		if driving {
			t.DrivingFGAttempted++
		}
		if cutting {
			t.CuttingFGAttempted++
		}
		if catchShoot {
			t.CatchAndShoot3FGAttempted++
		}
		if made {
			if driving {
				t.DrivingFGMade++
			}
			if cutting {
				t.CuttingFGMade++
			}
			if catchShoot {
				t.CatchAndShoot3FGMade++
			}
			if a.HasQualifier(model.QualFastBreak) {
				t.TransitionPoints += pts
				acc.markTransitionPossession(t, possessionKey{a.TeamID, a.Period, acc.possession.ownSeq(a.TeamID, a)})
			}
			if a.HasQualifier(model.QualSecondChance) || a.HasQualifier(model.QualSecondChanceV2) {
				t.SecondChancePoints += pts
			}
			if a.HasQualifier(model.QualPaint) {
				t.PaintPoints += pts
			}
			if a.HasQualifier(model.QualFromTurnover) {
				t.PointsOffTurnovers += pts
			}
		}
	}
	if !made && a.TeamID != 0 {
		acc.lastMiss[a.TeamID] = a
	}

	if a.PersonID != 0 {
		p := acc.player(a.PersonID, a.TeamID)
		countShot(&p.BoxCounts, zone, made, pts)
	}

	if a.AssistPersonID != 0 {
		acc.player(a.AssistPersonID, a.TeamID).Assists++
		if t != nil {
			t.Assists++
		}
	}

	if a.BlockPersonID != 0 {
		acc.creditBlock(a.BlockPersonID, acc.opponent(a.TeamID), a)
	}
}

// countShot records one field goal attempt in its zone bucket.
func countShot(b *model.BoxCounts, zone model.ShotZone, made bool, pts int) {
	b.FieldGoalsAttempted++
	switch zone {
	case model.ZoneThree:
		b.ThreePointersAttempted++
	case model.ZoneRim:
		b.RimFieldGoalsAttempted++
	case model.ZoneMid:
		b.MidFieldGoalsAttempted++
	}
	if !made {
		return
	}
	b.Points += pts
	b.FieldGoalsMade++
	switch zone {
	case model.ZoneThree:
		b.ThreePointersMade++
	case model.ZoneRim:
		b.RimFieldGoalsMade++
	case model.ZoneMid:
		b.MidFieldGoalsMade++
	}
}

// creditBlock counts a physical block once, whether it arrives embedded in the
// shot, as a standalone action, or both.
func (acc *accumulator) creditBlock(personID, teamID int, a *model.Action) {
	if personID == 0 {
		return
	}
	key := blockKey{personID, a.Period, model.ParseClock(a.Clock)}
	if acc.blocks[key] {
		return
	}
	acc.blocks[key] = true
	acc.player(personID, teamID).Blocks++
	if t := acc.team(teamID); t != nil {
		t.Blocks++
	}
}

func (acc *accumulator) freeThrow(a *model.Action) {
	made := a.IsMade()
	if t := acc.team(a.TeamID); t != nil {
		t.FreeThrowsAttempted++
		if made {
			t.FreeThrowsMade++
			t.Points++
		}
	}
	if a.PersonID != 0 {
		p := acc.player(a.PersonID, a.TeamID)
		p.FreeThrowsAttempted++
		if made {
			p.FreeThrowsMade++
			p.Points++
		}
	}
}

func (acc *accumulator) rebound(a *model.Action) {
	offensive := a.SubType == "offensive"
	t := acc.team(a.TeamID)
	if t != nil {
		t.ReboundsTotal++
		if offensive {
			t.ReboundsOffensive++
		}
	}
	if a.PersonID != 0 {
		p := acc.player(a.PersonID, a.TeamID)
		p.ReboundsTotal++
		if offensive {
			p.ReboundsOffensive++
		}
	}

	if offensive {
		var shot *model.Action
		if a.ShotActionNumber != 0 {
			shot = acc.byNumber[a.ShotActionNumber]
		}
		if shot == nil {
			shot = acc.lastMiss[a.TeamID]
		}
		if shot != nil && shot.ActionType == model.ActionThreePoint && t != nil {
			t.ThreePointOReb++
		}
		delete(acc.lastMiss, a.TeamID)
		return
	}
	if opp := acc.opponent(a.TeamID); opp != 0 {
		delete(acc.lastMiss, opp)
	}
}

func (acc *accumulator) turnover(a *model.Action) {
	t := acc.team(a.TeamID)
	if t != nil {
		t.Turnovers++
		if a.HasQualifier(model.QualFromTurnover) || a.HasQualifier(model.QualFastBreak) {
			key := possessionKey{a.TeamID, a.Period, acc.possession.handedSeq(a.TeamID, a)}
			if !acc.transTO[key] {
				acc.transTO[key] = true
				t.TransitionTurnovers++
			}
			acc.markTransitionPossession(t, possessionKey{a.TeamID, a.Period, acc.possession.ownSeq(a.TeamID, a)})
		}
	}
	if a.PersonID != 0 {
		acc.player(a.PersonID, a.TeamID).Turnovers++
	}
}

func (acc *accumulator) markTransitionPossession(t *model.TeamTotals, key possessionKey) {
	if acc.transPoss[key] {
		return
	}
	acc.transPoss[key] = true
	t.TransitionPossessions++
}

func (acc *accumulator) foul(a *model.Action) {
	if !a.IsTechnicalFoul() {
		if t := acc.team(a.TeamID); t != nil {
			t.FoulsPersonal++
		}
		if a.PersonID != 0 {
			acc.player(a.PersonID, a.TeamID).FoulsPersonal++
		}
	}
	if a.IsOffensiveFoul() {
		if opp := acc.team(acc.opponent(a.TeamID)); opp != nil {
			opp.OffensiveFoulsDrawn++
		}
	}
}

func (acc *accumulator) result() Result {
	res := Result{
		Players: make(map[int]model.PlayerStatLine, len(acc.players)),
		Teams:   make(map[int]model.TeamTotals, len(acc.teams)),
	}
	for id, p := range acc.players {
		res.Players[id] = *p
	}
	for id, t := range acc.teams {
		res.Teams[id] = *t
	}
	return res
}

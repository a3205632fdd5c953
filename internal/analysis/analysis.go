// Package analysis assembles the full segment report for one game: the
// aggregated box score, snapshot corrections, derived team metrics and the
// lineup replay.
package analysis

import (
	"math"
	"sort"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/lineup"
	"github.com/pable/go-nba-metrics/internal/metrics"
	"github.com/pable/go-nba-metrics/internal/model"
)

// Options controls one report.
type Options struct {
	Segment model.Segment
	Lineup  aggregator.LineupMode
	// Snapshots are stored period-end and timeout captures. When set, segment
	// counting stats are corrected from the official box score difference.
	Snapshots []model.SnapshotEntry
}

// TeamReport is one side of the report.
type TeamReport struct {
	Team        model.Team          `json:"team"`
	Score       int                 `json:"score"`
	Totals      model.TeamTotals    `json:"totals"`
	Possessions float64             `json:"possessions"`
	Ratings     metrics.Ratings     `json:"ratings"`
	FourFactors metrics.FourFactors `json:"fourFactors"`
	Shots       metrics.ShotProfile `json:"shotProfile"`
	Transition  metrics.Transition  `json:"transition"`
	Disruptions float64             `json:"disruptions"`
	Kills       int                 `json:"kills"`

	// PeriodFouls counts the team's fouls in the current period.
	PeriodFouls int  `json:"periodFouls"`
	InPenalty   bool `json:"inPenalty"` // the opponent shoots bonus free throws
}

// Report is the segment report for one game.
type Report struct {
	GameID      string                 `json:"gameId"`
	Segment     model.Segment          `json:"segment"`
	Lineup      string                 `json:"lineupMode"`
	Status      string                 `json:"status"`
	Live        bool                   `json:"live"`
	Started     bool                   `json:"started"`
	Seconds     float64                `json:"seconds"`
	Pace        float64                `json:"pace"`
	Official    bool                   `json:"officialPossessions"`
	Home        TeamReport             `json:"home"`
	Away        TeamReport             `json:"away"`
	HomePlayers []model.PlayerStatLine `json:"homePlayers"`
	AwayPlayers []model.PlayerStatLine `json:"awayPlayers"`

	// SnapshotStart describes the capture the segment was measured from.
	SnapshotStart *model.SnapshotEntry `json:"snapshotStart,omitempty"`
	EndIsLive     bool                 `json:"endIsLive"`
}

// LiveClock returns the in-progress clock, or nil once the game is not live.
func LiveClock(g *model.Game) *model.LiveClock {
	if !g.IsLive() || g.Period < 1 {
		return nil
	}
	return &model.LiveClock{Period: g.Period, Clock: g.GameClock}
}

// GameClock returns the clock as last reported, live or not. It is used for
// whole-game elapsed time when stint data is missing.
func GameClock(g *model.Game) *model.LiveClock {
	if g.Period < 1 || g.GameClock == "" {
		return nil
	}
	return &model.LiveClock{Period: g.Period, Clock: g.GameClock}
}

// Build produces the segment report. minutes may be nil.
func Build(g *model.Game, minutes *model.MinutesData, opt Options) *Report {
	seg := opt.Segment
	if seg == "" {
		seg = model.SegmentAll
	}
	home, away := g.HomeTeam.TeamID, g.AwayTeam.TeamID
	live := LiveClock(g)

	// ---- Pass 1: segment box score. ----

	res := aggregator.Aggregate(aggregator.Input{
		Actions:     g.PlayByPlayActions,
		Segment:     seg,
		Minutes:     minutes,
		HomeTeamID:  home,
		AwayTeamID:  away,
		BasePlayers: g.BasePlayers(),
		Lineup:      opt.Lineup,
		Live:        live,
	})

	r := &Report{
		GameID:  g.GameID,
		Segment: seg,
		Lineup:  opt.Lineup.String(),
		Status:  model.StatusLabel(g.Summary()),
		Live:    g.IsLive(),
		Started: len(res.Teams) > 0,
	}

	homeT := teamOrEmpty(res.Teams, home)
	awayT := teamOrEmpty(res.Teams, away)
	players := res.Players

	// ---- Pass 2: snapshot correction. ----

	merged := false
	if len(opt.Snapshots) > 0 {
		current := model.BuildSnapshot(g.BoxScore)
		b := metrics.SnapshotBounds(seg, opt.Snapshots, current, g.Period)
		if b.Start != nil && b.End != nil {
			r.SnapshotStart = b.StartMeta
			r.EndIsLive = b.EndIsLive
			d := metrics.Diff(b.Start, b.End)
			liveSeg := !seg.IsAll() && b.EndIsLive
			r.Home.Totals = mergeTeam(homeT, d.Teams, liveSeg)
			r.Away.Totals = mergeTeam(awayT, d.Teams, liveSeg)
			players = mergePlayers(players, d.Players, g.BasePlayers())
			merged = true
		}
	}
	if !merged {
		r.Home.Totals, r.Away.Totals = homeT, awayT
	}
	r.Home.Score, r.Away.Score = r.Home.Totals.Points, r.Away.Totals.Points
	if seg.IsAll() {
		r.Home.Score, r.Away.Score = g.HomeTeam.Score, g.AwayTeam.Score
	}
	r.Home.Team, r.Away.Team = g.HomeTeam, g.AwayTeam

	// ---- Pass 3: derived metrics from the reported totals. ----

	homeT, awayT = r.Home.Totals, r.Away.Totals

	homePoss, awayPoss, official := metrics.Possessions(seg, homeT, awayT, g.TeamStats)
	homePoss, awayPoss = math.Max(homePoss, 1), math.Max(awayPoss, 1)
	r.Official = official
	r.Home.Possessions, r.Away.Possessions = homePoss, awayPoss
	r.Home.Ratings, r.Away.Ratings = metrics.TeamRatings(seg, homeT, awayT, g.TeamStats)
	r.Home.FourFactors = metrics.ComputeFourFactors(homeT, awayT)
	r.Away.FourFactors = metrics.ComputeFourFactors(awayT, homeT)
	r.Home.Shots = metrics.ComputeShotProfile(homeT)
	r.Away.Shots = metrics.ComputeShotProfile(awayT)
	r.Home.Transition, r.Away.Transition = metrics.TeamTransition(seg, homeT, awayT, homePoss, awayPoss, g.TeamStats)

	var homeOfficial, awayOfficial *model.OfficialTeamStats
	if g.TeamStats != nil {
		homeOfficial, awayOfficial = g.TeamStats.Home, g.TeamStats.Away
	}
	r.Home.Disruptions = metrics.Disruptions(homeT, metrics.Deflections(seg, homeOfficial))
	r.Away.Disruptions = metrics.Disruptions(awayT, metrics.Deflections(seg, awayOfficial))

	r.Seconds = metrics.SegmentSeconds(seg, minutes, clockFor(g), g.IsLive())
	r.Pace = metrics.Pace((homePoss+awayPoss)/2, r.Seconds)
	if r.Seconds > 0 {
		kc := metrics.Kills(g.PlayByPlayActions, seg, home, away)
		r.Home.Kills, r.Away.Kills = kc.Home, kc.Away
	}

	period := g.Period
	if period < 1 {
		period = 1
	}
	r.Home.PeriodFouls = metrics.TeamFoulsInPeriod(g.PlayByPlayActions, period, home)
	r.Away.PeriodFouls = metrics.TeamFoulsInPeriod(g.PlayByPlayActions, period, away)
	r.Home.InPenalty = r.Away.PeriodFouls >= metrics.BonusFouls
	r.Away.InPenalty = r.Home.PeriodFouls >= metrics.BonusFouls

	// ---- Pass 4: player rows in box score order. ----

	if g.BoxScore.Home != nil {
		r.HomePlayers = playerRows(g.BoxScore.Home.Players, home, players, seg)
	}
	if g.BoxScore.Away != nil {
		r.AwayPlayers = playerRows(g.BoxScore.Away.Players, away, players, seg)
	}
	return r
}

// clockFor picks the clock used for elapsed time: the live clock in play,
// otherwise the last reported clock of a finished game.
func clockFor(g *model.Game) *model.LiveClock {
	if c := LiveClock(g); c != nil {
		return c
	}
	if g.IsFinal() {
		return GameClock(g)
	}
	return nil
}

func teamOrEmpty(teams map[int]model.TeamTotals, id int) model.TeamTotals {
	if t, ok := teams[id]; ok {
		return t
	}
	return model.TeamTotals{TeamID: id}
}

// mergeTeam overlays snapshot counting stats on the replayed totals. While a
// segment is in progress the snapshot can trail the feed, so points take the
// larger of the two.
func mergeTeam(base model.TeamTotals, snaps map[int]model.BoxCounts, liveSegment bool) model.TeamTotals {
	snap, ok := snaps[base.TeamID]
	if !ok {
		return base
	}
	out := base
	out.BoxCounts = snap
	// Zone splits are not in the official box score.
	out.RimFieldGoalsMade, out.RimFieldGoalsAttempted = base.RimFieldGoalsMade, base.RimFieldGoalsAttempted
	out.MidFieldGoalsMade, out.MidFieldGoalsAttempted = base.MidFieldGoalsMade, base.MidFieldGoalsAttempted
	if liveSegment && base.Points > snap.Points {
		out.Points = base.Points
	}
	return out
}

// mergePlayers overlays snapshot counting stats on player lines, keeping the
// replayed seconds and plus-minus.
func mergePlayers(lines map[int]model.PlayerStatLine, snaps map[int]model.BoxCounts, base []model.BoxPlayer) map[int]model.PlayerStatLine {
	byID := make(map[int]model.BoxPlayer, len(base))
	for _, p := range base {
		byID[p.PersonID] = p
	}
	out := make(map[int]model.PlayerStatLine, len(lines)+len(snaps))
	for id, l := range lines {
		out[id] = l
	}
	for id, snap := range snaps {
		l, ok := out[id]
		if !ok {
			bp := byID[id]
			l = model.PlayerStatLine{
				PersonID:   id,
				FirstName:  bp.FirstName,
				FamilyName: bp.FamilyName,
				JerseyNum:  bp.JerseyNum,
				Position:   bp.Position,
			}
		}
		rim, rimA := l.RimFieldGoalsMade, l.RimFieldGoalsAttempted
		mid, midA := l.MidFieldGoalsMade, l.MidFieldGoalsAttempted
		l.BoxCounts = snap
		l.RimFieldGoalsMade, l.RimFieldGoalsAttempted = rim, rimA
		l.MidFieldGoalsMade, l.MidFieldGoalsAttempted = mid, midA
		out[id] = l
	}
	return out
}

// playerRows orders lines as the box score lists players and drops anyone
// who did not appear. On the whole game, official minutes and plus-minus
// replace the replayed values when present.
func playerRows(box []model.BoxPlayer, teamID int, lines map[int]model.PlayerStatLine, seg model.Segment) []model.PlayerStatLine {
	rows := make([]model.PlayerStatLine, 0, len(box))
	for _, bp := range box {
		l, ok := lines[bp.PersonID]
		if !ok {
			l = model.PlayerStatLine{PersonID: bp.PersonID}
		}
		l.TeamID = teamID
		l.FirstName, l.FamilyName = bp.FirstName, bp.FamilyName
		l.JerseyNum, l.Position = bp.JerseyNum, bp.Position
		if seg.IsAll() {
			if bp.Minutes != "" {
				l.Seconds = math.Round(model.ParseClock(bp.Minutes))
			}
			if bp.PlusMinusPoints != nil {
				l.PlusMinusPoints = *bp.PlusMinusPoints
			}
		}
		if l.Played() {
			rows = append(rows, l)
		}
	}
	return rows
}

// LineupReport is the replay view of a segment: per-player on/off splits and
// five-man units for both teams.
type LineupReport struct {
	GameID  string              `json:"gameId"`
	Segment model.Segment       `json:"segment"`
	Players []PlayerOnOff       `json:"players"`
	Home    []lineup.Unit       `json:"homeUnits"`
	Away    []lineup.Unit       `json:"awayUnits"`
	Teams   map[int]lineup.Line `json:"teams"`
}

// PlayerOnOff pairs a player's on-court line with the team's line while they sat.
type PlayerOnOff struct {
	PersonID int         `json:"personId"`
	TeamID   int         `json:"teamId"`
	Name     string      `json:"name"`
	On       lineup.Line `json:"on"`
	Off      lineup.Line `json:"off"`
}

// Lineups replays substitutions over the segment. minutes supplies each
// period's starting five; without it the report is empty.
func Lineups(g *model.Game, minutes *model.MinutesData, seg model.Segment) *LineupReport {
	res := lineup.Replay(g.PlayByPlayActions, minutes, lineup.Options{
		HomeTeamID: g.HomeTeam.TeamID,
		AwayTeamID: g.AwayTeam.TeamID,
		Segment:    seg,
		Live:       LiveClock(g),
	})

	names := make(map[int]string)
	for _, bp := range g.BasePlayers() {
		names[bp.PersonID] = (&model.PlayerStatLine{FirstName: bp.FirstName, FamilyName: bp.FamilyName}).Name()
	}

	lr := &LineupReport{
		GameID:  g.GameID,
		Segment: seg,
		Home:    lineup.TeamUnits(res.Units, g.HomeTeam.TeamID),
		Away:    lineup.TeamUnits(res.Units, g.AwayTeam.TeamID),
		Teams:   res.Teams,
	}
	for id, pl := range res.Players {
		lr.Players = append(lr.Players, PlayerOnOff{
			PersonID: id,
			TeamID:   pl.TeamID,
			Name:     names[id],
			On:       pl.Line,
			Off:      res.Off(id),
		})
	}
	sort.Slice(lr.Players, func(i, j int) bool {
		a, b := lr.Players[i], lr.Players[j]
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		if a.On.Seconds != b.On.Seconds {
			return a.On.Seconds > b.On.Seconds
		}
		return a.PersonID < b.PersonID
	})
	return lr
}

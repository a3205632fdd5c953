// Package lineup reconstructs who was on the floor from substitution events
// and attributes window scoring to players and five-man units.
package lineup

import (
	"github.com/pable/go-nba-metrics/internal/model"
)

// Options scopes a replay.
type Options struct {
	HomeTeamID int
	AwayTeamID int
	Segment    model.Segment
	// Live is the in-progress clock; nil for finished games.
	Live *model.LiveClock
	// Periods, when set, overrides Segment as the period filter.
	Periods func(period int) bool
}

func (o Options) includes(p int) bool {
	if o.Periods != nil {
		return o.Periods(p)
	}
	return o.Segment.Includes(p)
}

// Line accumulates on-court production for a player, a unit or a whole team.
type Line struct {
	Seconds            float64 `json:"seconds"`
	PointsFor          int     `json:"pointsFor"`
	PointsAgainst      int     `json:"pointsAgainst"`
	PossessionsFor     int     `json:"possessionsFor"`
	PossessionsAgainst int     `json:"possessionsAgainst"`
	PlusMinus          int     `json:"plusMinus"`
	Stints             int     `json:"stints"`
}

func (l *Line) add(w *window, home bool) {
	pf, pa, posF, posA := w.homePts, w.awayPts, w.homePoss, w.awayPoss
	if !home {
		pf, pa, posF, posA = pa, pf, posA, posF
	}
	l.Seconds += w.duration()
	l.PointsFor += pf
	l.PointsAgainst += pa
	l.PossessionsFor += posF
	l.PossessionsAgainst += posA
	l.PlusMinus += pf - pa
	l.Stints++
}

// Sub returns l minus o, used for off-court splits. Stints are not subtracted.
func (l Line) Sub(o Line) Line {
	return Line{
		Seconds:            l.Seconds - o.Seconds,
		PointsFor:          l.PointsFor - o.PointsFor,
		PointsAgainst:      l.PointsAgainst - o.PointsAgainst,
		PossessionsFor:     l.PossessionsFor - o.PossessionsFor,
		PossessionsAgainst: l.PossessionsAgainst - o.PossessionsAgainst,
		PlusMinus:          l.PlusMinus - o.PlusMinus,
	}
}

// OffensiveRating is points per 100 possessions (possessions floored at 1).
func (l *Line) OffensiveRating() float64 {
	return per100(l.PointsFor, l.PossessionsFor)
}

// DefensiveRating is points allowed per 100 opponent possessions.
func (l *Line) DefensiveRating() float64 {
	return per100(l.PointsAgainst, l.PossessionsAgainst)
}

// NetRating is offensive minus defensive rating.
func (l *Line) NetRating() float64 {
	return l.OffensiveRating() - l.DefensiveRating()
}

func per100(points, poss int) float64 {
	if poss < 1 {
		poss = 1
	}
	return float64(points) / float64(poss) * 100
}

// PlayerLine is one player's replayed on-court line.
type PlayerLine struct {
	PersonID int `json:"personId"`
	TeamID   int `json:"teamId"`
	Line
}

// Result is the output of a replay.
type Result struct {
	Players map[int]PlayerLine `json:"players"`
	// Teams holds each team's totals over every replayed window.
	Teams map[int]Line `json:"teams"`
	Units []Unit       `json:"units"`
	// Periods lists the periods that were replayed.
	Periods []int `json:"periods"`
}

// Off returns the team's production while the player sat.
func (r *Result) Off(personID int) Line {
	p, ok := r.Players[personID]
	if !ok {
		return Line{}
	}
	return r.Teams[p.TeamID].Sub(p.Line)
}

// window is the scoring interval between two lineup changes.
type window struct {
	start, end         float64
	homePts, awayPts   int
	homePoss, awayPoss int
}

func (w *window) duration() float64 {
	if d := w.start - w.end; d > 0 {
		return d
	}
	return 0
}

func (w *window) empty() bool {
	return w.duration() == 0 && w.homePts == 0 && w.awayPts == 0 && w.homePoss == 0 && w.awayPoss == 0
}

type replayer struct {
	opt     Options
	players map[int]*PlayerLine
	teams   map[int]*Line
	units   *unitBook
}

// Replay walks each included period from its starting five, applying
// substitutions and attributing window scoring and possessions. Periods with
// no starting lineup are skipped.
func Replay(actions []model.Action, minutes *model.MinutesData, opt Options) Result {
	r := &replayer{
		opt:     opt,
		players: make(map[int]*PlayerLine),
		teams:   make(map[int]*Line),
		units:   newUnitBook(),
	}
	ordered := model.FilterSorted(actions, opt.includes)
	byPeriod := make(map[int][]model.Action)
	for _, a := range ordered {
		byPeriod[a.Period] = append(byPeriod[a.Period], a)
	}

	var periods []int
	if minutes != nil {
		for _, ps := range minutes.Periods {
			if !opt.includes(ps.Period) {
				continue
			}
			start, ok := minutes.StartingStint(ps.Period)
			if !ok {
				continue
			}
			r.replayPeriod(ps.Period, start, byPeriod[ps.Period])
			periods = append(periods, ps.Period)
		}
	}

	res := Result{
		Players: make(map[int]PlayerLine, len(r.players)),
		Teams:   make(map[int]Line, len(r.teams)),
		Units:   r.units.sorted(),
		Periods: periods,
	}
	for id, p := range r.players {
		res.Players[id] = *p
	}
	for id, t := range r.teams {
		res.Teams[id] = *t
	}
	return res
}

func (r *replayer) replayPeriod(period int, start model.Stint, actions []model.Action) {
	home := newCourt(start.PlayersHome)
	away := newCourt(start.PlayersAway)
	w := &window{start: model.ParseClock(start.StartClock)}
	if w.start == 0 {
		w.start = model.PeriodLength(period)
	}
	stop := r.opt.Live.EndClock(period)
	lastPossession := 0

	applied := make(map[int]bool)
	for i := range actions {
		a := &actions[i]
		if a.ActionType == model.ActionSubstitution {
			if applied[i] {
				continue
			}
			// Every substitution at this clock is one block, even when free
			// throws or other events sit between them: close once, apply all.
			clock := a.ClockSeconds()
			r.close(w, clock, home, away)
			for j := i; j < len(actions) && actions[j].ClockSeconds() == clock; j++ {
				if actions[j].ActionType == model.ActionSubstitution {
					r.substitute(&actions[j], home, away)
					applied[j] = true
				}
			}
			continue
		}

		if pts := a.Points(); pts > 0 {
			switch a.TeamID {
			case r.opt.HomeTeamID:
				w.homePts += pts
			case r.opt.AwayTeamID:
				w.awayPts += pts
			}
		}
		if a.Possession != 0 && a.Possession != lastPossession {
			lastPossession = a.Possession
			switch a.Possession {
			case r.opt.HomeTeamID:
				w.homePoss++
			case r.opt.AwayTeamID:
				w.awayPoss++
			}
		}
	}
	r.close(w, stop, home, away)
}

// close attributes the open window to everyone on the floor and opens the next one at end.
func (r *replayer) close(w *window, end float64, home, away *court) {
	w.end = end
	if !w.empty() {
		r.credit(w, home, r.opt.HomeTeamID, true)
		r.credit(w, away, r.opt.AwayTeamID, false)
	}
	*w = window{start: end}
}

func (r *replayer) credit(w *window, c *court, teamID int, home bool) {
	for _, id := range c.ids() {
		p, ok := r.players[id]
		if !ok {
			p = &PlayerLine{PersonID: id, TeamID: teamID}
			r.players[id] = p
		}
		p.add(w, home)
	}
	t, ok := r.teams[teamID]
	if !ok {
		t = &Line{}
		r.teams[teamID] = t
	}
	t.add(w, home)
	r.units.add(teamID, c.ids(), w, home)
}

func (r *replayer) substitute(a *model.Action, home, away *court) {
	var c *court
	switch a.TeamID {
	case r.opt.HomeTeamID:
		c = home
	case r.opt.AwayTeamID:
		c = away
	default:
		return
	}
	switch a.SubType {
	case "out":
		c.remove(a.PersonID)
	case "in":
		c.insert(a.PersonID)
	}
}

package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/lineup"
	"github.com/pable/go-nba-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func tricode(t model.Team) string {
	if t.TeamTricode != "" {
		return t.TeamTricode
	}
	return strconv.Itoa(t.TeamID)
}

func shooting(made, att int) string {
	return fmt.Sprintf("%d-%d", made, att)
}

func pctOrDash(made, att int) string {
	if att == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(made)/float64(att)*100)
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// PrintGameHeader prints a one-line summary header for the report.
func PrintGameHeader(w io.Writer, r *analysis.Report) {
	status := r.Status
	if status == "" {
		status = "scheduled"
	}
	fmt.Fprintf(w, "\nGame: %s  |  %s %d - %d %s  |  Status: %s  |  Segment: %s  |  Lineups: %s\n",
		r.GameID, tricode(r.Away.Team), r.Away.Score, r.Home.Score, tricode(r.Home.Team),
		status, r.Segment, r.Lineup)
	if r.SnapshotStart != nil {
		end := "stored capture"
		if r.EndIsLive {
			end = "live box score"
		}
		fmt.Fprintf(w, "Counting stats from box score difference: %s %s %s -> %s\n",
			model.PeriodLabel(r.SnapshotStart.Period), r.SnapshotStart.Clock, r.SnapshotStart.Type, end)
	}
	fmt.Fprintln(w)
}

// PrintReport prints every section of a segment report to stdout.
func PrintReport(r *analysis.Report) {
	PrintReportTo(os.Stdout, r)
}

// PrintReportTo writes every section of a segment report to w.
func PrintReportTo(w io.Writer, r *analysis.Report) {
	PrintGameHeader(w, r)
	if !r.Started {
		fmt.Fprintf(w, "Segment %s has not started.\n", r.Segment)
		return
	}
	fmt.Fprintf(w, "%s\n", tricode(r.Away.Team))
	PrintBoxScore(w, r.AwayPlayers, r.Away.Totals)
	fmt.Fprintf(w, "\n%s\n", tricode(r.Home.Team))
	PrintBoxScore(w, r.HomePlayers, r.Home.Totals)
	fmt.Fprintln(w)
	PrintTeamTable(w, r)
	fmt.Fprintln(w)
	PrintShotProfile(w, r)
	fmt.Fprintln(w)
	PrintTransition(w, r)
	fmt.Fprintln(w)
	PrintDisruption(w, r)
}

// PrintBoxScore prints one team's player rows followed by a totals row.
func PrintBoxScore(w io.Writer, rows []model.PlayerStatLine, totals model.TeamTotals) {
	table := newTable(w)
	table.Header("PLAYER", "MIN", "PTS", "REB", "OREB", "AST", "STL", "BLK", "TOV", "PF",
		"FG", "3P", "FT", "RIM", "MID", "+/-")

	for i := range rows {
		p := &rows[i]
		table.Append(
			p.Name(),
			model.FormatMinutes(p.Seconds),
			strconv.Itoa(p.Points),
			strconv.Itoa(p.ReboundsTotal),
			strconv.Itoa(p.ReboundsOffensive),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Steals),
			strconv.Itoa(p.Blocks),
			strconv.Itoa(p.Turnovers),
			strconv.Itoa(p.FoulsPersonal),
			shooting(p.FieldGoalsMade, p.FieldGoalsAttempted),
			shooting(p.ThreePointersMade, p.ThreePointersAttempted),
			shooting(p.FreeThrowsMade, p.FreeThrowsAttempted),
			shooting(p.RimFieldGoalsMade, p.RimFieldGoalsAttempted),
			shooting(p.MidFieldGoalsMade, p.MidFieldGoalsAttempted),
			signed(p.PlusMinusPoints),
		)
	}
	t := &totals
	table.Append(
		"TOTAL", "",
		strconv.Itoa(t.Points),
		strconv.Itoa(t.ReboundsTotal),
		strconv.Itoa(t.ReboundsOffensive),
		strconv.Itoa(t.Assists),
		strconv.Itoa(t.Steals),
		strconv.Itoa(t.Blocks),
		strconv.Itoa(t.Turnovers),
		strconv.Itoa(t.FoulsPersonal),
		shooting(t.FieldGoalsMade, t.FieldGoalsAttempted),
		shooting(t.ThreePointersMade, t.ThreePointersAttempted),
		shooting(t.FreeThrowsMade, t.FreeThrowsAttempted),
		shooting(t.RimFieldGoalsMade, t.RimFieldGoalsAttempted),
		shooting(t.MidFieldGoalsMade, t.MidFieldGoalsAttempted),
		"",
	)
	table.Render()
}

// PrintTeamTable prints possessions, ratings and the four factors side by side.
// Columns: TEAM | PTS | POSS | ORTG | NET | EFG% | TOV% | ORB% | FTR
func PrintTeamTable(w io.Writer, r *analysis.Report) {
	table := newTable(w)
	table.Header("TEAM", "PTS", "POSS", "ORTG", "NET", "EFG%", "TOV%", "ORB%", "FTR")
	for _, t := range []*analysis.TeamReport{&r.Away, &r.Home} {
		table.Append(
			tricode(t.Team),
			strconv.Itoa(t.Totals.Points),
			fmt.Sprintf("%.1f", t.Possessions),
			strconv.Itoa(t.Ratings.Offensive),
			signed(t.Ratings.Net),
			fmt.Sprintf("%.1f", t.FourFactors.EFG),
			fmt.Sprintf("%.1f", t.FourFactors.TOV),
			fmt.Sprintf("%.1f", t.FourFactors.ORB),
			fmt.Sprintf("%.1f", t.FourFactors.FTR),
		)
	}
	table.Render()

	source := "estimated"
	if r.Official {
		source = "official"
	}
	fmt.Fprintf(w, "Pace %.1f over %s (%s possessions)\n", r.Pace, model.FormatMinutes(r.Seconds), source)
}

// PrintShotProfile prints zone rates, zone efficiency and shot creation splits.
// Columns: TEAM | RIM% | MID% | 3P% (attempt share) | RIM FG% | MID FG% | 3P FG% | DRIVE | CUT | C&S 3
func PrintShotProfile(w io.Writer, r *analysis.Report) {
	table := newTable(w)
	table.Header("TEAM", "RIM RATE", "MID RATE", "3P RATE", "RIM FG%", "MID FG%", "3P FG%", "DRIVE", "CUT", "C&S 3")
	for _, t := range []*analysis.TeamReport{&r.Away, &r.Home} {
		s, tt := t.Shots, &t.Totals
		table.Append(
			tricode(t.Team),
			fmt.Sprintf("%.0f%%", s.RimRate),
			fmt.Sprintf("%.0f%%", s.MidRate),
			fmt.Sprintf("%.0f%%", s.ThreeRate),
			pctOrDash(tt.RimFieldGoalsMade, tt.RimFieldGoalsAttempted),
			pctOrDash(tt.MidFieldGoalsMade, tt.MidFieldGoalsAttempted),
			pctOrDash(tt.ThreePointersMade, tt.ThreePointersAttempted),
			shooting(tt.DrivingFGMade, tt.DrivingFGAttempted),
			shooting(tt.CuttingFGMade, tt.CuttingFGAttempted),
			shooting(tt.CatchAndShoot3FGMade, tt.CatchAndShoot3FGAttempted),
		)
	}
	table.Render()
}

// PrintTransition prints the transition and hustle-points block. Official
// figures are marked with "*".
func PrintTransition(w io.Writer, r *analysis.Report) {
	table := newTable(w)
	table.Header(" ", "TEAM", "TRANS RATE", "TRANS PTS", "TRANS TOV", "2ND CH PTS", "PTS OFF TOV", "PAINT PTS", "3P OREB%")
	official := false
	for _, t := range []*analysis.TeamReport{&r.Away, &r.Home} {
		tr := t.Transition
		marker := " "
		if tr.Official {
			marker = "*"
			official = true
		}
		table.Append(
			marker,
			tricode(t.Team),
			fmt.Sprintf("%.1f%%", tr.Rate),
			fmt.Sprintf("%.0f", tr.Points),
			fmt.Sprintf("%.0f", tr.Turnovers),
			fmt.Sprintf("%.0f", tr.SecondChancePoints),
			fmt.Sprintf("%.0f", tr.PointsOffTurnovers),
			fmt.Sprintf("%.0f", tr.PaintPoints),
			fmt.Sprintf("%.0f%%", tr.ThreePointORebPercent),
		)
	}
	table.Render()
	if official {
		fmt.Fprintln(w, "* official figures")
	}
}

// PrintDisruption prints defensive disruptions, kills and the foul situation.
// Columns: TEAM | STL | BLK | OFF FOULS DRAWN | DISRUPTIONS | KILLS | FOULS (PERIOD) | BONUS
func PrintDisruption(w io.Writer, r *analysis.Report) {
	table := newTable(w)
	table.Header("TEAM", "STL", "BLK", "CHARGES", "DISRUPTIONS", "KILLS", "PERIOD FOULS", "BONUS")
	for _, t := range []*analysis.TeamReport{&r.Away, &r.Home} {
		bonus := ""
		if t.InPenalty {
			bonus = "yes"
		}
		table.Append(
			tricode(t.Team),
			strconv.Itoa(t.Totals.Steals),
			strconv.Itoa(t.Totals.Blocks),
			strconv.Itoa(t.Totals.OffensiveFoulsDrawn),
			fmt.Sprintf("%.0f", t.Disruptions),
			strconv.Itoa(t.Kills),
			strconv.Itoa(t.PeriodFouls),
			bonus,
		)
	}
	table.Render()
}

// PrintGames prints a schedule listing.
func PrintGames(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("GAME ID", "AWAY", "SCORE", "HOME", "STATUS", "TIP (UTC)")
	for _, g := range games {
		score := ""
		if g.GameStatus != model.StatusScheduled {
			score = fmt.Sprintf("%d - %d", g.AwayTeam.Score, g.HomeTeam.Score)
		}
		table.Append(
			g.GameID,
			tricode(g.AwayTeam),
			score,
			tricode(g.HomeTeam),
			model.StatusLabel(g),
			g.GameTimeUTC,
		)
	}
	table.Render()
}

// PrintLineups prints per-player on/off splits and the top units of each team.
func PrintLineups(w io.Writer, lr *analysis.LineupReport, g *model.Game, topUnits int) {
	if len(lr.Players) == 0 {
		fmt.Fprintln(w, "No lineup data (minutes unavailable or segment not started).")
		return
	}
	names := make(map[int]string, len(lr.Players))
	for _, p := range lr.Players {
		names[p.PersonID] = p.Name
	}

	fmt.Fprintf(w, "\nOn/off, %s\n", lr.Segment)
	table := newTable(w)
	table.Header("PLAYER", "TEAM", "MIN ON", "+/- ON", "NET ON", "MIN OFF", "+/- OFF", "NET OFF")
	teams := map[int]string{g.HomeTeam.TeamID: tricode(g.HomeTeam), g.AwayTeam.TeamID: tricode(g.AwayTeam)}
	for _, p := range lr.Players {
		table.Append(
			p.Name,
			teams[p.TeamID],
			model.FormatMinutes(p.On.Seconds),
			signed(p.On.PlusMinus),
			fmt.Sprintf("%.1f", p.On.NetRating()),
			model.FormatMinutes(p.Off.Seconds),
			signed(p.Off.PlusMinus),
			fmt.Sprintf("%.1f", p.Off.NetRating()),
		)
	}
	table.Render()

	for _, side := range []struct {
		team  model.Team
		units []lineup.Unit
	}{{g.AwayTeam, lr.Away}, {g.HomeTeam, lr.Home}} {
		fmt.Fprintf(w, "\n%s units\n", tricode(side.team))
		printUnits(w, side.units, names, topUnits)
	}
}

func printUnits(w io.Writer, units []lineup.Unit, names map[int]string, top int) {
	table := newTable(w)
	table.Header("UNIT", "MIN", "PTS", "OPP", "+/-", "ORTG", "DRTG", "NET")
	for i, u := range units {
		if top > 0 && i >= top {
			break
		}
		members := make([]string, len(u.PersonIDs))
		for j, id := range u.PersonIDs {
			members[j] = shortName(names[id], id)
		}
		table.Append(
			strings.Join(members, ", "),
			model.FormatMinutes(u.Seconds),
			strconv.Itoa(u.PointsFor),
			strconv.Itoa(u.PointsAgainst),
			signed(u.PlusMinus),
			fmt.Sprintf("%.1f", u.OffensiveRating()),
			fmt.Sprintf("%.1f", u.DefensiveRating()),
			fmt.Sprintf("%.1f", u.NetRating()),
		)
	}
	table.Render()
}

// shortName returns the family name, or the ID when the name is unknown.
func shortName(name string, id int) string {
	if name == "" {
		return strconv.Itoa(id)
	}
	if i := strings.LastIndex(name, " "); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PrintMinutes prints the stint grid: one row per stint with both lineups.
func PrintMinutes(w io.Writer, m *model.MinutesData) {
	if m == nil || len(m.Periods) == 0 {
		fmt.Fprintln(w, "No minutes data.")
		return
	}
	periods := append([]model.PeriodStints(nil), m.Periods...)
	sort.Slice(periods, func(i, j int) bool { return periods[i].Period < periods[j].Period })

	table := newTable(w)
	table.Header("PERIOD", "START", "END", "LEN", tricode(m.AwayTeam), tricode(m.HomeTeam), "HOME +/-")
	for _, ps := range periods {
		for i := range ps.Stints {
			s := &ps.Stints[i]
			table.Append(
				model.PeriodLabel(ps.Period),
				model.NormalizeClock(s.StartClock),
				model.NormalizeClock(s.EndClock),
				model.FormatMinutes(s.Duration()),
				refNames(s.PlayersAway),
				refNames(s.PlayersHome),
				signed(s.PlusMinus),
			)
		}
	}
	table.Render()
}

func refNames(refs []model.PlayerRef) string {
	out := make([]string, len(refs))
	for i, r := range refs {
		switch {
		case r.NameI != "":
			out[i] = r.NameI
		case r.FamilyName != "":
			out[i] = r.FamilyName
		default:
			out[i] = strconv.Itoa(r.PersonID)
		}
	}
	return strings.Join(out, ", ")
}

// ScoreLine is one play-by-play row with the score after it.
type ScoreLine struct {
	Action    *model.Action
	HomeScore int
	AwayScore int
	Scored    bool
}

// RunningScore walks actions in replay order and tracks the score after each
// one. The feed's own score fields win when present; otherwise made shots and
// free throws are summed.
func RunningScore(actions []model.Action, homeTeamID int) []ScoreLine {
	ordered := model.FilterSorted(actions, func(int) bool { return true })
	out := make([]ScoreLine, 0, len(ordered))
	home, away := 0, 0
	for i := range ordered {
		a := &ordered[i]
		prevHome, prevAway := home, away
		if pts := a.Points(); pts > 0 {
			if a.TeamID == homeTeamID {
				home += pts
			} else {
				away += pts
			}
		}
		if a.ScoreHome != "" && a.ScoreAway != "" {
			h, errH := strconv.Atoi(a.ScoreHome)
			v, errA := strconv.Atoi(a.ScoreAway)
			if errH == nil && errA == nil {
				home, away = h, v
			}
		}
		out = append(out, ScoreLine{
			Action:    a,
			HomeScore: home,
			AwayScore: away,
			Scored:    home != prevHome || away != prevAway,
		})
	}
	return out
}

// PrintPlayByPlay prints the play-by-play with a running score. period 0
// prints every period.
func PrintPlayByPlay(w io.Writer, g *model.Game, period int) {
	table := newTable(w)
	table.Header("PER", "CLOCK", "TEAM", "EVENT", tricode(g.AwayTeam), tricode(g.HomeTeam))
	teams := map[int]string{g.HomeTeam.TeamID: tricode(g.HomeTeam), g.AwayTeam.TeamID: tricode(g.AwayTeam)}
	for _, line := range RunningScore(g.PlayByPlayActions, g.HomeTeam.TeamID) {
		a := line.Action
		if period != 0 && a.Period != period {
			continue
		}
		desc := a.Description
		if desc == "" {
			desc = strings.TrimSpace(a.ActionType + " " + a.SubType)
		}
		away, home := strconv.Itoa(line.AwayScore), strconv.Itoa(line.HomeScore)
		if line.Scored {
			away, home = "*"+away, "*"+home
		}
		table.Append(
			model.PeriodLabel(a.Period),
			model.NormalizeClock(a.Clock),
			teams[a.TeamID],
			desc,
			away,
			home,
		)
	}
	table.Render()
}

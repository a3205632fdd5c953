package model

import (
	"fmt"
	"strings"
)

// GameStatus is the upstream lifecycle code of a game.
type GameStatus int

const (
	StatusScheduled GameStatus = 1
	StatusLive      GameStatus = 2
	StatusFinal     GameStatus = 3
)

// Team is a team header as it appears on game and minutes resources.
type Team struct {
	TeamID      int    `json:"teamId"`
	TeamName    string `json:"teamName,omitempty"`
	TeamCity    string `json:"teamCity,omitempty"`
	TeamTricode string `json:"teamTricode,omitempty"`
	Score       int    `json:"score"`
	Wins        int    `json:"wins,omitempty"`
	Losses      int    `json:"losses,omitempty"`
}

// BoxPlayer is one row of the official cumulative box score.
type BoxPlayer struct {
	PersonID   int    `json:"personId"`
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	JerseyNum  string `json:"jerseyNum,omitempty"`
	Position   string `json:"position,omitempty"`
	Starter    string `json:"starter,omitempty"`

	BoxCounts

	Minutes         string `json:"minutes,omitempty"` // ISO-8601 duration
	PlusMinusPoints *int   `json:"plusMinusPoints,omitempty"`
}

// TeamBox is one side of the official box score.
type TeamBox struct {
	TeamID  int         `json:"teamId"`
	Players []BoxPlayer `json:"players"`
	Totals  *BoxCounts  `json:"totals,omitempty"`
}

// BoxScore pairs the home and away box scores.
type BoxScore struct {
	Home *TeamBox `json:"home,omitempty"`
	Away *TeamBox `json:"away,omitempty"`
}

// OfficialTransition holds upstream transition figures. Nil fields were not supplied.
type OfficialTransition struct {
	TransitionRate        *float64 `json:"transitionRate,omitempty"`
	TransitionPoints      *float64 `json:"transitionPoints,omitempty"`
	TransitionTurnovers   *float64 `json:"transitionTurnovers,omitempty"`
	SecondChancePoints    *float64 `json:"secondChancePoints,omitempty"`
	PointsOffTurnovers    *float64 `json:"pointsOffTurnovers,omitempty"`
	PaintPoints           *float64 `json:"paintPoints,omitempty"`
	ThreePointORebPercent *float64 `json:"threePointORebPercent,omitempty"`
}

// OfficialAdvanced holds upstream tracking figures.
type OfficialAdvanced struct {
	Deflections float64 `json:"deflections"`
}

// OfficialTeamStats is the optional upstream advanced block for one team.
type OfficialTeamStats struct {
	Possessions     float64             `json:"possessions"`
	OffensiveRating float64             `json:"offensiveRating"`
	DefensiveRating float64             `json:"defensiveRating"`
	NetRating       float64             `json:"netRating"`
	TransitionStats *OfficialTransition `json:"transitionStats,omitempty"`
	AdvancedStats   *OfficialAdvanced   `json:"advancedStats,omitempty"`
}

// TeamStats pairs the official advanced blocks.
type TeamStats struct {
	Home *OfficialTeamStats `json:"home,omitempty"`
	Away *OfficialTeamStats `json:"away,omitempty"`
}

// Official is a game referee.
type Official struct {
	PersonID   int    `json:"personId"`
	Name       string `json:"name"`
	JerseyNum  string `json:"jerseyNum,omitempty"`
	Assignment string `json:"assignment,omitempty"`
}

// Game is the full game resource: header, box score, play-by-play and
// optional official team stats.
type Game struct {
	GameID            string     `json:"gameId"`
	GameStatus        GameStatus `json:"gameStatus"`
	GameStatusText    string     `json:"gameStatusText,omitempty"`
	Period            int        `json:"period"`
	GameClock         string     `json:"gameClock,omitempty"`
	GameTimeUTC       string     `json:"gameTimeUTC,omitempty"`
	HomeTeam          Team       `json:"homeTeam"`
	AwayTeam          Team       `json:"awayTeam"`
	BoxScore          BoxScore   `json:"boxScore"`
	PlayByPlayActions []Action   `json:"playByPlayActions"`
	Officials         []Official `json:"officials,omitempty"`
	TeamStats         *TeamStats `json:"teamStats,omitempty"`
}

// GameSummary is one entry of the games-by-date listing.
type GameSummary struct {
	GameID         string     `json:"gameId"`
	GameStatus     GameStatus `json:"gameStatus"`
	GameStatusText string     `json:"gameStatusText,omitempty"`
	Period         int        `json:"period"`
	GameClock      string     `json:"gameClock,omitempty"`
	GameTimeUTC    string     `json:"gameTimeUTC,omitempty"`
	HomeTeam       Team       `json:"homeTeam"`
	AwayTeam       Team       `json:"awayTeam"`
}

// Summary strips a game down to its header.
func (g *Game) Summary() GameSummary {
	return GameSummary{
		GameID:         g.GameID,
		GameStatus:     g.GameStatus,
		GameStatusText: g.GameStatusText,
		Period:         g.Period,
		GameClock:      g.GameClock,
		GameTimeUTC:    g.GameTimeUTC,
		HomeTeam:       g.HomeTeam,
		AwayTeam:       g.AwayTeam,
	}
}

// IsLive reports whether the game is in progress.
func (g *Game) IsLive() bool { return g.GameStatus == StatusLive }

// IsFinal reports whether the game has finished.
func (g *Game) IsFinal() bool {
	return g.GameStatus == StatusFinal || strings.Contains(strings.ToLower(g.GameStatusText), "final")
}

// BasePlayers returns every box score player, away side first.
func (g *Game) BasePlayers() []BoxPlayer {
	var out []BoxPlayer
	if g.BoxScore.Away != nil {
		out = append(out, g.BoxScore.Away.Players...)
	}
	if g.BoxScore.Home != nil {
		out = append(out, g.BoxScore.Home.Players...)
	}
	return out
}

// StatusLabel renders the short scoreboard status: "F", "F/OT2", "HT",
// "End Q3", "Q2", "OT". Scheduled games return "".
func StatusLabel(s GameSummary) string {
	text := strings.ToLower(s.GameStatusText)
	if s.GameStatus == StatusFinal || strings.Contains(text, "final") {
		if s.Period > RegulationPeriods {
			return "F/" + overtimeLabel(s.Period)
		}
		return "F"
	}
	if strings.Contains(text, "halftime") {
		return "HT"
	}
	if strings.Contains(text, "end of") || strings.Contains(text, "end q") {
		if s.Period > RegulationPeriods {
			return overtimeLabel(s.Period)
		}
		return fmt.Sprintf("End Q%d", s.Period)
	}
	if s.GameStatus != StatusLive {
		return ""
	}
	if s.GameClock != "" && ParseClock(s.GameClock) == 0 {
		switch {
		case s.Period == 2:
			return "HT"
		case s.Period > RegulationPeriods:
			return overtimeLabel(s.Period)
		default:
			return fmt.Sprintf("End Q%d", s.Period)
		}
	}
	return PeriodLabel(s.Period)
}

func overtimeLabel(p int) string {
	if ot := p - RegulationPeriods; ot > 1 {
		return fmt.Sprintf("OT%d", ot)
	}
	return "OT"
}

package model

// ---- Aggregated metrics ----

// BoxCounts holds the counting categories shared by players and teams. Field
// names follow the upstream box score so official totals decode straight into it.
type BoxCounts struct {
	Points                 int `json:"points"`
	ReboundsTotal          int `json:"reboundsTotal"`
	ReboundsOffensive      int `json:"reboundsOffensive"`
	Assists                int `json:"assists"`
	Steals                 int `json:"steals"`
	Blocks                 int `json:"blocks"`
	Turnovers              int `json:"turnovers"`
	FoulsPersonal          int `json:"foulsPersonal"`
	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`
	RimFieldGoalsMade      int `json:"rimFieldGoalsMade"`
	RimFieldGoalsAttempted int `json:"rimFieldGoalsAttempted"`
	MidFieldGoalsMade      int `json:"midFieldGoalsMade"`
	MidFieldGoalsAttempted int `json:"midFieldGoalsAttempted"`
}

// Sub returns b - o field by field.
func (b BoxCounts) Sub(o BoxCounts) BoxCounts {
	return b.combine(o, -1)
}

// Add returns b + o field by field.
func (b BoxCounts) Add(o BoxCounts) BoxCounts {
	return b.combine(o, 1)
}

func (b BoxCounts) combine(o BoxCounts, sign int) BoxCounts {
	return BoxCounts{
		Points:                 b.Points + sign*o.Points,
		ReboundsTotal:          b.ReboundsTotal + sign*o.ReboundsTotal,
		ReboundsOffensive:      b.ReboundsOffensive + sign*o.ReboundsOffensive,
		Assists:                b.Assists + sign*o.Assists,
		Steals:                 b.Steals + sign*o.Steals,
		Blocks:                 b.Blocks + sign*o.Blocks,
		Turnovers:              b.Turnovers + sign*o.Turnovers,
		FoulsPersonal:          b.FoulsPersonal + sign*o.FoulsPersonal,
		FieldGoalsMade:         b.FieldGoalsMade + sign*o.FieldGoalsMade,
		FieldGoalsAttempted:    b.FieldGoalsAttempted + sign*o.FieldGoalsAttempted,
		ThreePointersMade:      b.ThreePointersMade + sign*o.ThreePointersMade,
		ThreePointersAttempted: b.ThreePointersAttempted + sign*o.ThreePointersAttempted,
		FreeThrowsMade:         b.FreeThrowsMade + sign*o.FreeThrowsMade,
		FreeThrowsAttempted:    b.FreeThrowsAttempted + sign*o.FreeThrowsAttempted,
		RimFieldGoalsMade:      b.RimFieldGoalsMade + sign*o.RimFieldGoalsMade,
		RimFieldGoalsAttempted: b.RimFieldGoalsAttempted + sign*o.RimFieldGoalsAttempted,
		MidFieldGoalsMade:      b.MidFieldGoalsMade + sign*o.MidFieldGoalsMade,
		MidFieldGoalsAttempted: b.MidFieldGoalsAttempted + sign*o.MidFieldGoalsAttempted,
	}
}

// IsZero reports whether every category is zero.
func (b BoxCounts) IsZero() bool {
	return b == BoxCounts{}
}

// DefensiveRebounds is total minus offensive rebounds.
func (b *BoxCounts) DefensiveRebounds() int {
	return b.ReboundsTotal - b.ReboundsOffensive
}

// FGPercent is field goal percentage (0-100).
func (b *BoxCounts) FGPercent() float64 {
	return pct(b.FieldGoalsMade, b.FieldGoalsAttempted)
}

// ThreePercent is three-point percentage (0-100).
func (b *BoxCounts) ThreePercent() float64 {
	return pct(b.ThreePointersMade, b.ThreePointersAttempted)
}

// FTPercent is free throw percentage (0-100).
func (b *BoxCounts) FTPercent() float64 {
	return pct(b.FreeThrowsMade, b.FreeThrowsAttempted)
}

// RimPercent is FG% on rim attempts.
func (b *BoxCounts) RimPercent() float64 {
	return pct(b.RimFieldGoalsMade, b.RimFieldGoalsAttempted)
}

// MidPercent is FG% on mid-range attempts.
func (b *BoxCounts) MidPercent() float64 {
	return pct(b.MidFieldGoalsMade, b.MidFieldGoalsAttempted)
}

func pct(made, att int) float64 {
	if att == 0 {
		return 0
	}
	return float64(made) / float64(att) * 100
}

// PlayerStatLine is one player's segment box score.
type PlayerStatLine struct {
	PersonID   int    `json:"personId"`
	TeamID     int    `json:"teamId"`
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	JerseyNum  string `json:"jerseyNum"`
	Position   string `json:"position"`

	BoxCounts

	Seconds         float64 `json:"seconds"` // on-court time
	PlusMinusPoints int     `json:"plusMinusPoints"`
}

// Name returns "First Last", or the family name alone.
func (p *PlayerStatLine) Name() string {
	if p.FirstName == "" {
		return p.FamilyName
	}
	return p.FirstName + " " + p.FamilyName
}

// Played reports whether the player logged time or production in the segment.
func (p *PlayerStatLine) Played() bool {
	return FormatMinutes(p.Seconds) != "00:00" || p.Points > 0 || p.ReboundsTotal > 0
}

// TeamTotals is one team's segment totals.
type TeamTotals struct {
	TeamID int `json:"teamId"`

	BoxCounts

	TransitionPoints      int `json:"transitionPoints"`
	TransitionTurnovers   int `json:"transitionTurnovers"`
	TransitionPossessions int `json:"transitionPossessions"`
	SecondChancePoints    int `json:"secondChancePoints"`
	PaintPoints           int `json:"paintPoints"`
	PointsOffTurnovers    int `json:"pointsOffTurnovers"`
	OffensiveFoulsDrawn   int `json:"offensiveFoulsDrawn"`
	ThreePointOReb        int `json:"threePointOReb"`

	// Shot creation
	DrivingFGMade             int `json:"drivingFGMade"`
	DrivingFGAttempted        int `json:"drivingFGAttempted"`
	CuttingFGMade             int `json:"cuttingFGMade"`
	CuttingFGAttempted        int `json:"cuttingFGAttempted"`
	CatchAndShoot3FGMade      int `json:"catchAndShoot3FGMade"`
	CatchAndShoot3FGAttempted int `json:"catchAndShoot3FGAttempted"`
}

// ThreePointORebPercent is the share of offensive rebounds that followed a missed three.
func (t *TeamTotals) ThreePointORebPercent() float64 {
	return pct(t.ThreePointOReb, t.ReboundsOffensive)
}

package model

import (
	"sort"
	"strings"
)

// Action types emitted by the play-by-play feed.
const (
	ActionTwoPoint     = "2pt"
	ActionThreePoint   = "3pt"
	ActionFreeThrow    = "freethrow"
	ActionRebound      = "rebound"
	ActionSteal        = "steal"
	ActionBlock        = "block"
	ActionTurnover     = "turnover"
	ActionFoul         = "foul"
	ActionSubstitution = "substitution"
	ActionTimeout      = "timeout"
	ActionPeriod       = "period"
)

// Shot results.
const (
	ShotMade   = "Made"
	ShotMissed = "Missed"
)

// Qualifier tags attached to actions.
const (
	QualFastBreak      = "fastbreak"
	QualSecondChance   = "2ndchance"
	QualSecondChanceV2 = "secondchance"
	QualFromTurnover   = "fromturnover"
	QualPaint          = "pointsinthepaint"
)

// RimDistanceFt is the inclusive shot distance (feet) under which a two is a rim attempt.
const RimDistanceFt = 4.9

// ---- Raw events from the play-by-play feed ----

// Action is one play-by-play event. IDs are zero when absent.
type Action struct {
	ActionNumber     int      `json:"actionNumber"`
	OrderNumber      int      `json:"orderNumber"`
	Period           int      `json:"period"`
	Clock            string   `json:"clock"` // ISO-8601 duration, e.g. "PT11M32.00S"
	TimeActual       string   `json:"timeActual,omitempty"`
	ActionType       string   `json:"actionType"`
	SubType          string   `json:"subType,omitempty"`
	TeamID           int      `json:"teamId,omitempty"`
	TeamTricode      string   `json:"teamTricode,omitempty"`
	PersonID         int      `json:"personId,omitempty"`
	PlayerNameI      string   `json:"playerNameI,omitempty"`
	AssistPersonID   int      `json:"assistPersonId,omitempty"`
	BlockPersonID    int      `json:"blockPersonId,omitempty"`
	ShotResult       string   `json:"shotResult,omitempty"`
	ShotDistance     float64  `json:"shotDistance,omitempty"`
	Description      string   `json:"description,omitempty"`
	Descriptor       string   `json:"descriptor,omitempty"`
	Qualifiers       []string `json:"qualifiers,omitempty"`
	Possession       int      `json:"possession,omitempty"` // teamId owning the ball
	ShotActionNumber int      `json:"shotActionNumber,omitempty"`
	ScoreHome        string   `json:"scoreHome,omitempty"`
	ScoreAway        string   `json:"scoreAway,omitempty"`
}

// SortKey is the replay ordering key: orderNumber, falling back to actionNumber.
func (a *Action) SortKey() int {
	if a.OrderNumber != 0 {
		return a.OrderNumber
	}
	return a.ActionNumber
}

// SortActions orders actions in place by SortKey with actionNumber as the
// tiebreak, giving one replay order regardless of input order.
func SortActions(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		ki, kj := actions[i].SortKey(), actions[j].SortKey()
		if ki != kj {
			return ki < kj
		}
		return actions[i].ActionNumber < actions[j].ActionNumber
	})
}

// FilterSorted returns a sorted copy of the actions whose period passes keep.
func FilterSorted(actions []Action, keep func(period int) bool) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if keep(a.Period) {
			out = append(out, a)
		}
	}
	SortActions(out)
	return out
}

// HasQualifier reports whether the action carries tag q.
func (a *Action) HasQualifier(q string) bool {
	for _, v := range a.Qualifiers {
		if v == q {
			return true
		}
	}
	return false
}

// IsFieldGoal reports whether the action is a 2pt or 3pt attempt.
func (a *Action) IsFieldGoal() bool {
	return a.ActionType == ActionTwoPoint || a.ActionType == ActionThreePoint
}

// IsMade reports whether the shot went in.
func (a *Action) IsMade() bool {
	return a.ShotResult == ShotMade
}

// Points returns the points scored by this action (0 for misses and non-shots).
func (a *Action) Points() int {
	if !a.IsMade() {
		return 0
	}
	switch a.ActionType {
	case ActionThreePoint:
		return 3
	case ActionTwoPoint:
		return 2
	case ActionFreeThrow:
		return 1
	}
	return 0
}

// ShotZone is the location bucket of a field goal attempt.
type ShotZone int

const (
	ZoneNone ShotZone = iota
	ZoneRim
	ZoneMid
	ZoneThree
)

func (z ShotZone) String() string {
	switch z {
	case ZoneRim:
		return "rim"
	case ZoneMid:
		return "mid"
	case ZoneThree:
		return "three"
	default:
		return "-"
	}
}

// Zone classifies a field goal attempt. Non-shots return ZoneNone.
func (a *Action) Zone() ShotZone {
	switch {
	case a.ActionType == ActionThreePoint:
		return ZoneThree
	case a.ActionType != ActionTwoPoint:
		return ZoneNone
	case a.ShotDistance <= RimDistanceFt:
		return ZoneRim
	default:
		return ZoneMid
	}
}

// IsTechnicalFoul reports whether a foul's subtype marks it as a technical.
func (a *Action) IsTechnicalFoul() bool {
	return strings.Contains(strings.ToLower(a.SubType), "technical")
}

// IsOffensiveFoul reports whether a foul was committed by the offense.
func (a *Action) IsOffensiveFoul() bool {
	st := strings.ToLower(a.SubType)
	return st == "offensive" || st == "charge"
}

// ClockSeconds returns the remaining period time at this action in seconds.
func (a *Action) ClockSeconds() float64 {
	return ParseClock(a.Clock)
}

// ---- Shot creation splits ----

var drivingKeywords = []string{"driving layup", "driving dunk", "driving float", "driving hook"}

func (a *Action) shotText() string {
	return strings.ToLower(a.Description + " " + a.Descriptor)
}

// IsDriving reports a driving two within 7 ft.
func (a *Action) IsDriving() bool {
	if a.ActionType != ActionTwoPoint || a.ShotDistance > 7 {
		return false
	}
	text := a.shotText()
	for _, kw := range drivingKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsCutting reports a cutting finish.
func (a *Action) IsCutting() bool {
	return a.IsFieldGoal() && strings.Contains(a.shotText(), "cutting")
}

// IsCatchAndShootThree reports a three that is neither a pull-up nor a step-back.
func (a *Action) IsCatchAndShootThree() bool {
	if a.ActionType != ActionThreePoint {
		return false
	}
	text := strings.NewReplacer("-", "", " ", "").Replace(a.shotText())
	return !strings.Contains(text, "pullup") && !strings.Contains(text, "stepback")
}

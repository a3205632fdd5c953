package model

import (
	"fmt"
	"time"
)

// Snapshot is a cumulative box score captured at one point in time.
type Snapshot struct {
	Teams   map[int]BoxCounts `json:"teams"`
	Players map[int]BoxCounts `json:"players"`
}

// NewSnapshot returns an empty snapshot, the baseline for segments that start at tip-off.
func NewSnapshot() *Snapshot {
	return &Snapshot{Teams: map[int]BoxCounts{}, Players: map[int]BoxCounts{}}
}

// BuildSnapshot captures the official box score. It returns nil when either
// side is missing.
func BuildSnapshot(box BoxScore) *Snapshot {
	if box.Home == nil || box.Away == nil {
		return nil
	}
	s := NewSnapshot()
	for _, side := range []*TeamBox{box.Home, box.Away} {
		if side.Totals != nil {
			s.Teams[side.TeamID] = *side.Totals
		} else {
			s.Teams[side.TeamID] = BoxCounts{}
		}
		for _, p := range side.Players {
			s.Players[p.PersonID] = p.BoxCounts
		}
	}
	return s
}

// Snapshot kinds.
const (
	SnapshotPeriodEnd = "period-end"
	SnapshotTimeout   = "timeout"
)

// SnapshotEntry is a snapshot tagged with the action that triggered it.
type SnapshotEntry struct {
	Key          string    `json:"key"`
	Type         string    `json:"type"`
	Period       int       `json:"period"`
	Clock        string    `json:"clock"`
	ActionNumber int       `json:"actionNumber"`
	Snapshot     *Snapshot `json:"snapshot"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PeriodEndKey is the entry key of the snapshot taken when period p ended.
func PeriodEndKey(p int) string {
	return fmt.Sprintf("%s-%d", SnapshotPeriodEnd, p)
}

// TimeoutKey is the entry key of the snapshot taken at a timeout action.
func TimeoutKey(actionNumber int) string {
	return fmt.Sprintf("%s-%d", SnapshotTimeout, actionNumber)
}

// PeriodSnapshot is the persisted record: one team's cumulative totals at the
// end of a period. Unique on (GameID, Period, TeamID); last write wins.
type PeriodSnapshot struct {
	GameID     string    `json:"gameId"`
	Period     int       `json:"period"`
	TeamID     int       `json:"teamId"`
	Totals     BoxCounts `json:"totals"`
	CapturedAt time.Time `json:"capturedAt"`
}

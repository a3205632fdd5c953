// Package capture records box score snapshots at period ends and timeouts so
// segment stats can later be measured as official box score differences.
package capture

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pable/go-nba-metrics/internal/model"
)

// DefaultWindow is how recent a period-end action must be to be captured.
const DefaultWindow = 3 * time.Minute

// Store persists period-end team totals. Both the SQLite and the Postgres
// stores satisfy it.
type Store interface {
	UpsertPeriodSnapshot(ctx context.Context, s model.PeriodSnapshot) error
}

// EntryStore persists full snapshot entries for one game.
type EntryStore interface {
	SnapshotEntries(gameID string) ([]model.SnapshotEntry, error)
	UpsertSnapshotEntry(gameID string, e model.SnapshotEntry) error
}

// IsPeriodEnd reports whether a marks the end of a period.
func IsPeriodEnd(a *model.Action) bool {
	return a.ActionType == model.ActionPeriod && strings.EqualFold(a.SubType, "end")
}

// Recent reports whether a happened within window before now, by its
// wall-clock timestamp. Actions without a parseable timestamp are not recent.
func Recent(a *model.Action, now time.Time, window time.Duration) bool {
	if a.TimeActual == "" {
		return false
	}
	at, err := time.Parse(time.RFC3339Nano, a.TimeActual)
	if err != nil {
		return false
	}
	diff := now.Sub(at)
	return diff >= 0 && diff <= window
}

// NewEntries returns the snapshot entries that g's play-by-play calls for
// and existing does not already hold: one per period end and one per timeout,
// each carrying the current box score. Nil is returned when the box score is
// incomplete.
func NewEntries(g *model.Game, existing []model.SnapshotEntry, now time.Time) []model.SnapshotEntry {
	snap := model.BuildSnapshot(g.BoxScore)
	if snap == nil {
		return nil
	}
	have := make(map[string]bool, len(existing))
	for _, e := range existing {
		have[e.Key] = true
	}

	var out []model.SnapshotEntry
	add := func(a *model.Action, key, kind string) {
		if have[key] {
			return
		}
		have[key] = true
		out = append(out, model.SnapshotEntry{
			Key:          key,
			Type:         kind,
			Period:       a.Period,
			Clock:        model.NormalizeClock(a.Clock),
			ActionNumber: a.ActionNumber,
			Snapshot:     snap,
			UpdatedAt:    now,
		})
	}
	for i := range g.PlayByPlayActions {
		a := &g.PlayByPlayActions[i]
		switch {
		case IsPeriodEnd(a):
			add(a, model.PeriodEndKey(a.Period), model.SnapshotPeriodEnd)
		case a.ActionType == model.ActionTimeout:
			add(a, model.TimeoutKey(a.ActionNumber), model.SnapshotTimeout)
		}
	}
	return out
}

// RecordEntries stores the entries NewEntries finds for a live game and
// returns how many were added.
func RecordEntries(es EntryStore, g *model.Game, now time.Time) (int, error) {
	if !g.IsLive() {
		return 0, nil
	}
	existing, err := es.SnapshotEntries(g.GameID)
	if err != nil {
		return 0, fmt.Errorf("load snapshots %s: %w", g.GameID, err)
	}
	added := NewEntries(g, existing, now)
	for _, e := range added {
		if err := es.UpsertSnapshotEntry(g.GameID, e); err != nil {
			return 0, err
		}
	}
	return len(added), nil
}

// PeriodEnds returns the period-end snapshots to write for g: both teams'
// cumulative totals for every period end within window of now. Nothing is
// returned unless both sides carry totals.
func PeriodEnds(g *model.Game, now time.Time, window time.Duration) []model.PeriodSnapshot {
	home, away := g.BoxScore.Home, g.BoxScore.Away
	if home == nil || away == nil || home.Totals == nil || away.Totals == nil {
		return nil
	}
	var out []model.PeriodSnapshot
	for i := range g.PlayByPlayActions {
		a := &g.PlayByPlayActions[i]
		if !IsPeriodEnd(a) || !Recent(a, now, window) {
			continue
		}
		for _, side := range []*model.TeamBox{away, home} {
			out = append(out, model.PeriodSnapshot{
				GameID:     g.GameID,
				Period:     a.Period,
				TeamID:     side.TeamID,
				Totals:     *side.Totals,
				CapturedAt: now,
			})
		}
	}
	return out
}

// CapturePeriodEnds writes PeriodEnds(g) to store and returns the rows written.
func CapturePeriodEnds(ctx context.Context, store Store, g *model.Game, now time.Time, window time.Duration) (int, error) {
	rows := PeriodEnds(g, now, window)
	for _, ps := range rows {
		if err := store.UpsertPeriodSnapshot(ctx, ps); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// EntriesFromPeriodSnapshots turns stored period-end team totals into
// team-only snapshot entries.
func EntriesFromPeriodSnapshots(rows []model.PeriodSnapshot) []model.SnapshotEntry {
	byPeriod := make(map[int]*model.SnapshotEntry)
	for _, r := range rows {
		e, ok := byPeriod[r.Period]
		if !ok {
			e = &model.SnapshotEntry{
				Key:      model.PeriodEndKey(r.Period),
				Type:     model.SnapshotPeriodEnd,
				Period:   r.Period,
				Clock:    "0:00",
				Snapshot: model.NewSnapshot(),
			}
			byPeriod[r.Period] = e
		}
		e.Snapshot.Teams[r.TeamID] = r.Totals
		if r.CapturedAt.After(e.UpdatedAt) {
			e.UpdatedAt = r.CapturedAt
		}
	}
	out := make([]model.SnapshotEntry, 0, len(byPeriod))
	for _, e := range byPeriod {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// MergeEntries combines two entry lists; primary wins on key collisions.
func MergeEntries(primary, fallback []model.SnapshotEntry) []model.SnapshotEntry {
	have := make(map[string]bool, len(primary))
	out := make([]model.SnapshotEntry, 0, len(primary)+len(fallback))
	for _, e := range primary {
		have[e.Key] = true
		out = append(out, e)
	}
	for _, e := range fallback {
		if !have[e.Key] {
			out = append(out, e)
		}
	}
	return out
}

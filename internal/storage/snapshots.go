package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pable/go-nba-metrics/internal/model"
)

// UpsertSnapshotEntry stores a box score capture under (gameID, entry key).
// Re-capturing the same key replaces the earlier snapshot.
func (db *DB) UpsertSnapshotEntry(gameID string, e model.SnapshotEntry) error {
	if e.Snapshot == nil {
		return fmt.Errorf("snapshot entry %s: empty snapshot", e.Key)
	}
	body, err := json.Marshal(e.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", e.Key, err)
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	_, err = db.conn.Exec(`
		INSERT INTO snapshot_entries(game_id, entry_key, entry_type, period, clock, action_number, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id, entry_key) DO UPDATE SET
			entry_type = excluded.entry_type,
			period = excluded.period,
			clock = excluded.clock,
			action_number = excluded.action_number,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		gameID, e.Key, e.Type, e.Period, e.Clock, e.ActionNumber, compress(body), e.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s/%s: %w", gameID, e.Key, err)
	}
	return nil
}

// SnapshotEntries returns every capture stored for gameID, oldest action first.
func (db *DB) SnapshotEntries(gameID string) ([]model.SnapshotEntry, error) {
	rows, err := db.conn.Query(`
		SELECT entry_key, entry_type, period, clock, action_number, snapshot, updated_at
		FROM snapshot_entries WHERE game_id = ?
		ORDER BY period, action_number`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SnapshotEntry
	for rows.Next() {
		var e model.SnapshotEntry
		var blob []byte
		var updated string
		if err := rows.Scan(&e.Key, &e.Type, &e.Period, &e.Clock, &e.ActionNumber, &blob, &updated); err != nil {
			return nil, err
		}
		raw, err := decompress(blob)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", e.Key, err)
		}
		e.Snapshot = model.NewSnapshot()
		if err := json.Unmarshal(raw, e.Snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", e.Key, err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertPeriodSnapshot records one team's cumulative totals at the end of a
// period. The last write for (game, period, team) wins.
func (db *DB) UpsertPeriodSnapshot(ctx context.Context, s model.PeriodSnapshot) error {
	totals, err := json.Marshal(s.Totals)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	if s.CapturedAt.IsZero() {
		s.CapturedAt = time.Now().UTC()
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO period_snapshots(game_id, period, team_id, totals, captured_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id, period, team_id) DO UPDATE SET
			totals = excluded.totals,
			captured_at = excluded.captured_at`,
		s.GameID, s.Period, s.TeamID, string(totals), s.CapturedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert period snapshot %s/%d/%d: %w", s.GameID, s.Period, s.TeamID, err)
	}
	return nil
}

// PeriodSnapshots returns the stored period-end totals for gameID.
func (db *DB) PeriodSnapshots(ctx context.Context, gameID string) ([]model.PeriodSnapshot, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT period, team_id, totals, captured_at
		FROM period_snapshots WHERE game_id = ?
		ORDER BY period, team_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PeriodSnapshot
	for rows.Next() {
		s := model.PeriodSnapshot{GameID: gameID}
		var totals, captured string
		if err := rows.Scan(&s.Period, &s.TeamID, &totals, &captured); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(totals), &s.Totals); err != nil {
			return nil, fmt.Errorf("decode totals %s/%d/%d: %w", gameID, s.Period, s.TeamID, err)
		}
		s.CapturedAt, _ = time.Parse(time.RFC3339Nano, captured)
		out = append(out, s)
	}
	return out, rows.Err()
}

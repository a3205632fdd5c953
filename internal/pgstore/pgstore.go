// Package pgstore writes period-end snapshots to a hosted Postgres table so
// several capture workers and the dashboard can share them.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pable/go-nba-metrics/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS period_snapshots (
    game_id      TEXT NOT NULL,
    period       INTEGER NOT NULL,
    team_id      TEXT NOT NULL,
    totals       JSONB NOT NULL,
    captured_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (game_id, period, team_id)
)`

// Store is a Postgres-backed snapshot store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and makes sure the snapshot table exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres: empty database url")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// UpsertPeriodSnapshot records one team's totals at the end of a period.
// Team ids are stored as text to match the shared table.
func (s *Store) UpsertPeriodSnapshot(ctx context.Context, ps model.PeriodSnapshot) error {
	totals, err := json.Marshal(ps.Totals)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	if ps.CapturedAt.IsZero() {
		ps.CapturedAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO period_snapshots (game_id, period, team_id, totals, captured_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		ON CONFLICT (game_id, period, team_id) DO UPDATE SET
			totals = EXCLUDED.totals,
			captured_at = EXCLUDED.captured_at`,
		ps.GameID, ps.Period, strconv.Itoa(ps.TeamID), string(totals), ps.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert period snapshot %s/%d/%d: %w", ps.GameID, ps.Period, ps.TeamID, err)
	}
	return nil
}

// PeriodSnapshots returns every stored period-end total for gameID.
func (s *Store) PeriodSnapshots(ctx context.Context, gameID string) ([]model.PeriodSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT period, team_id, totals, captured_at
		FROM period_snapshots WHERE game_id = $1
		ORDER BY period, team_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query period snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.PeriodSnapshot
	for rows.Next() {
		ps := model.PeriodSnapshot{GameID: gameID}
		var teamID string
		var totals []byte
		if err := rows.Scan(&ps.Period, &teamID, &totals, &ps.CapturedAt); err != nil {
			return nil, err
		}
		if ps.TeamID, err = parseTeamID(teamID); err != nil {
			return nil, fmt.Errorf("period snapshot %s/%d: %w", gameID, ps.Period, err)
		}
		if err := json.Unmarshal(totals, &ps.Totals); err != nil {
			return nil, fmt.Errorf("decode totals %s/%d/%s: %w", gameID, ps.Period, teamID, err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// parseTeamID reads the TEXT team_id column.
func parseTeamID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("team_id %q: %w", s, err)
	}
	return id, nil
}

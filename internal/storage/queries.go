package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-nba-metrics/internal/model"
)

// Game sources.
const (
	SourceAPI  = "api"
	SourceFile = "file"
)

// GameRecord is the stored header of a game.
type GameRecord struct {
	GameID      string
	GameDate    string
	HomeTeamID  int
	AwayTeamID  int
	HomeTricode string
	AwayTricode string
	HomeScore   int
	AwayScore   int
	Status      model.GameStatus
	Period      int
	GameClock   string
	Source      string
	SourceHash  string
	HasMinutes  bool
	FetchedAt   time.Time
}

// NewGameRecord builds the header row for g.
func NewGameRecord(g *model.Game, source, hash string) GameRecord {
	date := g.GameTimeUTC
	if len(date) >= 10 {
		date = date[:10]
	}
	return GameRecord{
		GameID:      g.GameID,
		GameDate:    date,
		HomeTeamID:  g.HomeTeam.TeamID,
		AwayTeamID:  g.AwayTeam.TeamID,
		HomeTricode: g.HomeTeam.TeamTricode,
		AwayTricode: g.AwayTeam.TeamTricode,
		HomeScore:   g.HomeTeam.Score,
		AwayScore:   g.AwayTeam.Score,
		Status:      g.GameStatus,
		Period:      g.Period,
		GameClock:   g.GameClock,
		Source:      source,
		SourceHash:  hash,
		FetchedAt:   time.Now().UTC(),
	}
}

// GameExists returns true if a game with the given id is stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HashExists returns true if a game imported from a file with this hash is stored.
func (db *DB) HashExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE source_hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveGame upserts the game header and its compressed payloads. A nil
// minutesJSON keeps any stint payload stored earlier.
func (db *DB) SaveGame(rec GameRecord, gameJSON, minutesJSON []byte) error {
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO games(game_id, game_date, home_team_id, away_team_id, home_tricode, away_tricode,
			home_score, away_score, game_status, period, game_clock, source, source_hash,
			game_blob, minutes_blob, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			game_date = excluded.game_date,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			home_tricode = excluded.home_tricode,
			away_tricode = excluded.away_tricode,
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			game_status = excluded.game_status,
			period = excluded.period,
			game_clock = excluded.game_clock,
			source = excluded.source,
			source_hash = excluded.source_hash,
			game_blob = excluded.game_blob,
			minutes_blob = COALESCE(excluded.minutes_blob, games.minutes_blob),
			fetched_at = excluded.fetched_at`,
		rec.GameID, rec.GameDate, rec.HomeTeamID, rec.AwayTeamID, rec.HomeTricode, rec.AwayTricode,
		rec.HomeScore, rec.AwayScore, int(rec.Status), rec.Period, rec.GameClock, rec.Source, rec.SourceHash,
		compress(gameJSON), compress(minutesJSON), rec.FetchedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", rec.GameID, err)
	}
	return nil
}

const gameColumns = `game_id, game_date, home_team_id, away_team_id, home_tricode, away_tricode,
	home_score, away_score, game_status, period, game_clock, source, source_hash,
	minutes_blob IS NOT NULL, fetched_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (GameRecord, error) {
	var r GameRecord
	var status, hasMinutes int
	var fetched string
	err := s.Scan(&r.GameID, &r.GameDate, &r.HomeTeamID, &r.AwayTeamID, &r.HomeTricode, &r.AwayTricode,
		&r.HomeScore, &r.AwayScore, &status, &r.Period, &r.GameClock, &r.Source, &r.SourceHash,
		&hasMinutes, &fetched)
	if err != nil {
		return r, err
	}
	r.Status = model.GameStatus(status)
	r.HasMinutes = hasMinutes != 0
	r.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
	return r, nil
}

// ListGames returns all stored game headers ordered by date desc.
func (db *DB) ListGames() ([]GameRecord, error) {
	rows, err := db.conn.Query(`SELECT ` + gameColumns + ` FROM games ORDER BY game_date DESC, game_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		r, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetGameByPrefix finds the first game whose id starts with the given prefix.
// It returns nil when nothing matches.
func (db *DB) GetGameByPrefix(prefix string) (*GameRecord, error) {
	r, err := scanGame(db.conn.QueryRow(
		`SELECT `+gameColumns+` FROM games WHERE game_id LIKE ? ORDER BY game_id LIMIT 1`, prefix+"%"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadGame decodes the stored payloads for gameID. Minutes is nil when no
// stint data was stored. It returns ErrNotFound for unknown games.
func (db *DB) LoadGame(gameID string) (*model.Game, *model.MinutesData, error) {
	var gameBlob, minutesBlob []byte
	err := db.conn.QueryRow(`SELECT game_blob, minutes_blob FROM games WHERE game_id = ?`, gameID).
		Scan(&gameBlob, &minutesBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	raw, err := decompress(gameBlob)
	if err != nil {
		return nil, nil, fmt.Errorf("game %s payload: %w", gameID, err)
	}
	var g model.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}

	raw, err = decompress(minutesBlob)
	if err != nil {
		return nil, nil, fmt.Errorf("game %s minutes: %w", gameID, err)
	}
	if raw == nil {
		return &g, nil, nil
	}
	var m model.MinutesData
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("decode minutes %s: %w", gameID, err)
	}
	return &g, &m, nil
}

// DeleteGame removes a game and every snapshot captured for it.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM snapshot_entries WHERE game_id = ?",
		"DELETE FROM period_snapshots WHERE game_id = ?",
		"DELETE FROM games WHERE game_id = ?",
	} {
		if _, err := tx.Exec(q, gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	return tx.Commit()
}

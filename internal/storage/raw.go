package storage

import (
	"database/sql"
	"fmt"
)

// QueryRaw runs an arbitrary query and returns column names and rows rendered
// as strings. NULLs render as "NULL"; blobs render as their byte length.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = fmt.Sprintf("<%d bytes>", len(x))
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// Overview is a high-level summary of the store.
type Overview struct {
	Games           int
	FinalGames      int
	WithMinutes     int
	EarliestDate    string
	LatestDate      string
	Teams           int
	SnapshotEntries int
	PeriodSnapshots int
}

// GetOverview summarizes stored games and captures.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(SUM(game_status = 3), 0),
		       COALESCE(SUM(minutes_blob IS NOT NULL), 0),
		       MIN(NULLIF(game_date, '')), MAX(NULLIF(game_date, ''))
		FROM games`).Scan(&ov.Games, &ov.FinalGames, &ov.WithMinutes, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("overview games: %w", err)
	}
	ov.EarliestDate, ov.LatestDate = earliest.String, latest.String

	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT t) FROM (
			SELECT home_team_id AS t FROM games UNION SELECT away_team_id FROM games
		)`).Scan(&ov.Teams)
	if err != nil {
		return ov, fmt.Errorf("overview teams: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM snapshot_entries`).Scan(&ov.SnapshotEntries); err != nil {
		return ov, fmt.Errorf("overview snapshots: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM period_snapshots`).Scan(&ov.PeriodSnapshots); err != nil {
		return ov, fmt.Errorf("overview period snapshots: %w", err)
	}
	return ov, nil
}

// TeamCount is a team's number of stored games.
type TeamCount struct {
	Tricode string
	Games   int
}

// GetTeamCounts returns stored game counts per team, most first.
func (db *DB) GetTeamCounts() ([]TeamCount, error) {
	rows, err := db.conn.Query(`
		SELECT tricode, COUNT(1) AS n FROM (
			SELECT home_tricode AS tricode FROM games
			UNION ALL
			SELECT away_tricode FROM games
		) WHERE tricode != ''
		GROUP BY tricode ORDER BY n DESC, tricode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamCount
	for rows.Next() {
		var tc TeamCount
		if err := rows.Scan(&tc.Tricode, &tc.Games); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

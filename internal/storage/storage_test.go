package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testGame(id, date string, home, away int) *model.Game {
	return &model.Game{
		GameID:      id,
		GameStatus:  model.StatusFinal,
		Period:      4,
		GameClock:   "PT00M00.00S",
		GameTimeUTC: date + "T00:30:00Z",
		HomeTeam:    model.Team{TeamID: 1, TeamTricode: "BOS", Score: home},
		AwayTeam:    model.Team{TeamID: 2, TeamTricode: "MIA", Score: away},
		PlayByPlayActions: []model.Action{
			{ActionNumber: 1, Period: 1, Clock: "PT11M45.00S", ActionType: model.ActionTwoPoint, ShotResult: model.ShotMade, TeamID: 1, PersonID: 10},
		},
	}
}

func saveGame(t *testing.T, db *DB, g *model.Game, minutes *model.MinutesData) {
	t.Helper()
	gameJSON, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal game: %v", err)
	}
	var minutesJSON []byte
	if minutes != nil {
		if minutesJSON, err = json.Marshal(minutes); err != nil {
			t.Fatalf("marshal minutes: %v", err)
		}
	}
	if err := db.SaveGame(NewGameRecord(g, SourceAPI, ""), gameJSON, minutesJSON); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
}

func TestGameSaveAndLoad(t *testing.T) {
	db := openMemDB(t)

	minutes := &model.MinutesData{Periods: []model.PeriodStints{{Period: 1, Stints: []model.Stint{{StartClock: "12:00", EndClock: "0:00", PlusMinus: 3}}}}}
	saveGame(t, db, testGame("0022400500", "2025-01-10", 110, 100), minutes)

	exists, err := db.GameExists("0022400500")
	if err != nil {
		t.Fatalf("GameExists: %v", err)
	}
	if !exists {
		t.Error("expected game to exist after save")
	}

	g, m, err := db.LoadGame("0022400500")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if g.HomeTeam.Score != 110 || len(g.PlayByPlayActions) != 1 {
		t.Errorf("loaded game: score %d, %d actions", g.HomeTeam.Score, len(g.PlayByPlayActions))
	}
	if m == nil || m.PeriodData(1)[0].PlusMinus != 3 {
		t.Errorf("loaded minutes: got %+v", m)
	}
}

func TestLoadGameNotFound(t *testing.T) {
	db := openMemDB(t)
	_, _, err := db.LoadGame("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

// TestSaveGameKeepsMinutes: re-saving without stint data keeps the earlier payload.
func TestSaveGameKeepsMinutes(t *testing.T) {
	db := openMemDB(t)

	minutes := &model.MinutesData{Periods: []model.PeriodStints{{Period: 1}}}
	saveGame(t, db, testGame("g1", "2025-01-10", 50, 48), minutes)
	saveGame(t, db, testGame("g1", "2025-01-10", 112, 101), nil)

	g, m, err := db.LoadGame("g1")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if g.HomeTeam.Score != 112 {
		t.Errorf("upsert: want updated score 112, got %d", g.HomeTeam.Score)
	}
	if m == nil {
		t.Error("minutes payload should survive a save without minutes")
	}

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 1 || !list[0].HasMinutes {
		t.Errorf("list: want one game with minutes, got %+v", list)
	}
}

func TestListGames(t *testing.T) {
	db := openMemDB(t)

	saveGame(t, db, testGame("g1", "2025-01-01", 100, 90), nil)
	saveGame(t, db, testGame("g2", "2025-02-01", 101, 99), nil)

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 games, got %d", len(list))
	}
	// Ordered by game_date DESC, so g2 comes first.
	if list[0].GameID != "g2" {
		t.Errorf("expected g2 first (newest), got %s", list[0].GameID)
	}
	if list[0].GameDate != "2025-02-01" || list[0].HomeTricode != "BOS" || list[0].Status != model.StatusFinal {
		t.Errorf("record fields: got %+v", list[0])
	}
}

func TestGetGameByPrefix(t *testing.T) {
	db := openMemDB(t)
	saveGame(t, db, testGame("0022400777", "2025-03-01", 1, 0), nil)

	r, err := db.GetGameByPrefix("00224007")
	if err != nil {
		t.Fatalf("GetGameByPrefix: %v", err)
	}
	if r == nil || r.GameID != "0022400777" {
		t.Fatalf("expected match for prefix, got %+v", r)
	}

	r2, err := db.GetGameByPrefix("99")
	if err != nil {
		t.Fatalf("GetGameByPrefix no-match: %v", err)
	}
	if r2 != nil {
		t.Error("expected nil for unknown prefix")
	}
}

func TestHashExists(t *testing.T) {
	db := openMemDB(t)
	g := testGame("g1", "2025-01-01", 1, 0)
	raw, _ := json.Marshal(g)
	if err := db.SaveGame(NewGameRecord(g, SourceFile, "cafebabe"), raw, nil); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if ok, _ := db.HashExists("cafebabe"); !ok {
		t.Error("expected hash to exist")
	}
	if ok, _ := db.HashExists("deadbeef"); ok {
		t.Error("unexpected hash match")
	}
}

func TestSnapshotEntriesRoundTrip(t *testing.T) {
	db := openMemDB(t)

	s := model.NewSnapshot()
	s.Teams[1] = model.BoxCounts{Points: 28}
	s.Players[10] = model.BoxCounts{Points: 9, Assists: 2}
	e := model.SnapshotEntry{Key: model.PeriodEndKey(1), Type: model.SnapshotPeriodEnd, Period: 1, Clock: "0:00", ActionNumber: 140, Snapshot: s}
	if err := db.UpsertSnapshotEntry("g1", e); err != nil {
		t.Fatalf("UpsertSnapshotEntry: %v", err)
	}
	// Same key replaces.
	s2 := model.NewSnapshot()
	s2.Teams[1] = model.BoxCounts{Points: 30}
	e.Snapshot = s2
	if err := db.UpsertSnapshotEntry("g1", e); err != nil {
		t.Fatalf("UpsertSnapshotEntry replace: %v", err)
	}
	to := model.SnapshotEntry{Key: model.TimeoutKey(95), Type: model.SnapshotTimeout, Period: 1, ActionNumber: 95, Snapshot: s}
	if err := db.UpsertSnapshotEntry("g1", to); err != nil {
		t.Fatalf("UpsertSnapshotEntry timeout: %v", err)
	}

	got, err := db.SnapshotEntries("g1")
	if err != nil {
		t.Fatalf("SnapshotEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Key != model.TimeoutKey(95) {
		t.Errorf("order: want timeout first, got %s", got[0].Key)
	}
	if got[1].Snapshot.Teams[1].Points != 30 {
		t.Errorf("replaced snapshot: want 30 points, got %d", got[1].Snapshot.Teams[1].Points)
	}
	if got[0].Snapshot.Players[10].Assists != 2 {
		t.Errorf("player snapshot: want 2 assists, got %d", got[0].Snapshot.Players[10].Assists)
	}
}

func TestPeriodSnapshotUpsert(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	write := func(points int) {
		err := db.UpsertPeriodSnapshot(ctx, model.PeriodSnapshot{
			GameID: "g1", Period: 2, TeamID: 1, Totals: model.BoxCounts{Points: points},
		})
		if err != nil {
			t.Fatalf("UpsertPeriodSnapshot: %v", err)
		}
	}
	write(55)
	write(57)

	got, err := db.PeriodSnapshots(ctx, "g1")
	if err != nil {
		t.Fatalf("PeriodSnapshots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unique key: want 1 row, got %d", len(got))
	}
	if got[0].Totals.Points != 57 {
		t.Errorf("last write wins: want 57, got %d", got[0].Totals.Points)
	}
}

func TestDeleteGame(t *testing.T) {
	db := openMemDB(t)
	saveGame(t, db, testGame("g1", "2025-01-01", 1, 0), nil)
	db.UpsertPeriodSnapshot(context.Background(), model.PeriodSnapshot{GameID: "g1", Period: 1, TeamID: 1})

	if err := db.DeleteGame("g1"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if ok, _ := db.GameExists("g1"); ok {
		t.Error("game should be gone")
	}
	snaps, _ := db.PeriodSnapshots(context.Background(), "g1")
	if len(snaps) != 0 {
		t.Errorf("snapshots should be gone, got %d", len(snaps))
	}
}

func TestQueryRawAndOverview(t *testing.T) {
	db := openMemDB(t)
	saveGame(t, db, testGame("g1", "2025-01-01", 100, 90), nil)
	saveGame(t, db, testGame("g2", "2025-01-05", 95, 97), nil)

	cols, rows, err := db.QueryRaw("SELECT game_id, home_score, minutes_blob FROM games ORDER BY game_id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || len(rows) != 2 {
		t.Fatalf("shape: %d cols %d rows", len(cols), len(rows))
	}
	if rows[0][0] != "g1" || rows[0][1] != "100" || rows[0][2] != "NULL" {
		t.Errorf("row 0: got %v", rows[0])
	}

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.Games != 2 || ov.FinalGames != 2 || ov.Teams != 2 {
		t.Errorf("overview: got %+v", ov)
	}
	if ov.EarliestDate != "2025-01-01" || ov.LatestDate != "2025-01-05" {
		t.Errorf("date range: got %s .. %s", ov.EarliestDate, ov.LatestDate)
	}

	counts, err := db.GetTeamCounts()
	if err != nil {
		t.Fatalf("GetTeamCounts: %v", err)
	}
	if len(counts) != 2 || counts[0].Games != 2 {
		t.Errorf("team counts: got %+v", counts)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nbaapi"
	"github.com/pable/go-nba-metrics/internal/storage"
)

// fetchAndStore downloads a game and its minutes and upserts both. Missing
// minutes are not an error; the stored stint payload, if any, is kept.
func fetchAndStore(ctx context.Context, db *storage.DB, client *nbaapi.Client, gameID string) (*model.Game, *model.MinutesData, error) {
	raw, g, err := client.GameRaw(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch game %s: %w", gameID, err)
	}
	minutesRaw, minutes, err := client.MinutesRaw(ctx, gameID)
	if err != nil {
		if !nbaapi.IsNotFound(err) {
			cWarn.Fprintf(os.Stderr, "  [warn] %s minutes: %v\n", gameID, err)
		}
		minutesRaw, minutes = nil, nil
	}
	if err := db.SaveGame(storage.NewGameRecord(g, storage.SourceAPI, ""), raw, minutesRaw); err != nil {
		return nil, nil, err
	}
	if minutes == nil {
		// Fall back to stint data stored by an earlier fetch.
		if _, stored, err := db.LoadGame(g.GameID); err == nil {
			minutes = stored
		}
	}
	return g, minutes, nil
}

// resolveGame returns a game for display. idOrPrefix may be a stored game ID
// prefix. The stored copy is used unless refresh is set, the game was stored
// while live, or it is not stored at all; then it is fetched and stored.
func resolveGame(ctx context.Context, db *storage.DB, idOrPrefix string, refresh bool) (*model.Game, *model.MinutesData, error) {
	rec, err := db.GetGameByPrefix(idOrPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("query game: %w", err)
	}
	if rec != nil && !refresh && rec.Status != model.StatusLive {
		return db.LoadGame(rec.GameID)
	}
	gameID := idOrPrefix
	if rec != nil {
		gameID = rec.GameID
		if rec.Source == storage.SourceFile && !refresh {
			return db.LoadGame(gameID)
		}
	}
	return fetchAndStore(ctx, db, newClient(), gameID)
}

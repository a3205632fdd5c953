package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nbaapi"
	"github.com/pable/go-nba-metrics/internal/storage"
)

// fetch command flags.
var (
	// fetchDate fetches every game on this date instead of explicit IDs.
	fetchDate string
	// fetchForce refetches games that are already stored as final.
	fetchForce bool
	// fetchWorkers bounds concurrent upstream requests.
	fetchWorkers int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [gameId...]",
	Short: "Download games and stint data into the database",
	Long: `Fetch game payloads and on-court stint data from the game-data API and store
them compressed in SQLite for offline analysis.

Examples:
  # One game
  nbametrics fetch 0022400900

  # Every game on a date
  nbametrics fetch --date 2025-03-01`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "fetch every game on this date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "refetch games already stored as final")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 4, "concurrent downloads")
}

type fetched struct {
	gameID     string
	game       *model.Game
	raw        []byte
	minutesRaw []byte
	err        error
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && fetchDate == "" {
		return fmt.Errorf("give at least one game id or --date")
	}
	ctx := cmd.Context()
	client := newClient()

	ids := append([]string(nil), args...)
	if fetchDate != "" {
		date, err := parseDateFlag(fetchDate)
		if err != nil {
			return err
		}
		games, err := client.GamesByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		for _, g := range games {
			if g.GameStatus != model.StatusScheduled {
				ids = append(ids, g.GameID)
			}
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return doFetch(ctx, db, client, ids)
}

// doFetch downloads ids concurrently, then stores them in order. Games already
// stored as final are skipped unless --force.
func doFetch(ctx context.Context, db *storage.DB, client *nbaapi.Client, ids []string) error {
	var todo []string
	for _, id := range ids {
		rec, err := db.GetGameByPrefix(id)
		if err != nil {
			return fmt.Errorf("check game: %w", err)
		}
		if rec != nil && rec.GameID == id && rec.Status == model.StatusFinal && !fetchForce {
			fmt.Fprintf(os.Stdout, "  [skip] %s already stored (final)\n", id)
			continue
		}
		todo = append(todo, id)
	}

	results := make([]fetched, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(fetchWorkers, 1))
	for i, id := range todo {
		i, id := i, id
		g.Go(func() error {
			res := fetched{gameID: id}
			res.raw, res.game, res.err = client.GameRaw(gctx, id)
			if res.err == nil {
				raw, _, err := client.MinutesRaw(gctx, id)
				if err != nil && !nbaapi.IsNotFound(err) {
					cWarn.Fprintf(os.Stderr, "  [warn] %s minutes: %v\n", id, err)
				}
				res.minutesRaw = raw
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	stored := 0
	for _, res := range results {
		if res.err != nil {
			cError.Fprintf(os.Stderr, "  [fail] %s: %v\n", res.gameID, res.err)
			continue
		}
		if err := db.SaveGame(storage.NewGameRecord(res.game, storage.SourceAPI, ""), res.raw, res.minutesRaw); err != nil {
			return err
		}
		stored++
		minutes := "no minutes"
		if res.minutesRaw != nil {
			minutes = "with minutes"
		}
		fmt.Fprintf(os.Stdout, "  [ok] %s  %s @ %s  %d-%d  %s  (%s)\n",
			res.game.GameID, res.game.AwayTeam.TeamTricode, res.game.HomeTeam.TeamTricode,
			res.game.AwayTeam.Score, res.game.HomeTeam.Score, model.StatusLabel(res.game.Summary()), minutes)
	}
	fmt.Fprintf(os.Stdout, "Stored %d of %d games.\n", stored, len(todo))
	return nil
}

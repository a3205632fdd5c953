package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nbametrics fetch <gameId>' to add one.")
		return nil
	}

	printGameRecords(games)
	return nil
}

func recordStatus(g storage.GameRecord) string {
	return model.StatusLabel(model.GameSummary{
		GameStatus: g.Status,
		Period:     g.Period,
		GameClock:  g.GameClock,
	})
}

func printGameRecords(games []storage.GameRecord) {
	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-13s  %7s  %-6s  %-4s  %s\n",
		"GAME", "DATE", "MATCHUP", "SCORE", "STATUS", "MIN", "SOURCE")
	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-13s  %7s  %-6s  %-4s  %s\n",
		"────────────", "──────────", "─────────────", "───────", "──────", "────", "──────")
	for _, g := range games {
		matchup := fmt.Sprintf("%s @ %s", g.AwayTricode, g.HomeTricode)
		score := fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore)
		minutes := "no"
		if g.HasMinutes {
			minutes = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-13s  %7s  %-6s  %-4s  %s\n",
			g.GameID, g.GameDate, matchup, score, recordStatus(g), minutes, g.Source)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/storage"
)

// summaryCmd prints a high-level overview of the stored games.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the stored games: game count, date
range, how many carry stint data, captured snapshots, and games per team.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printSummary(db)
}

func printSummary(db *storage.DB) error {
	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nbametrics fetch <gameId>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored     : %d (%d final)\n", ov.Games, ov.FinalGames)
	fmt.Fprintf(os.Stdout, "  Date range       : %s to %s\n", ov.EarliestDate, ov.LatestDate)
	fmt.Fprintf(os.Stdout, "  Teams seen       : %d\n", ov.Teams)
	fmt.Fprintf(os.Stdout, "  With stint data  : %d\n", ov.WithMinutes)
	fmt.Fprintf(os.Stdout, "  Snapshot entries : %d\n", ov.SnapshotEntries)
	fmt.Fprintf(os.Stdout, "  Period captures  : %d\n", ov.PeriodSnapshots)

	teams, err := db.GetTeamCounts()
	if err != nil {
		return fmt.Errorf("get team counts: %w", err)
	}
	if len(teams) > 0 {
		cHeader.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
		printTeamCounts(teams)
	}
	return nil
}

func printTeamCounts(teams []storage.TeamCount) {
	t := newCmdTable()
	t.Header("TEAM", "GAMES")
	for _, tc := range teams {
		t.Append(tc.Tricode, fmt.Sprintf("%d", tc.Games))
	}
	t.Render()
}

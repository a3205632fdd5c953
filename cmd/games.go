package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/capture"
	"github.com/pable/go-nba-metrics/internal/nbaapi"
	"github.com/pable/go-nba-metrics/internal/report"
)

var gamesDate string

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List upstream games for a date",
	Long: `List the schedule for a date with scores and short status labels
(F, F/OT2, HT, End Q3, Q2). The date defaults to today in US Eastern time.`,
	Args: cobra.NoArgs,
	RunE: runGames,
}

func init() {
	gamesCmd.Flags().StringVar(&gamesDate, "date", "", "date as YYYY-MM-DD (default: today, US Eastern)")
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return capture.SweepDates(time.Now())[0], nil
	}
	d, err := time.Parse(nbaapi.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func runGames(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag(gamesDate)
	if err != nil {
		return err
	}
	games, err := newClient().GamesByDate(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("fetch games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintf(os.Stdout, "No games on %s.\n", date.Format(nbaapi.DateLayout))
		return nil
	}
	fmt.Fprintf(os.Stdout, "\nGames on %s\n\n", date.Format(nbaapi.DateLayout))
	report.PrintGames(os.Stdout, games)
	return nil
}

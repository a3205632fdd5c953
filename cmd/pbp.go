package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
)

var (
	pbpPeriod  int
	pbpRefresh bool
)

var pbpCmd = &cobra.Command{
	Use:   "pbp <gameId|prefix>",
	Short: "Show play-by-play with a running score",
	Args:  cobra.ExactArgs(1),
	RunE:  runPBP,
}

func init() {
	pbpCmd.Flags().IntVar(&pbpPeriod, "period", 0, "only this period (0 for all)")
	pbpCmd.Flags().BoolVar(&pbpRefresh, "refresh", false, "refetch the game first")
}

func runPBP(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	g, _, err := resolveGame(cmd.Context(), db, args[0], pbpRefresh)
	if err != nil {
		return err
	}
	if len(g.PlayByPlayActions) == 0 {
		fmt.Fprintln(os.Stdout, "No play-by-play yet.")
		return nil
	}
	report.PrintPlayByPlay(os.Stdout, g, pbpPeriod)
	return nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
)

var minutesRefresh bool

var minutesCmd = &cobra.Command{
	Use:   "minutes <gameId|prefix>",
	Short: "Show the stint grid of a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runMinutes,
}

func init() {
	minutesCmd.Flags().BoolVar(&minutesRefresh, "refresh", false, "refetch the game first")
}

func runMinutes(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, minutes, err := resolveGame(cmd.Context(), db, args[0], minutesRefresh)
	if err != nil {
		return err
	}
	report.PrintMinutes(os.Stdout, minutes)
	return nil
}

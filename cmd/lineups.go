package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/report"
)

var (
	lineupsSegment string
	lineupsTop     int
	lineupsRefresh bool
	lineupsJSON    bool
)

var lineupsCmd = &cobra.Command{
	Use:   "lineups <gameId|prefix>",
	Short: "Show on/off splits and five-man units",
	Long: `Replay substitutions from each period's starting five and show every
player's on-court and off-court production plus the most used units.`,
	Args: cobra.ExactArgs(1),
	RunE: runLineups,
}

func init() {
	lineupsCmd.Flags().StringVar(&lineupsSegment, "segment", "all", "segment to replay")
	lineupsCmd.Flags().IntVar(&lineupsTop, "top", 8, "units shown per team (0 for all)")
	lineupsCmd.Flags().BoolVar(&lineupsRefresh, "refresh", false, "refetch the game first")
	lineupsCmd.Flags().BoolVar(&lineupsJSON, "json", false, "print as JSON")
}

func runLineups(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	g, minutes, err := resolveGame(cmd.Context(), db, args[0], lineupsRefresh)
	if err != nil {
		return err
	}
	lr := analysis.Lineups(g, minutes, model.ParseSegment(lineupsSegment))
	if lineupsJSON {
		return writeJSON(os.Stdout, lr)
	}
	report.PrintLineups(os.Stdout, lr, g, lineupsTop)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/parser"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var importMinutes string

var importCmd = &cobra.Command{
	Use:   "import <game.json>",
	Short: "Import a saved game payload and store it",
	Long: `Import a game payload saved to disk (the game resource as served by the API,
bare or under a "game" key). Files are keyed by content hash, so importing the
same file twice shows the stored copy.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMinutes, "minutes", "", "stint payload for the same game")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
	gf, err := parser.ParseGameFile(path)
	if err != nil {
		return err
	}

	exists, err := db.HashExists(gf.Hash)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists && importMinutes == "" {
		fmt.Fprintf(os.Stdout, "File %s already stored as %s; showing stored copy.\n", gf.Hash[:12], gf.Game.GameID)
	} else {
		var minutesRaw []byte
		if importMinutes != "" {
			if _, minutesRaw, err = parser.ParseMinutesFile(importMinutes); err != nil {
				return err
			}
		}
		rec := storage.NewGameRecord(gf.Game, storage.SourceFile, gf.Hash)
		if err := db.SaveGame(rec, gf.Raw, minutesRaw); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Stored %s (%s).\n", gf.Game.GameID, gf.Hash[:12])
	}

	g, minutes, err := db.LoadGame(gf.Game.GameID)
	if err != nil {
		return err
	}
	report.PrintReport(analysis.Build(g, minutes, analysis.Options{Lineup: aggregator.LineupAuto}))
	return nil
}

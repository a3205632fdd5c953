package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/capture"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	showSegment string
	showLineup  string
	showRefresh bool
	showJSON    bool
)

var showCmd = &cobra.Command{
	Use:   "show <gameId|prefix>",
	Short: "Show a game's segment report",
	Long: `Show the box score, possessions and ratings, four factors, shot profile,
transition and disruption tables for one segment of a game.

Segments: all, q1, q2, q3, q4, q1-q3, first-half, second-half.
Lineup modes: auto (stints where they cover a period, replay otherwise),
stints, replay, none.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showSegment, "segment", "all", "segment to report")
	showCmd.Flags().StringVar(&showLineup, "lineup", "auto", "minutes attribution: auto|stints|replay|none")
	showCmd.Flags().BoolVar(&showRefresh, "refresh", false, "refetch the game before reporting")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the report as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	g, minutes, err := resolveGame(cmd.Context(), db, args[0], showRefresh)
	if err != nil {
		return err
	}
	r, err := buildStored(db, g, minutes, model.ParseSegment(showSegment), aggregator.ParseLineupMode(showLineup))
	if err != nil {
		return err
	}
	if showJSON {
		return writeJSON(os.Stdout, r)
	}
	report.PrintReport(r)
	return nil
}

// buildStored builds a report corrected by every snapshot stored for the game.
// A live game first records any new period-end and timeout snapshots.
func buildStored(db *storage.DB, g *model.Game, minutes *model.MinutesData, seg model.Segment, mode aggregator.LineupMode) (*analysis.Report, error) {
	if _, err := capture.RecordEntries(db, g, time.Now().UTC()); err != nil {
		cWarn.Fprintf(os.Stderr, "  [warn] record snapshots: %v\n", err)
	}
	entries, err := storedSnapshots(db, g.GameID)
	if err != nil {
		return nil, err
	}
	return analysis.Build(g, minutes, analysis.Options{Segment: seg, Lineup: mode, Snapshots: entries}), nil
}

// storedSnapshots merges full snapshot entries with period-end team totals
// captured by the snapshot sweep; full entries win.
func storedSnapshots(db *storage.DB, gameID string) ([]model.SnapshotEntry, error) {
	entries, err := db.SnapshotEntries(gameID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	rows, err := db.PeriodSnapshots(context.Background(), gameID)
	if err != nil {
		return nil, fmt.Errorf("load period snapshots: %w", err)
	}
	return capture.MergeEntries(entries, capture.EntriesFromPeriodSnapshots(rows)), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cGreeting.Println("nbametrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("nbametrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "summary":
			if err := printSummary(db); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <game-prefix> [segment] [lineup-mode]")
				continue
			}
			shellShow(ctx, db, args)
		case "lineups":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: lineups <game-prefix> [segment]")
				continue
			}
			shellLineups(ctx, db, args)
		case "pbp":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: pbp <game-prefix> [period]")
				continue
			}
			shellPBP(ctx, db, args)
		case "minutes":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: minutes <game-prefix>")
				continue
			}
			shellMinutes(ctx, db, args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"summary", "database overview"},
		{"show <game-prefix> [segment] [mode]", "segment report (mode: auto|stints|replay|none)"},
		{"lineups <game-prefix> [segment]", "on/off splits and five-man units"},
		{"pbp <game-prefix> [period]", "play-by-play with running score"},
		{"minutes <game-prefix>", "stint grid"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	games, err := db.ListGames()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	printGameRecords(games)
}

func shellGame(ctx context.Context, db *storage.DB, prefix string) (*model.Game, *model.MinutesData, bool) {
	g, minutes, err := resolveGame(ctx, db, prefix, false)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, nil, false
	}
	return g, minutes, true
}

func shellShow(ctx context.Context, db *storage.DB, args []string) {
	g, minutes, ok := shellGame(ctx, db, args[0])
	if !ok {
		return
	}
	seg, mode := model.SegmentAll, aggregator.LineupAuto
	if len(args) > 1 {
		seg = model.ParseSegment(args[1])
	}
	if len(args) > 2 {
		mode = aggregator.ParseLineupMode(args[2])
	}
	r, err := buildStored(db, g, minutes, seg, mode)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintReport(r)
}

func shellLineups(ctx context.Context, db *storage.DB, args []string) {
	g, minutes, ok := shellGame(ctx, db, args[0])
	if !ok {
		return
	}
	seg := model.SegmentAll
	if len(args) > 1 {
		seg = model.ParseSegment(args[1])
	}
	report.PrintLineups(os.Stdout, analysis.Lineups(g, minutes, seg), g, 8)
}

func shellPBP(ctx context.Context, db *storage.DB, args []string) {
	g, _, ok := shellGame(ctx, db, args[0])
	if !ok {
		return
	}
	period := 0
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid period %q\n", args[1])
			return
		}
		period = p
	}
	report.PrintPlayByPlay(os.Stdout, g, period)
}

func shellMinutes(ctx context.Context, db *storage.DB, prefix string) {
	_, minutes, ok := shellGame(ctx, db, prefix)
	if !ok {
		return
	}
	report.PrintMinutes(os.Stdout, minutes)
}

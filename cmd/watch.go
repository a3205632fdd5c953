package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/publisher"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/watch"
)

var (
	watchFile     string
	watchMinutes  string
	watchInterval time.Duration
	watchSegments string
	watchLineup   string
	watchRedis    bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [gameId]",
	Short: "Follow a live game and re-render its report",
	Long: `Poll a live game (or follow a local payload with --file), re-render the
segment report on every refresh, record period-end and timeout snapshots, and
optionally publish each report to Redis. Stops once the game is final.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFile, "file", "", "follow a local game payload instead of the API")
	watchCmd.Flags().StringVar(&watchMinutes, "minutes", "", "stint payload to use with --file")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from config)")
	watchCmd.Flags().StringVar(&watchSegments, "segments", "all", "comma-separated segments to build")
	watchCmd.Flags().StringVar(&watchLineup, "lineup", "auto", "minutes attribution: auto|stints|replay|none")
	watchCmd.Flags().BoolVar(&watchRedis, "redis", false, "publish reports to Redis (redis.url / REDIS_URL)")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "do not render tables")
}

func parseSegments(s string) []model.Segment {
	var out []model.Segment
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, model.ParseSegment(part))
		}
	}
	return out
}

func runWatch(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (watchFile == "") {
		return fmt.Errorf("give a game id or --file, not both")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := newLogger()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	w := &watch.Watcher{
		Segments: parseSegments(watchSegments),
		Lineup:   aggregator.ParseLineupMode(watchLineup),
		Entries:  db,
		Log:      log,
	}
	if !watchQuiet {
		w.Render = func(g *model.Game, reports []*analysis.Report) {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			for _, r := range reports {
				report.PrintReport(r)
			}
			fmt.Fprintf(os.Stdout, "\nUpdated %s\n", time.Now().Format("15:04:05"))
		}
	}

	if watchRedis {
		if cfg.Redis.URL == "" {
			return fmt.Errorf("--redis: no redis url configured (redis.url or REDIS_URL)")
		}
		pub, err := publisher.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer pub.Close()
		w.Publisher = pub
	}

	if watchFile != "" {
		w.Loader = &watch.FileLoader{Path: watchFile, MinutesPath: watchMinutes}
		err = w.Follow(ctx, watchFile)
	} else {
		w.Loader = &watch.APILoader{Source: newClient(), GameID: args[0]}
		interval := watchInterval
		if interval <= 0 {
			interval = cfg.WatchInterval()
		}
		err = w.Poll(ctx, interval)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

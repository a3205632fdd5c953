// Package watch follows one game while it is live: each refresh rebuilds the
// segment reports, records snapshot captures and publishes the result.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/capture"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/parser"
)

// Loader returns the current state of the watched game.
type Loader interface {
	Load(ctx context.Context) (*model.Game, *model.MinutesData, error)
}

// GameSource is the slice of the upstream client APILoader needs.
type GameSource interface {
	Game(ctx context.Context, gameID string) (*model.Game, error)
	Minutes(ctx context.Context, gameID string) (*model.MinutesData, error)
}

// APILoader loads a game from the upstream API. Minutes are optional.
type APILoader struct {
	Source GameSource
	GameID string
}

func (l *APILoader) Load(ctx context.Context) (*model.Game, *model.MinutesData, error) {
	g, err := l.Source.Game(ctx, l.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch game %s: %w", l.GameID, err)
	}
	m, err := l.Source.Minutes(ctx, l.GameID)
	if err != nil {
		m = nil
	}
	return g, m, nil
}

// FileLoader reads a game payload, and optionally its minutes, from disk.
type FileLoader struct {
	Path        string
	MinutesPath string
}

func (l *FileLoader) Load(context.Context) (*model.Game, *model.MinutesData, error) {
	gf, err := parser.ParseGameFile(l.Path)
	if err != nil {
		return nil, nil, err
	}
	if l.MinutesPath == "" {
		return gf.Game, nil, nil
	}
	m, _, err := parser.ParseMinutesFile(l.MinutesPath)
	if err != nil {
		return nil, nil, err
	}
	return gf.Game, m, nil
}

// Publisher receives every rebuilt report.
type Publisher interface {
	Publish(ctx context.Context, r *analysis.Report) (string, error)
}

// Watcher rebuilds reports for one game on each refresh.
type Watcher struct {
	Loader   Loader
	Segments []model.Segment
	Lineup   aggregator.LineupMode

	Entries   capture.EntryStore // optional
	Publisher Publisher          // optional
	Render    func(g *model.Game, reports []*analysis.Report)

	Log logrus.FieldLogger
	Now func() time.Time
}

func (w *Watcher) logger() logrus.FieldLogger {
	if w.Log == nil {
		return logrus.StandardLogger()
	}
	return w.Log
}

func (w *Watcher) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Step performs one refresh. It reports whether the game is final.
func (w *Watcher) Step(ctx context.Context) (bool, error) {
	g, minutes, err := w.Loader.Load(ctx)
	if err != nil {
		return false, err
	}
	log := w.logger().WithField("game_id", g.GameID)

	var entries []model.SnapshotEntry
	if w.Entries != nil {
		n, err := capture.RecordEntries(w.Entries, g, w.now())
		if err != nil {
			log.WithError(err).Warn("record snapshots failed")
		} else if n > 0 {
			log.WithFields(logrus.Fields{"period": g.Period, "entries": n}).Info("recorded snapshots")
		}
		entries, err = w.Entries.SnapshotEntries(g.GameID)
		if err != nil {
			log.WithError(err).Warn("load snapshots failed")
		}
	}

	segments := w.Segments
	if len(segments) == 0 {
		segments = []model.Segment{model.SegmentAll}
	}
	reports := make([]*analysis.Report, 0, len(segments))
	for _, seg := range segments {
		r := analysis.Build(g, minutes, analysis.Options{Segment: seg, Lineup: w.Lineup, Snapshots: entries})
		reports = append(reports, r)
		if w.Publisher == nil {
			continue
		}
		if _, err := w.Publisher.Publish(ctx, r); err != nil {
			log.WithError(err).WithField("segment", seg).Warn("publish failed")
		}
	}
	if w.Render != nil {
		w.Render(g, reports)
	}
	return g.IsFinal(), nil
}

// Poll refreshes every interval until the game is final or ctx is done.
// Failed refreshes are logged and retried on the next tick.
func (w *Watcher) Poll(ctx context.Context, interval time.Duration) error {
	if done, err := w.step(ctx); done || err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done, err := w.step(ctx); done || err != nil {
				return err
			}
		}
	}
}

// step wraps Step for the loops: load errors are logged, and only context
// cancellation ends the loop early.
func (w *Watcher) step(ctx context.Context) (bool, error) {
	final, err := w.Step(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		w.logger().WithError(err).Warn("refresh failed")
		return false, nil
	}
	if final {
		w.logger().Info("game final, stopping")
	}
	return final, nil
}

// Follow refreshes whenever the file at path is written, until the game is
// final or ctx is done. The parent directory is watched so editors that
// replace the file are still seen.
func (w *Watcher) Follow(ctx context.Context, path string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if done, err := w.step(ctx); done || err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if done, err := w.step(ctx); done || err != nil {
				return err
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().WithError(err).Warn("watcher error")
		}
	}
}

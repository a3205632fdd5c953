package capture

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-nba-metrics/internal/model"
)

// GameSource is the slice of the upstream client the sweep needs.
type GameSource interface {
	GamesByDate(ctx context.Context, date time.Time) ([]model.GameSummary, error)
	Game(ctx context.Context, gameID string) (*model.Game, error)
}

// Sweep captures recent period ends for every live game on the given dates.
type Sweep struct {
	Source GameSource
	Store  Store
	Window time.Duration
	Log    logrus.FieldLogger
	Now    func() time.Time
}

// SweepDates returns today and yesterday on the US Eastern calendar, which is
// how the schedule groups games.
func SweepDates(now time.Time) []time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*60*60)
	}
	today := now.In(loc)
	return []time.Time{today, today.AddDate(0, 0, -1)}
}

// Run sweeps dates and returns the number of rows written. A failing game is
// logged and skipped; a failing schedule fetch aborts the sweep.
func (s *Sweep) Run(ctx context.Context, dates []time.Time) (int, error) {
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	window := s.Window
	if window <= 0 {
		window = DefaultWindow
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	total := 0
	for _, d := range dates {
		games, err := s.Source.GamesByDate(ctx, d)
		if err != nil {
			return total, err
		}
		for _, gs := range games {
			if gs.GameStatus != model.StatusLive {
				continue
			}
			entry := log.WithField("game_id", gs.GameID)
			g, err := s.Source.Game(ctx, gs.GameID)
			if err != nil {
				entry.WithError(err).Warn("fetch game failed")
				continue
			}
			n, err := CapturePeriodEnds(ctx, s.Store, g, now(), window)
			if err != nil {
				entry.WithError(err).Warn("capture failed")
				continue
			}
			if n > 0 {
				entry.WithFields(logrus.Fields{"period": g.Period, "rows": n}).Info("captured period end")
			}
			total += n
		}
	}
	return total, nil
}

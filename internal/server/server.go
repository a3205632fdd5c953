// Package server exposes segment reports over a JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-nba-metrics/internal/aggregator"
	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/capture"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nbaapi"
)

// Source is the upstream data the API serves from.
type Source interface {
	GamesByDate(ctx context.Context, date time.Time) ([]model.GameSummary, error)
	Game(ctx context.Context, gameID string) (*model.Game, error)
	Minutes(ctx context.Context, gameID string) (*model.MinutesData, error)
}

// SnapshotSource supplies stored snapshot captures for live segment corrections.
type SnapshotSource interface {
	SnapshotEntries(gameID string) ([]model.SnapshotEntry, error)
}

// Options configures a Server.
type Options struct {
	Source      Source
	Snapshots   SnapshotSource // optional
	CORSOrigins []string
	Log         logrus.FieldLogger
	Now         func() time.Time
}

// Server holds the handlers' dependencies.
type Server struct {
	src     Source
	snaps   SnapshotSource
	origins []string
	log     logrus.FieldLogger
	now     func() time.Time
}

// New creates a Server.
func New(opt Options) *Server {
	s := &Server{
		src:     opt.Source,
		snaps:   opt.Snapshots,
		origins: opt.CORSOrigins,
		log:     opt.Log,
		now:     opt.Now,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	return s
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.listGames)
		r.Get("/games/{gameID}", s.getGame)
		r.Get("/games/{gameID}/segments/{segment}", s.getSegment)
		r.Get("/games/{gameID}/lineups/{segment}", s.getLineups)
		r.Get("/games/{gameID}/minutes", s.getMinutes)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.log.WithError(err).Warn(message)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func (s *Server) upstreamError(w http.ResponseWriter, message string, err error) {
	status := http.StatusBadGateway
	switch {
	case nbaapi.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	s.respondError(w, status, message, err)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type gameListing struct {
	model.GameSummary
	Status string `json:"status"`
}

// GET /api/v1/games?date=YYYY-MM-DD
func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	date := capture.SweepDates(s.now())[0]
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := time.Parse(nbaapi.DateLayout, q)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
			return
		}
		date = d
	}

	games, err := s.src.GamesByDate(r.Context(), date)
	if err != nil {
		s.upstreamError(w, "fetch games", err)
		return
	}
	out := make([]gameListing, 0, len(games))
	for _, g := range games {
		out = append(out, gameListing{GameSummary: g, Status: model.StatusLabel(g)})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  date.Format(nbaapi.DateLayout),
		"games": out,
		"count": len(out),
	})
}

// GET /api/v1/games/{gameID}
func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.src.Game(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.upstreamError(w, "fetch game", err)
		return
	}
	sum := g.Summary()
	respondJSON(w, http.StatusOK, gameListing{GameSummary: sum, Status: model.StatusLabel(sum)})
}

// loadGame fetches the game and its minutes. Missing minutes are not an error.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*model.Game, *model.MinutesData, bool) {
	gameID := chi.URLParam(r, "gameID")
	g, err := s.src.Game(r.Context(), gameID)
	if err != nil {
		s.upstreamError(w, "fetch game", err)
		return nil, nil, false
	}
	minutes, err := s.src.Minutes(r.Context(), gameID)
	if err != nil {
		if !nbaapi.IsNotFound(err) {
			s.log.WithError(err).WithField("game_id", gameID).Warn("minutes unavailable")
		}
		minutes = nil
	}
	return g, minutes, true
}

// segmentParam resolves the {segment} path value; unknown names mean "all"
// and the response's segment field reports what was used.
func segmentParam(r *http.Request) model.Segment {
	return model.ParseSegment(chi.URLParam(r, "segment"))
}

// GET /api/v1/games/{gameID}/segments/{segment}?lineup=auto|stints|replay|none
func (s *Server) getSegment(w http.ResponseWriter, r *http.Request) {
	seg := segmentParam(r)
	g, minutes, ok := s.loadGame(w, r)
	if !ok {
		return
	}

	opt := analysis.Options{
		Segment: seg,
		Lineup:  aggregator.ParseLineupMode(r.URL.Query().Get("lineup")),
	}
	if s.snaps != nil && g.IsLive() {
		entries, err := s.snaps.SnapshotEntries(g.GameID)
		if err != nil {
			s.log.WithError(err).WithField("game_id", g.GameID).Warn("snapshots unavailable")
		}
		opt.Snapshots = entries
	}
	respondJSON(w, http.StatusOK, analysis.Build(g, minutes, opt))
}

// GET /api/v1/games/{gameID}/lineups/{segment}
func (s *Server) getLineups(w http.ResponseWriter, r *http.Request) {
	seg := segmentParam(r)
	g, minutes, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analysis.Lineups(g, minutes, seg))
}

// GET /api/v1/games/{gameID}/minutes
func (s *Server) getMinutes(w http.ResponseWriter, r *http.Request) {
	minutes, err := s.src.Minutes(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.upstreamError(w, "fetch minutes", err)
		return
	}
	respondJSON(w, http.StatusOK, minutes)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/server"
)

var (
	serveAddr      string
	serveSnapshots bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve segment reports over a JSON API",
	Long: `Start the JSON API:

  GET /health
  GET /api/v1/games?date=YYYY-MM-DD
  GET /api/v1/games/{gameID}
  GET /api/v1/games/{gameID}/segments/{segment}?lineup=auto|stints|replay|none
  GET /api/v1/games/{gameID}/lineups/{segment}
  GET /api/v1/games/{gameID}/minutes`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveSnapshots, "snapshots", true, "correct live segments with stored snapshots")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := newLogger()

	opt := server.Options{
		Source:      newClient(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
	}
	if serveSnapshots {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		opt.Snapshots = db
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(opt).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

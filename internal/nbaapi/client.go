// Package nbaapi provides a minimal client for the public game-data API that
// serves schedules, live game payloads and on-court stint data.
package nbaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pable/go-nba-metrics/internal/model"
)

// DefaultBaseURL is the root endpoint of the game-data API.
const DefaultBaseURL = "https://d1rjt2wyntx8o7.cloudfront.net/api"

// DateLayout is the layout of the byDate query parameter.
const DateLayout = "2006-01-02"

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Code)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is a minimal game-data API client. Concurrent requests for the same
// path share one round trip.
type Client struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
}

// NewClient returns a client rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// fetch performs a GET against the API and returns the raw body. The shared
// request outlives any one caller's cancellation and is bounded by the client
// timeout; each caller stops waiting when its own ctx is done.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	ch := c.group.DoChan(path, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Path: path, Code: resp.StatusCode}
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("GET %s: read body: %w", path, err)
		}
		return body, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("GET %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// get fetches path and JSON-decodes the response body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	body, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// GamesByDate returns the schedule for one calendar date.
func (c *Client) GamesByDate(ctx context.Context, date time.Time) ([]model.GameSummary, error) {
	var games []model.GameSummary
	path := "/games/byDate?date=" + url.QueryEscape(date.Format(DateLayout))
	if err := c.get(ctx, path, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Game returns the full game payload.
func (c *Client) Game(ctx context.Context, gameID string) (*model.Game, error) {
	_, g, err := c.GameRaw(ctx, gameID)
	return g, err
}

// GameRaw returns the game payload alongside the bytes it was decoded from,
// for callers that persist the upstream document.
func (c *Client) GameRaw(ctx context.Context, gameID string) ([]byte, *model.Game, error) {
	body, err := c.fetch(ctx, "/games/"+url.PathEscape(gameID))
	if err != nil {
		return nil, nil, err
	}
	var g model.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return body, &g, nil
}

// Minutes returns the on-court stint resource for a game.
func (c *Client) Minutes(ctx context.Context, gameID string) (*model.MinutesData, error) {
	_, m, err := c.MinutesRaw(ctx, gameID)
	return m, err
}

// MinutesRaw is Minutes plus the raw payload.
func (c *Client) MinutesRaw(ctx context.Context, gameID string) ([]byte, *model.MinutesData, error) {
	body, err := c.fetch(ctx, "/games/"+url.PathEscape(gameID)+"/minutes")
	if err != nil {
		return nil, nil, err
	}
	var m model.MinutesData
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, fmt.Errorf("decode minutes %s: %w", gameID, err)
	}
	return body, &m, nil
}

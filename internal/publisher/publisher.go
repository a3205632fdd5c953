// Package publisher pushes segment reports to Redis: the latest report per
// game and segment is cached under a key, and every publish is appended to a
// per-game stream for downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
)

// TTL constants
const (
	LiveReportTTL  = 2 * time.Hour
	FinalReportTTL = 24 * time.Hour
)

// StreamMaxLen caps each game's stream; older entries are trimmed approximately.
const StreamMaxLen = 1000

// Publisher writes reports to Redis.
type Publisher struct {
	client *redis.Client
}

// New creates a publisher on an existing client.
func New(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Dial parses a redis:// URL, connects and pings.
func Dial(ctx context.Context, url string) (*Publisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client), nil
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// ReportKey is the cache key of a game's segment report.
func ReportKey(gameID string, seg model.Segment) string {
	return fmt.Sprintf("game:%s:segment:%s", gameID, seg)
}

// StreamKey is the stream a game's report updates are appended to.
func StreamKey(gameID string) string {
	return fmt.Sprintf("games.segments.%s", gameID)
}

func reportTTL(r *analysis.Report) time.Duration {
	if r.Live {
		return LiveReportTTL
	}
	return FinalReportTTL
}

// Publish caches r and appends it to the game's stream in one pipeline. The
// returned id tags the stream entry.
func (p *Publisher) Publish(ctx context.Context, r *analysis.Report) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	id := uuid.NewString()

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, ReportKey(r.GameID, r.Segment), data, reportTTL(r))
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(r.GameID),
		MaxLen: StreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":      id,
			"game_id": r.GameID,
			"segment": string(r.Segment),
			"status":  r.Status,
			"data":    string(data),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("publish %s/%s: %w", r.GameID, r.Segment, err)
	}
	return id, nil
}

// Latest reads the cached report for a game segment. It returns nil, nil on
// a cache miss.
func (p *Publisher) Latest(ctx context.Context, gameID string, seg model.Segment) (*analysis.Report, error) {
	data, err := p.client.Get(ctx, ReportKey(gameID, seg)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r analysis.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling report: %w", err)
	}
	return &r, nil
}

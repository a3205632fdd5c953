package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pable/go-nba-metrics/internal/model"
)

// ErrNoGameID is returned for payloads that do not identify a game.
var ErrNoGameID = errors.New("payload has no gameId")

// GameFile is a decoded game payload with its content hash.
type GameFile struct {
	Game *model.Game
	Raw  []byte
	Hash string
}

// envelope accepts payloads saved with the game under a "game" key.
type envelope struct {
	Game json.RawMessage `json:"game"`
}

// ParseGame decodes a game payload. Bare game objects and {"game": {...}}
// wrappers are both accepted; Raw holds the unwrapped game JSON.
func ParseGame(data []byte) (*GameFile, error) {
	data = bytes.TrimSpace(data)

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	if len(env.Game) > 0 && env.Game[0] == '{' {
		data = env.Game
	}

	var g model.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	if g.GameID == "" {
		return nil, ErrNoGameID
	}

	// Hash file content for idempotency key.
	sum := sha256.Sum256(data)
	return &GameFile{Game: &g, Raw: data, Hash: fmt.Sprintf("%x", sum)}, nil
}

// ParseGameFile reads and decodes the game payload at path.
func ParseGameFile(path string) (*GameFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game: %w", err)
	}
	gf, err := ParseGame(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gf, nil
}

// ParseMinutesFile reads a stint payload and returns it with its raw bytes.
func ParseMinutesFile(path string) (*model.MinutesData, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read minutes: %w", err)
	}
	var m model.MinutesData
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("decode minutes %s: %w", path, err)
	}
	return &m, data, nil
}

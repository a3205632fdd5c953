// Package config loads nbametrics settings from TOML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all nbametrics configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Watch    WatchConfig    `toml:"watch"`
	Server   ServerConfig   `toml:"server"`
	Redis    RedisConfig    `toml:"redis"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type DatabaseConfig struct {
	Path           string `toml:"path"`
	PostgresURLEnv string `toml:"postgres_url_env"`
}

type WatchConfig struct {
	IntervalSeconds       int `toml:"interval_seconds"`
	SnapshotWindowMinutes int `toml:"snapshot_window_minutes"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

type RedisConfig struct {
	URL string `toml:"url"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "https://d1rjt2wyntx8o7.cloudfront.net/api",
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Path:           "~/.nbametrics/metrics.db",
			PostgresURLEnv: "DATABASE_URL",
		},
		Watch: WatchConfig{
			IntervalSeconds:       15,
			SnapshotWindowMinutes: 3,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
	}
}

// Load reads config from the standard path, falling back to defaults, then
// applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	if v := os.Getenv("NBAMETRICS_API_BASE"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NBAMETRICS_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	cfg.Database.Path = expandHome(cfg.Database.Path)
	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "nbametrics", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "nbametrics", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// PostgresURL returns the hosted database URL from the configured variable.
func (c Config) PostgresURL() string {
	if c.Database.PostgresURLEnv == "" {
		return ""
	}
	return os.Getenv(c.Database.PostgresURLEnv)
}

// APITimeout is the upstream request timeout.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// WatchInterval is the live polling period.
func (c Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}

// SnapshotWindow is how recent a period end must be to be captured.
func (c Config) SnapshotWindow() time.Duration {
	return time.Duration(c.Watch.SnapshotWindowMinutes) * time.Minute
}

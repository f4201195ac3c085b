// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application. Flags override these
// per invocation; the environment sets the durable defaults.
type Config struct {
	// Output settings
	OutputDir string `env:"GIGSPLIT_OUTPUT_DIR, default=."`

	// Decoded PCM cache settings
	CacheDir   string `env:"GIGSPLIT_CACHE_DIR"`
	CacheMaxMB int    `env:"GIGSPLIT_CACHE_MAX_MB, default=2048"`
	NoCache    bool   `env:"GIGSPLIT_NO_CACHE, default=false"`

	// Detection defaults, overridable per run
	SensitivityDb     float64 `env:"GIGSPLIT_SENSITIVITY_DB, default=-40"`
	SmoothingSeconds  float64 `env:"GIGSPLIT_SMOOTHING_SECONDS, default=5"`
	MinSilenceSeconds float64 `env:"GIGSPLIT_MIN_SILENCE_SECONDS, default=5"`
	MinSongSeconds    float64 `env:"GIGSPLIT_MIN_SONG_SECONDS, default=30"`

	// Logging settings
	LogFormat string `env:"GIGSPLIT_LOG_FORMAT, default=text"` // "json" or "text"
	LogLevel  string `env:"GIGSPLIT_LOG_LEVEL, default=info"`  // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cfg.CacheDir = filepath.Join(base, "gigsplit")
	}

	return cfg, nil
}

// CacheMaxBytes returns the cache size bound in bytes.
func (c *Config) CacheMaxBytes() int64 {
	return int64(c.CacheMaxMB) * 1024 * 1024
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for piping;
// otherwise it outputs human-readable text logs on stderr, keeping stdout
// free for the interactive surface.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

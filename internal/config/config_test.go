package config

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv() {
	os.Unsetenv("GIGSPLIT_OUTPUT_DIR")
	os.Unsetenv("GIGSPLIT_CACHE_DIR")
	os.Unsetenv("GIGSPLIT_CACHE_MAX_MB")
	os.Unsetenv("GIGSPLIT_NO_CACHE")
	os.Unsetenv("GIGSPLIT_SENSITIVITY_DB")
	os.Unsetenv("GIGSPLIT_SMOOTHING_SECONDS")
	os.Unsetenv("GIGSPLIT_MIN_SILENCE_SECONDS")
	os.Unsetenv("GIGSPLIT_MIN_SONG_SECONDS")
	os.Unsetenv("GIGSPLIT_LOG_FORMAT")
	os.Unsetenv("GIGSPLIT_LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 2048, cfg.CacheMaxMB)
	assert.False(t, cfg.NoCache)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.InDelta(t, -40.0, cfg.SensitivityDb, 1e-9)
	assert.InDelta(t, 5.0, cfg.SmoothingSeconds, 1e-9)
	assert.InDelta(t, 5.0, cfg.MinSilenceSeconds, 1e-9)
	assert.InDelta(t, 30.0, cfg.MinSongSeconds, 1e-9)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv()
	t.Setenv("GIGSPLIT_OUTPUT_DIR", "/music/out")
	t.Setenv("GIGSPLIT_CACHE_DIR", "/fast/cache")
	t.Setenv("GIGSPLIT_CACHE_MAX_MB", "512")
	t.Setenv("GIGSPLIT_SENSITIVITY_DB", "-55")
	t.Setenv("GIGSPLIT_MIN_SONG_SECONDS", "45")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/music/out", cfg.OutputDir)
	assert.Equal(t, "/fast/cache", cfg.CacheDir)
	assert.Equal(t, 512, cfg.CacheMaxMB)
	assert.InDelta(t, -55.0, cfg.SensitivityDb, 1e-9)
	assert.InDelta(t, 45.0, cfg.MinSongSeconds, 1e-9)
}

func TestCacheMaxBytes(t *testing.T) {
	cfg := &Config{CacheMaxMB: 2}
	assert.Equal(t, int64(2*1024*1024), cfg.CacheMaxBytes())
}

func TestNewLogger(t *testing.T) {
	t.Run("text logger by default", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})

	t.Run("debug level enables debug logs", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "debug"}
		logger := cfg.NewLogger()
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("warn level suppresses info", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "warn"}
		logger := cfg.NewLogger()
		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "WARN", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "bogus", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

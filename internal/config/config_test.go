package config

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv() {
	os.Unsetenv("MEDIA_ACTIONS_FFMPEG")
	os.Unsetenv("MEDIA_ACTIONS_JPEG_QUALITY")
	os.Unsetenv("MEDIA_ACTIONS_WEBP_LOSSLESS")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 100, cfg.JPEGQuality)
	assert.False(t, cfg.WebPLossless)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv()
	t.Setenv("MEDIA_ACTIONS_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("MEDIA_ACTIONS_JPEG_QUALITY", "85")
	t.Setenv("MEDIA_ACTIONS_WEBP_LOSSLESS", "true")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 85, cfg.JPEGQuality)
	assert.True(t, cfg.WebPLossless)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidQuality(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"zero", "0"},
		{"above 100", "101"},
		{"not a number", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			t.Setenv("MEDIA_ACTIONS_JPEG_QUALITY", tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	clearEnv()
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
}

func TestNewLogger_Format(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogFormat: "json", LogLevel: "info"}
		cfg.newLogger(&buf).Info("hello", "k", "v")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"k":"v"`)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		cfg.newLogger(&buf).Info("hello", "k", "v")
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "k=v")
	})
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogFormat: "text", LogLevel: "warn"}
	logger := cfg.newLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestString(t *testing.T) {
	cfg := &Config{FFmpegPath: "ffmpeg", JPEGQuality: 90, LogFormat: "text", LogLevel: "info"}
	s := cfg.String()
	assert.Contains(t, s, "FFmpegPath: ffmpeg")
	assert.Contains(t, s, "JPEGQuality: 90")
}

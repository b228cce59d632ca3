package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACTIVITYLOG_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "activitylog.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Segments.Dedup)
	require.Zero(t, cfg.Segments.Interval)
	require.Equal(t, "UTC", cfg.Timeline.Location)
	require.Equal(t, time.Minute, cfg.Telemetry.MetricInterval)
	require.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for level, want := range tests {
		require.Equal(t, want, LogConfig{Level: level}.SlogLevel(), level)
	}
}

func TestValidate_TelemetryInterval(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.MetricInterval = 0
	require.ErrorContains(t, cfg.Validate(), "metric interval")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /tmp/file.db
redis:
  url: redis://localhost:6379/0
  lock_ttl: 30s
segments:
  interval: 5m
  dedup: false
  workers: 2
timeline:
  location: Europe/Berlin
telemetry:
  enabled: true
  metric_interval: 15s
`), 0o600))

	t.Setenv("ACTIVITYLOG_CONFIG_PATH", path)
	t.Setenv("ACTIVITYLOG_DB_PATH", "/tmp/env.db")
	t.Setenv("ACTIVITYLOG_SEGMENTS_WORKERS", "8")
	t.Setenv("ACTIVITYLOG_TELEMETRY_ENDPOINT", "otel-collector:4318")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	require.Equal(t, "activitylog:segments:materialize", cfg.Redis.LockKey)
	require.Equal(t, 5*time.Minute, cfg.Segments.Interval)
	require.False(t, cfg.Segments.Dedup)
	require.Equal(t, 8, cfg.Segments.Workers)
	require.Equal(t, "Europe/Berlin", cfg.Timeline.Location)
	require.True(t, cfg.Telemetry.Enabled)
	require.Equal(t, "otel-collector:4318", cfg.Telemetry.Endpoint)
	require.Equal(t, 15*time.Second, cfg.Telemetry.MetricInterval)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ACTIVITYLOG_CONFIG_PATH", "")

	tests := map[string]string{
		"ACTIVITYLOG_SERVER_PORT":        "eighty",
		"ACTIVITYLOG_AUTH_ENABLED":       "maybe",
		"ACTIVITYLOG_SEGMENTS_INTERVAL":  "soon",
		"ACTIVITYLOG_TRANSPORT":          "carrier-pigeon",
		"ACTIVITYLOG_TIMELINE_LOCATION":  "Mars/Olympus",
		"ACTIVITYLOG_SEGMENTS_WORKERS":   "0",
		"ACTIVITYLOG_TELEMETRY_INSECURE": "sometimes",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ACTIVITYLOG_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

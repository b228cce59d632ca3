package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Segments  SegmentsConfig  `yaml:"segments"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel maps Level to a slog level; unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TransportConfig selects how the MCP tools are served: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RedisConfig enables the shared run lock when URL is set.
type RedisConfig struct {
	URL     string        `yaml:"url"`
	LockKey string        `yaml:"lock_key"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// SegmentsConfig controls segment materialization. An Interval of zero
// disables the in-process ticker.
type SegmentsConfig struct {
	Interval time.Duration `yaml:"interval"`
	Dedup    bool          `yaml:"dedup"`
	Workers  int           `yaml:"workers"`
}

// TimelineConfig holds the IANA location month buckets are computed in.
type TimelineConfig struct {
	Location string `yaml:"location"`
}

// TelemetryConfig controls OTel export. With no Endpoint, spans and metrics
// are written to stderr; otherwise they go to an OTLP/HTTP collector at
// Endpoint (host:port).
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	Insecure       bool          `yaml:"insecure"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "activitylog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Redis: RedisConfig{
			LockKey: "activitylog:segments:materialize",
			LockTTL: 5 * time.Minute,
		},
		Segments: SegmentsConfig{
			Dedup:   true,
			Workers: 4,
		},
		Timeline: TimelineConfig{
			Location: "UTC",
		},
		Telemetry: TelemetryConfig{
			MetricInterval: time.Minute,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ACTIVITYLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Segments.Interval < 0 {
		return fmt.Errorf("segments interval must not be negative")
	}
	if c.Segments.Workers < 1 {
		return fmt.Errorf("segments workers must be at least 1")
	}
	if _, err := time.LoadLocation(c.Timeline.Location); err != nil {
		return fmt.Errorf("invalid timeline location: %w", err)
	}
	if c.Telemetry.Enabled && c.Telemetry.MetricInterval <= 0 {
		return fmt.Errorf("telemetry metric interval must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("ACTIVITYLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ACTIVITYLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITYLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("ACTIVITYLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ACTIVITYLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("ACTIVITYLOG_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envBool("ACTIVITYLOG_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if url := os.Getenv("ACTIVITYLOG_REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if key := os.Getenv("ACTIVITYLOG_REDIS_LOCK_KEY"); key != "" {
		cfg.Redis.LockKey = key
	}
	if err := envDuration("ACTIVITYLOG_REDIS_LOCK_TTL", &cfg.Redis.LockTTL); err != nil {
		return err
	}
	if err := envDuration("ACTIVITYLOG_SEGMENTS_INTERVAL", &cfg.Segments.Interval); err != nil {
		return err
	}
	if err := envBool("ACTIVITYLOG_SEGMENTS_DEDUP", &cfg.Segments.Dedup); err != nil {
		return err
	}
	if workersStr := os.Getenv("ACTIVITYLOG_SEGMENTS_WORKERS"); workersStr != "" {
		workers, err := strconv.Atoi(workersStr)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITYLOG_SEGMENTS_WORKERS: %w", err)
		}
		cfg.Segments.Workers = workers
	}
	if loc := os.Getenv("ACTIVITYLOG_TIMELINE_LOCATION"); loc != "" {
		cfg.Timeline.Location = loc
	}
	if endpoint := os.Getenv("ACTIVITYLOG_TELEMETRY_ENDPOINT"); endpoint != "" {
		cfg.Telemetry.Endpoint = endpoint
	}
	if err := envBool("ACTIVITYLOG_TELEMETRY_INSECURE", &cfg.Telemetry.Insecure); err != nil {
		return err
	}
	if err := envDuration("ACTIVITYLOG_TELEMETRY_METRIC_INTERVAL", &cfg.Telemetry.MetricInterval); err != nil {
		return err
	}
	return envBool("ACTIVITYLOG_TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
}

func envBool(name string, dst *bool) error {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

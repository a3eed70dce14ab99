package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	// RateLimit is the number of requests per minute allowed per client.
	RateLimit int `yaml:"rate_limit"`
}

// DatabaseConfig selects the store. An empty URL keeps decisions in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// HermesConfig points at NATS. An empty URL disables event publishing.
type HermesConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	MaxIterations         int     `yaml:"max_iterations"`
	Tolerance             float64 `yaml:"tolerance"`
	ConsistencyThreshold  float64 `yaml:"consistency_threshold"`
	FallbackGeometricMean bool    `yaml:"fallback_geometric_mean"`
	StrictScale           bool    `yaml:"strict_scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Settings converts the engine section into decision settings.
func (e EngineConfig) Settings() decision.Settings {
	return decision.Settings{
		Priority: scoring.Options{
			MaxIterations: e.MaxIterations,
			Tolerance:     e.Tolerance,
			Fallback:      e.FallbackGeometricMean,
		},
		ConsistencyThreshold: e.ConsistencyThreshold,
		StrictScale:          e.StrictScale,
	}
}

// Validate rejects engine settings the numeric code cannot run with.
func (e EngineConfig) Validate() error {
	if err := e.Settings().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler builds the slog handler for the configured format.
func (l LoggingConfig) Handler(w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Engine: EngineConfig{
			MaxIterations:         100,
			Tolerance:             1e-10,
			ConsistencyThreshold:  scoring.DefaultConsistencyThreshold,
			FallbackGeometricMean: true,
			StrictScale:           false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AHP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("AHP_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("AHP_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("AHP_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("AHP_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("AHP_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("AHP_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxIterations = n
		}
	}
	if v := os.Getenv("AHP_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.Tolerance = f
		}
	}
	if v := os.Getenv("AHP_CONSISTENCY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.ConsistencyThreshold = f
		}
	}
	if v := os.Getenv("AHP_FALLBACK_GEOMETRIC_MEAN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.FallbackGeometricMean = b
		}
	}
	if v := os.Getenv("AHP_STRICT_SCALE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.StrictScale = b
		}
	}
	if v := os.Getenv("AHP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AHP_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

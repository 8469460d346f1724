// Package config loads server settings from the environment. A .env file in
// the working directory is read first if one exists; variables already set
// in the environment win over it.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage and ledger backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds every server setting
type Config struct {
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	LedgerType  string `env:"LEDGER_TYPE" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret       string        `env:"JWT_SECRET"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"24h"`

	LobbyID       string        `env:"LOBBY_ID" envDefault:"main"`
	Stake         int64         `env:"STAKE" envDefault:"0"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5s"`

	AdminToken    string `env:"ADMIN_TOKEN"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
}

// Load reads .env (if present) and parses the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	switch c.StorageType {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", BackendRedis)
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be %q or %q", c.StorageType, BackendMemory, BackendRedis)
	}

	switch c.LedgerType {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required when LEDGER_TYPE=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("invalid LEDGER_TYPE %q: must be %q or %q", c.LedgerType, BackendMemory, BackendPostgres)
	}

	if c.Stake < 0 {
		return fmt.Errorf("STAKE must not be negative, got %d", c.Stake)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

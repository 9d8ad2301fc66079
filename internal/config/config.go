// Package config provides server and CLI configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Scoring strategies accepted by Config.Scoring.
const (
	ScoringRules = "rules"
	ScoringLLM   = "llm"
)

// Config holds all application configuration.
type Config struct {
	Addr            string
	DBPath          string
	Retention       time.Duration
	IdleTimeout     time.Duration
	JanitorInterval time.Duration
	Scoring         string
	LogLevel        string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		Retention:       10 * time.Minute,
		IdleTimeout:     2 * time.Hour,
		JanitorInterval: time.Minute,
		Scoring:         ScoringRules,
		LogLevel:        "info",
	}
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// Load reads configuration from RUBBERDUCK_* environment variables over
// the defaults. An empty DB path is left for the caller to resolve.
func Load() (*Config, error) {
	d := Default()
	cfg := &Config{
		Addr:     getEnv("RUBBERDUCK_ADDR", d.Addr),
		DBPath:   getEnv("RUBBERDUCK_DB", ""),
		Scoring:  strings.ToLower(getEnv("RUBBERDUCK_SCORING", d.Scoring)),
		LogLevel: strings.ToLower(getEnv("RUBBERDUCK_LOG_LEVEL", d.LogLevel)),
	}

	var err error
	if cfg.Retention, err = getEnvDuration("RUBBERDUCK_RETENTION", d.Retention); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = getEnvDuration("RUBBERDUCK_IDLE_TIMEOUT", d.IdleTimeout); err != nil {
		return nil, err
	}
	if cfg.JanitorInterval, err = getEnvDuration("RUBBERDUCK_JANITOR_INTERVAL", d.JanitorInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("RUBBERDUCK_ADDR cannot be empty")
	}
	if c.Retention < 0 {
		return fmt.Errorf("RUBBERDUCK_RETENTION must be >= 0")
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("RUBBERDUCK_IDLE_TIMEOUT must be >= 0")
	}
	if c.JanitorInterval < 0 {
		return fmt.Errorf("RUBBERDUCK_JANITOR_INTERVAL must be >= 0")
	}
	switch c.Scoring {
	case ScoringRules, ScoringLLM:
	default:
		return fmt.Errorf("RUBBERDUCK_SCORING must be %q or %q, got %q", ScoringRules, ScoringLLM, c.Scoring)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("RUBBERDUCK_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

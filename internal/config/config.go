// Package config loads agent settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Defaults applied when the environment is silent.
const (
	DefaultLevel    = 7
	DefaultLogLevel = "info"
)

// Config holds everything the agent needs from its environment. The
// convention level is threaded explicitly into the agent; nothing reads it
// globally.
type Config struct {
	// Level is the convention level the table has agreed on.
	Level int
	// ServerURL, when set, switches the CLI into websocket client mode.
	ServerURL string
	LogLevel  logrus.Level
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should participate.
func Load() (*Config, error) {
	cfg := &Config{Level: DefaultLevel}

	if v := os.Getenv("HANAB_LEVEL"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing HANAB_LEVEL: %w", err)
		}
		if level < 1 {
			return nil, fmt.Errorf("HANAB_LEVEL must be at least 1, got %d", level)
		}
		cfg.Level = level
	}

	cfg.ServerURL = os.Getenv("HANAB_SERVER_URL")

	raw := os.Getenv("HANAB_LOG_LEVEL")
	if raw == "" {
		raw = DefaultLogLevel
	}
	logLevel, err := logrus.ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing HANAB_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = logLevel

	return cfg, nil
}

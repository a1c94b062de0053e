// Package config loads steel-wayback settings from the environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/pfrederiksen/steel-wayback/internal/logger"
	"github.com/pfrederiksen/steel-wayback/internal/wayback"
)

// Config holds the archive endpoints and run settings
type Config struct {
	CDXURL      string
	ArchiveHost string
	TargetURL   string
	UserAgent   string
	HTTPTimeout time.Duration
	CDXLimit    int
	LogLevel    logger.Level
}

// Load reads configuration from the environment, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file", nil)
	}

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", wayback.Timeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive, got %s", timeout)
	}

	limit, err := getenvInt("CDX_LIMIT", wayback.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid CDX_LIMIT: %w", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("invalid CDX_LIMIT: must be positive, got %d", limit)
	}

	level, err := logger.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		CDXURL:      getenvDefault("WAYBACK_CDX_URL", wayback.CDXURL),
		ArchiveHost: getenvDefault("WAYBACK_HOST", wayback.ArchiveHost),
		TargetURL:   getenvDefault("STEEL_TARGET_URL", wayback.TargetURL),
		UserAgent:   getenvDefault("USER_AGENT", wayback.UserAgent),
		HTTPTimeout: timeout,
		CDXLimit:    limit,
		LogLevel:    level,
	}, nil
}

// ClientOptions maps the config onto wayback client options
func (c *Config) ClientOptions() wayback.Options {
	return wayback.Options{
		CDXURL:      c.CDXURL,
		ArchiveHost: c.ArchiveHost,
		Target:      c.TargetURL,
		UserAgent:   c.UserAgent,
		Timeout:     c.HTTPTimeout,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

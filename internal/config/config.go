// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"QW_DB_PATH" envDefault:"./data/quickweb.db"`
	SessionSecret string `env:"QW_SESSION_SECRET,required"`
	ServerHost    string `env:"QW_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"QW_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"QW_ENV" envDefault:"development"`
	LogLevel      string `env:"QW_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL  string `env:"QW_REDIS_URL"`                         // Optional Redis URL for the render cache
	CacheTTL  int    `env:"QW_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	BackupDir string `env:"QW_BACKUP_DIR" envDefault:"./backups"` // Nightly storage snapshot directory

	// AuthDelay is the simulated network latency on sign-in/sign-up, in
	// milliseconds. Tests set it to 0.
	AuthDelayMS int `env:"QW_AUTH_DELAY_MS" envDefault:"500"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AuthDelay returns the simulated auth latency as a duration.
func (c Config) AuthDelay() time.Duration {
	return time.Duration(c.AuthDelayMS) * time.Millisecond
}

// MinSessionSecretLength is the minimum length accepted for the session secret.
const MinSessionSecretLength = 32

const secretHint = "generate one with: openssl rand -base64 32"

// Load parses environment variables and validates the session secret.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validateSecret(cfg.SessionSecret); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateSecret(secret string) error {
	if len(secret) < MinSessionSecretLength {
		return fmt.Errorf("QW_SESSION_SECRET must be at least %d bytes, got %d; %s",
			MinSessionSecretLength, len(secret), secretHint)
	}
	if slices.Contains(knownWeakSecrets, secret) {
		return fmt.Errorf("QW_SESSION_SECRET is a known default value; %s", secretHint)
	}
	if !hasMinimumEntropy(secret) {
		slog.Warn("QW_SESSION_SECRET has low character diversity; " + secretHint)
	}
	return nil
}

// hasMinimumEntropy reports whether the secret draws from at least three of
// the four character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "Xk9mP2vQ8rT5wY1zA4bC7dE0fG3hJ6nL"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QW_SESSION_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/quickweb.db", cfg.DBPath)
	assert.Equal(t, "localhost", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3600, cfg.CacheTTL)
	assert.Equal(t, 500, cfg.AuthDelayMS)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseRedisCache())
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.Equal(t, 500*time.Millisecond, cfg.AuthDelay())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QW_SERVER_HOST", "0.0.0.0")
	t.Setenv("QW_SERVER_PORT", "9000")
	t.Setenv("QW_ENV", "production")
	t.Setenv("QW_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("QW_AUTH_DELAY_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.ServerAddr())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.UseRedisCache())
	assert.Zero(t, cfg.AuthDelay())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("QW_SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("QW_SESSION_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestLoad_KnownWeakSecret(t *testing.T) {
	t.Setenv("QW_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known default")
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"mixed classes", "Abc123!@#xyzAbc123!@#xyzAbc123!!", true},
		{"lower and digits only", "abc123abc123abc123abc123abc12312", false},
		{"lowercase only", "abcdefghijklmnopqrstuvwxyzabcdef", false},
		{"upper lower digit", testSecret, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasMinimumEntropy(tt.secret))
		})
	}
}

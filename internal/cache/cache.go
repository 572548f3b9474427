// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides a small byte-value cache used for rendered content
// (sanitized legal HTML, markdown sections). Backends: in-process memory, or
// Redis when configured, with a memory fallback if Redis is unreachable.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache: miss")

// ErrCacheClosed is returned after Close.
var ErrCacheClosed = errors.New("cache: closed")

// Cacher is the backend interface.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Config selects and tunes the backend.
type Config struct {
	RedisURL   string // empty selects the memory backend
	DefaultTTL time.Duration
}

// New returns a Cacher for the given config. When Redis is configured but
// unreachable it falls back to memory and logs a warning rather than
// failing startup.
func New(cfg Config) Cacher {
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(cfg.RedisURL, cfg.DefaultTTL)
		if err == nil {
			return c
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
	}
	return NewMemoryCache(cfg.DefaultTTL)
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage implements the string-keyed JSON blob store backing the
// session and content stores. Each key holds one independently loaded and
// saved JSON document, the way browser local storage holds one string per
// key. Watchers model the cross-tab storage event: a subscriber is notified
// whenever another writer changes the key it watches.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// Persisted storage keys. Each is an independent JSON document; corruption
// under one key must never block the others from loading.
const (
	KeySessionUser  = "session-user"
	KeyUserRoster   = "user-roster"
	KeyServices     = "services"
	KeyTestimonials = "testimonials"
	KeyOrders       = "orders"
	KeyMessages     = "messages"
	KeySiteContent  = "site-content"
	KeyAboutContent = "about-content"
	KeyFooterLinks  = "footer-links"
	KeyLegalContent = "legal-content"
	KeyEvents       = "events"
)

// ErrNoKey is returned by Get when the key has never been written.
var ErrNoKey = errors.New("storage: key not found")

// ErrCorrupt wraps JSON decode failures so callers can fall back to the
// default for that one key without treating the store as broken.
var ErrCorrupt = errors.New("storage: corrupt document")

// NewDB opens a SQLite database connection and configures it for optimal performance.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Configure SQLite for better performance and concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA busy_timeout=5000",  // Wait 5s when database is locked
		"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
		"PRAGMA foreign_keys=ON",    // Enforce foreign key constraints
		"PRAGMA temp_store=MEMORY",  // Store temp tables in memory
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Store is a string-keyed JSON blob store. All methods are safe for
// concurrent use; writes are last-write-wins with no conflict detection.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	watchers map[string][]*watcher
}

type watcher struct {
	key string
	fn  func()
}

// New creates a Store on an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		watchers: make(map[string][]*watcher),
	}
}

// DB exposes the underlying database, shared with the HTTP session store.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Get returns the raw JSON document stored under key, or ErrNoKey.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoKey
	}
	if err != nil {
		return "", fmt.Errorf("reading storage key %q: %w", key, err)
	}
	return value, nil
}

// Set writes the raw JSON document under key, replacing any previous value,
// and notifies watchers of that key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now())
	if err != nil {
		return fmt.Errorf("writing storage key %q: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing storage key %q: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Keys returns all stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing storage keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning storage key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Watch registers fn to run after every write or removal of key, from a
// separate goroutine. The returned function cancels the subscription.
// Delivery is best-effort with no ordering guarantee between rapid writes.
func (s *Store) Watch(key string, fn func()) (cancel func()) {
	w := &watcher{key: key, fn: fn}

	s.mu.Lock()
	s.watchers[key] = append(s.watchers[key], w)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.watchers[key]
		for i, cur := range list {
			if cur == w {
				s.watchers[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	list := make([]*watcher, len(s.watchers[key]))
	copy(list, s.watchers[key])
	s.mu.Unlock()

	for _, w := range list {
		go w.fn()
	}
}

// LoadJSON decodes the document under key into out. A missing key returns
// ErrNoKey; corrupt JSON returns the decode error so the caller can fall back
// to its default for this key alone.
func LoadJSON[T any](ctx context.Context, s *Store, key string, out *T) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding storage key %q: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/azizabboud/quickweb-go/internal/storage"
)

// TestLogger returns a logger that stays quiet below warning level.
func TestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// TestDB opens a migrated database in the test's temp directory and
// registers its cleanup on the test.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "quickweb-test.db")
	db, err := storage.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestStorage creates a storage layer over a temporary database.
func TestStorage(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(TestDB(t))
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: nightly snapshots of
// the content store and pruning of the event log.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/azizabboud/quickweb-go/internal/logging"
	"github.com/azizabboud/quickweb-go/internal/storage"
)

// EventMaxAge is how long event log entries are retained.
const EventMaxAge = 7 * 24 * time.Hour

// Scheduler owns the cron instance and its job dependencies.
type Scheduler struct {
	cron      *cron.Cron
	storage   *storage.Store
	backupDir string
}

// New creates a scheduler writing snapshots under backupDir.
func New(st *storage.Store, backupDir string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		storage:   st,
		backupDir: backupDir,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Daily at 02:30: snapshot every storage key to a dated JSON file
	if _, err := s.cron.AddFunc("30 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.Snapshot(ctx); err != nil {
			slog.Error("storage snapshot failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("registering snapshot job: %w", err)
	}

	// Hourly at minute 10: drop event log entries past retention
	if _, err := s.cron.AddFunc("10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := logging.Prune(ctx, s.storage, EventMaxAge); err != nil {
			slog.Error("event log prune failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("registering prune job: %w", err)
	}

	s.cron.Start()
	slog.Debug("scheduler started", "backup_dir", s.backupDir)
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Snapshot writes every storage key's JSON document into a dated
// directory under the backup dir. Each key becomes one file, so a
// snapshot can be inspected or restored per collection.
func (s *Scheduler) Snapshot(ctx context.Context) error {
	keys, err := s.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("listing storage keys: %w", err)
	}

	dir := filepath.Join(s.backupDir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	for _, key := range keys {
		value, err := s.storage.Get(ctx, key)
		if err != nil {
			slog.Warn("skipping key in snapshot", "key", key, "error", err)
			continue
		}

		// Re-indent so snapshots are diffable by hand
		var pretty json.RawMessage = []byte(value)
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			out = []byte(value)
		}

		path := filepath.Join(dir, key+".json")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("writing snapshot %s: %w", path, err)
		}
	}

	slog.Info("storage snapshot written", "dir", dir, "keys", len(keys))
	return nil
}

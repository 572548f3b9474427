// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store implements the two application state containers: the session
// store (visitor identity and user roster) and the content store (site
// content, catalog, orders, messages). Both follow the same lifecycle: seed
// defaults, hydrate from storage, expose mutators, persist on every change.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/storage"
)

// DefaultAuthDelay is the fixed artificial latency applied to sign-in and
// sign-up, standing in for a network round-trip. It never simulates failure.
const DefaultAuthDelay = 500 * time.Millisecond

// SessionStore owns the current visitor identity and the registered-user
// roster. Operations are sequential with no overlap protection: two
// concurrent sign-ins race freely and the later write wins.
type SessionStore struct {
	storage *storage.Store
	delay   time.Duration

	mu      sync.Mutex
	current *model.User
	roster  []model.UserWithSecret
	loading bool
}

// NewSessionStore creates the store and hydrates it from storage. When no
// persisted roster exists, storage is seeded with the default roster
// (exactly one admin). Malformed persisted data is discarded, never fatal.
func NewSessionStore(ctx context.Context, st *storage.Store, delay time.Duration) (*SessionStore, error) {
	s := &SessionStore{
		storage: st,
		delay:   delay,
		loading: true,
	}
	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return s, nil
}

func (s *SessionStore) hydrate(ctx context.Context) error {
	var roster []model.UserWithSecret
	err := storage.LoadJSON(ctx, s.storage, storage.KeyUserRoster, &roster)
	switch {
	case errors.Is(err, storage.ErrNoKey):
		roster = DefaultRoster()
		if err := storage.SaveJSON(ctx, s.storage, storage.KeyUserRoster, roster); err != nil {
			return err
		}
	case errors.Is(err, storage.ErrCorrupt):
		slog.Warn("discarding corrupt persisted roster", "error", err)
		roster = DefaultRoster()
	case err != nil:
		return err
	}

	var current model.User
	err = storage.LoadJSON(ctx, s.storage, storage.KeySessionUser, &current)
	switch {
	case errors.Is(err, storage.ErrNoKey):
		// No active session.
	case errors.Is(err, storage.ErrCorrupt):
		slog.Warn("discarding corrupt persisted session", "error", err)
		if err := s.storage.Remove(ctx, storage.KeySessionUser); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		s.current = &current
	}

	s.roster = roster
	return nil
}

// Loading reports whether initial hydration is still in progress.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// CurrentUser returns the signed-in user, or nil.
func (s *SessionStore) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Roster returns a copy of the registered-user roster.
func (s *SessionStore) Roster() []model.UserWithSecret {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.UserWithSecret, len(s.roster))
	copy(out, s.roster)
	return out
}

// UserByID looks up a roster entry by id and returns it without the
// password field.
func (s *SessionStore) UserByID(id string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.roster {
		if u.ID == id {
			return u.Strip(), true
		}
	}
	return model.User{}, false
}

// ReloadRoster re-reads the persisted roster, overwriting the in-memory copy.
// Last write wins; there is no conflict detection.
func (s *SessionStore) ReloadRoster(ctx context.Context) error {
	var roster []model.UserWithSecret
	err := storage.LoadJSON(ctx, s.storage, storage.KeyUserRoster, &roster)
	switch {
	case errors.Is(err, storage.ErrNoKey), errors.Is(err, storage.ErrCorrupt):
		return nil
	case err != nil:
		return err
	}
	s.mu.Lock()
	s.roster = roster
	s.mu.Unlock()
	return nil
}

// SignIn scans the roster for an exact email and password match and returns
// the matched record. It reports false for unknown credentials and for
// deactivated accounts; no partial session is ever created. Callers must
// use the returned user, not CurrentUser, to identify who signed in: the
// current slot is shared and another sign-in may overwrite it at any time.
// The artificial delay models a network round-trip.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (model.User, bool, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return model.User{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.roster {
		if u.Email != email || u.Password != password {
			continue
		}
		if !u.Active {
			slog.Debug("sign-in rejected for deactivated account", "email", email)
			return model.User{}, false, nil
		}
		user := u.Strip()
		if err := storage.SaveJSON(ctx, s.storage, storage.KeySessionUser, user); err != nil {
			return model.User{}, false, err
		}
		s.current = &user
		slog.Info("user signed in", "user_id", user.ID, "email", user.Email)
		return user, true, nil
	}

	slog.Debug("sign-in failed: no credential match", "email", email)
	return model.User{}, false, nil
}

// SignUp registers a new account, signs it in, and returns the new record;
// signup and first login are atomic from the caller's perspective. It
// reports false when the email is already taken (case-sensitive exact
// match). As with SignIn, the returned user is the caller's identity.
func (s *SessionStore) SignUp(ctx context.Context, username, email, password string) (model.User, bool, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return model.User{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.roster {
		if u.Email == email {
			slog.Debug("sign-up rejected: email already registered", "email", email)
			return model.User{}, false, nil
		}
	}

	rec := model.UserWithSecret{
		ID:       newID("user"),
		Username: username,
		Email:    email,
		Password: password,
		Role:     model.RoleUser,
		Active:   true,
	}
	roster := append(s.roster, rec)
	if err := storage.SaveJSON(ctx, s.storage, storage.KeyUserRoster, roster); err != nil {
		return model.User{}, false, err
	}

	user := rec.Strip()
	if err := storage.SaveJSON(ctx, s.storage, storage.KeySessionUser, user); err != nil {
		return model.User{}, false, err
	}

	s.roster = roster
	s.current = &user
	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return user, true, nil
}

// SignOut clears the current user and removes the persisted session record.
// It never touches the roster.
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(ctx, storage.KeySessionUser); err != nil {
		return err
	}
	if s.current != nil {
		slog.Info("user signed out", "user_id", s.current.ID)
	}
	s.current = nil
	return nil
}

func (s *SessionStore) simulateLatency(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/azizabboud/quickweb-go/internal/store"
	"github.com/azizabboud/quickweb-go/internal/testutil"
)

func newTestHealthHandler(t *testing.T) (*HealthHandler, *scs.SessionManager) {
	t.Helper()
	db := testutil.TestDB(t)
	st := testutil.TestStorage(t)

	sessions, err := store.NewSessionStore(context.Background(), st, 0)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	sm := scs.New()
	return NewHealthHandler(db, sm, sessions), sm
}

func TestHealth_Anonymous(t *testing.T) {
	h, sm := newTestHealthHandler(t)

	handler := sm.LoadAndSave(http.HandlerFunc(h.Health))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	// Anonymous callers never see check details.
	if _, ok := body["checks"]; ok {
		t.Error("anonymous health response includes checks")
	}
	if _, ok := body["system"]; ok {
		t.Error("anonymous health response includes system info")
	}
}

func TestLiveness(t *testing.T) {
	h, _ := newTestHealthHandler(t)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("status field = %q, want alive", body["status"])
	}
}

func TestReadiness(t *testing.T) {
	h, sm := newTestHealthHandler(t)

	handler := sm.LoadAndSave(http.HandlerFunc(h.Readiness))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ready" {
		t.Errorf("status field = %q, want ready", body["status"])
	}
}

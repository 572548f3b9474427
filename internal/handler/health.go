// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// HealthHandler serves the health and probe endpoints. Anonymous callers
// only learn the overall status; admins get per-check results.
type HealthHandler struct {
	db        *sql.DB
	sm        *scs.SessionManager
	sessions  *store.SessionStore
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, sessions *store.SessionStore) *HealthHandler {
	return &HealthHandler{
		db:        db,
		sm:        sm,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

type healthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type healthReport struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]healthCheck `json:"checks"`
	System    *systemInfo            `json:"system,omitempty"`
}

type systemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.pingDatabase()

	status, code := "healthy", http.StatusOK
	if dbCheck.Status != "healthy" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	if !h.isAdmin(r) {
		writeJSON(w, code, map[string]string{"status": status})
		return
	}

	report := healthReport{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    map[string]healthCheck{"database": dbCheck},
	}
	if r.URL.Query().Get("verbose") == "true" {
		report.System = collectSystemInfo()
	}
	writeJSON(w, code, report)
}

// Liveness handles GET /health/live. It answers as long as the process
// can serve requests at all.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Unlike liveness it requires the
// database to be reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.pingDatabase()
	if dbCheck.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	// Failure details stay admin-only.
	if h.isAdmin(r) {
		resp["message"] = dbCheck.Message
	}
	writeJSON(w, http.StatusServiceUnavailable, resp)
}

func (h *HealthHandler) pingDatabase() healthCheck {
	start := time.Now()
	if err := h.db.Ping(); err != nil {
		return healthCheck{Status: "unhealthy", Message: err.Error()}
	}
	return healthCheck{
		Status:  "healthy",
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
}

// isAdmin reports whether the request carries an active admin session.
// SCS panics when its middleware has not loaded the session into the
// context, so the probe endpoints recover and report anonymous instead.
func (h *HealthHandler) isAdmin(r *http.Request) (admin bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			admin = false
		}
	}()

	userID := h.sm.GetString(r.Context(), session.KeyUserID)
	if userID == "" {
		return false
	}
	user, ok := h.sessions.UserByID(userID)
	return ok && user.IsAdmin() && user.Active
}

func collectSystemInfo() *systemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &systemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

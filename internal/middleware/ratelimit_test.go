// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthRateLimit_PostLimited(t *testing.T) {
	rl := NewAuthRateLimit(0.1, 2)
	defer rl.Close()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/signin", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 passes, the third is rejected.
	if code := post(); code != http.StatusOK {
		t.Errorf("first POST status = %d, want %d", code, http.StatusOK)
	}
	if code := post(); code != http.StatusOK {
		t.Errorf("second POST status = %d, want %d", code, http.StatusOK)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("third POST status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestAuthRateLimit_GetUnlimited(t *testing.T) {
	rl := NewAuthRateLimit(0.1, 1)
	defer rl.Close()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/signin", nil)
		req.RemoteAddr = "192.0.2.2:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}
}

func TestAuthRateLimit_PerIP(t *testing.T) {
	rl := NewAuthRateLimit(0.1, 1)
	defer rl.Close()

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post("192.0.2.10:1"); code != http.StatusOK {
		t.Errorf("first IP status = %d, want %d", code, http.StatusOK)
	}
	if code := post("192.0.2.10:1"); code != http.StatusTooManyRequests {
		t.Errorf("first IP second POST status = %d, want %d", code, http.StatusTooManyRequests)
	}
	// A different IP has its own budget.
	if code := post("192.0.2.11:1"); code != http.StatusOK {
		t.Errorf("second IP status = %d, want %d", code, http.StatusOK)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr only", nil, "203.0.113.1:4000", "203.0.113.1:4000"},
		{"x-real-ip wins", map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"}, "203.0.113.1:4000", "198.51.100.1"},
		{"x-forwarded-for fallback", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "203.0.113.1:4000", "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	for _, k := range []string{"a", "b", "c"} {
		lc.get(k)
	}
	if cleared := lc.clearIfExceeds(10); cleared {
		t.Error("clearIfExceeds(10) = true with 3 entries")
	}
	if cleared := lc.clearIfExceeds(2); !cleared {
		t.Error("clearIfExceeds(2) = false with 3 entries")
	}

	// Same key gets a fresh limiter after a clear.
	if lc.get("a") == nil {
		t.Error("get() after clear = nil")
	}
}

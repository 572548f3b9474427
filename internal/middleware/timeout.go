// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout bounds each request with a deadline. A handler that has not
// produced a response by then gets its context cancelled and the client
// receives a 503. A handler that already started writing wins the race
// and its response stands.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			guarded := &guardedWriter{ResponseWriter: w}
			finished := make(chan struct{})

			go func() {
				defer close(finished)
				next.ServeHTTP(guarded, r.WithContext(ctx))
			}()

			select {
			case <-finished:
			case <-ctx.Done():
				guarded.mu.Lock()
				defer guarded.mu.Unlock()
				if !guarded.started {
					guarded.started = true
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("Request timeout"))
				}
			}
		})
	}
}

// guardedWriter serializes writes so a timed-out request and its handler
// goroutine cannot both emit a response.
type guardedWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	started bool
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		g.started = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(b)
}

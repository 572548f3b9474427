// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware holds the HTTP middleware stack: authentication,
// security headers, CSRF, rate limiting, and request context plumbing.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// ContextKey names values this package stores in the request context.
type ContextKey string

const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Auth redirects requests without a signed-in session to the sign-in page.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), session.KeyUserID) == "" {
				http.Redirect(w, r, "/signin", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser resolves the session user against the roster and puts the
// record into the request context. A session pointing at a deleted or
// deactivated user is destroyed and the request continues anonymously,
// so deactivation takes effect on the user's next request.
func LoadUser(sm *scs.SessionManager, sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), session.KeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := sessions.UserByID(userID)
			if !ok || !user.Active {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the user loaded by LoadUser, or nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's id, or "" for anonymous requests.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// GetUserEmail returns the current user's email, or "" for anonymous requests.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// RequestPath stashes the request path in the context so the event log
// can record which URL an error came from.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath returns the path stored by RequestPath, or "".
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// RequireAdmin rejects non-admin users with 403 and sends anonymous
// requests to the sign-in page. Must run after LoadUser.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/signin", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin() {
				slog.Warn("admin area denied",
					"user_id", user.ID,
					"role", user.Role,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// AuthHandler handles the sign-in, sign-up and sign-out routes.
type AuthHandler struct {
	sessions       *store.SessionStore
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *store.SessionStore, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		sessions:       sessions,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// SignInForm renders the sign-in page. Already-authenticated users are
// redirected: admins to the panel, everyone else to the homepage.
func (h *AuthHandler) SignInForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		if user.IsAdmin() {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/signin", render.TemplateData{
		Title: "Sign In",
	}); err != nil {
		logAndInternalError(w, "render signin", "error", err)
	}
}

// SignIn handles the sign-in form submission.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignIn) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectSignIn, "Email and password are required")
		return
	}

	// The returned record is this request's identity; the store's
	// current-user slot is shared and may already belong to someone else.
	user, ok, err := h.sessions.SignIn(r.Context(), email, password)
	if err != nil {
		logAndInternalError(w, "sign-in failed", "error", err)
		return
	}
	if !ok {
		slog.Debug("sign-in rejected", "email", email)
		flashError(w, r, h.renderer, redirectSignIn, "Invalid email or password")
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)
	h.renderer.SetFlash(r, "Welcome back, "+user.Username+"!", "success")

	if user.IsAdmin() {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// SignUpForm renders the sign-up page.
func (h *AuthHandler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/signup", render.TemplateData{
		Title: "Sign Up",
	}); err != nil {
		logAndInternalError(w, "render signup", "error", err)
	}
}

// SignUp handles the sign-up form submission. A successful registration
// signs the new user in immediately.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignUp) {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if username == "" || email == "" || password == "" {
		flashError(w, r, h.renderer, redirectSignUp, "All fields are required")
		return
	}

	user, ok, err := h.sessions.SignUp(r.Context(), username, email, password)
	if err != nil {
		logAndInternalError(w, "sign-up failed", "error", err)
		return
	}
	if !ok {
		flashError(w, r, h.renderer, redirectSignUp, "An account with this email already exists")
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome to QuickWeb Creations, "+user.Username+"!")
}

// ForgotPasswordForm renders the forgot-password page.
func (h *AuthHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "auth/forgot-password", render.TemplateData{
		Title: "Forgot Password",
	}); err != nil {
		logAndInternalError(w, "render forgot-password", "error", err)
	}
}

// ForgotPassword acknowledges the request without revealing whether the
// email exists. There is no mail delivery; the page always shows the
// same confirmation.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteForgotPassword) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		flashError(w, r, h.renderer, RouteForgotPassword, "Email is required")
		return
	}

	slog.Info("password reset requested", "email", email)
	flashSuccess(w, r, h.renderer, RouteSignIn,
		"If an account with that email exists, password reset instructions have been sent.")
}

// Logout signs the user out and destroys the HTTP session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetString(r.Context(), session.KeyUserID)

	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("sign-out failed", "error", err)
	}
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user signed out", "user_id", userID)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

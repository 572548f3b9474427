// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/azizabboud/quickweb-go/internal/render"
)

// redirectWithFlash stores a flash of the given type and answers 303 so the
// browser re-requests the target with GET.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, kind string) {
	renderer.SetFlash(r, message, kind)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	redirectWithFlash(w, r, renderer, url, message, "error")
}

func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	redirectWithFlash(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form, bouncing back to redirectURL
// with an error flash when the body is malformed. Reports whether parsing
// succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError records the failure and answers a plain 500. Used when
// rendering or persistence fails and there is no page left to show.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public site, the
// ordering flow, the auth pages and the admin panel.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/azizabboud/quickweb-go/internal/cache"
	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// Cache keys for rendered legal pages.
const (
	cacheKeyPrivacy = "page:privacy"
	cacheKeyTerms   = "page:terms"
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	content  *store.ContentStore
	renderer *render.Renderer
	cache    cache.Cacher
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(content *store.ContentStore, renderer *render.Renderer, c cache.Cacher) *FrontendHandler {
	return &FrontendHandler{
		content:  content,
		renderer: renderer,
		cache:    c,
	}
}

// InvalidateLegalCache drops the cached legal pages. Wired to the content
// store's change hook so admin edits show up immediately.
func (h *FrontendHandler) InvalidateLegalCache(ctx context.Context) {
	_ = h.cache.Delete(ctx, cacheKeyPrivacy)
	_ = h.cache.Delete(ctx, cacheKeyTerms)
}

// baseData assembles the chrome every public page shares.
func (h *FrontendHandler) baseData(r *http.Request, title string) render.TemplateData {
	return render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Site:   h.content.SiteContent(),
		Footer: h.content.FooterLinks(),
	}
}

// Home renders the landing page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "QuickWeb Creations")
	data.Data = map[string]any{
		"Services":     h.content.Services(),
		"Testimonials": h.content.Testimonials(),
	}

	if err := h.renderer.Render(w, r, "pages/home", data); err != nil {
		logAndInternalError(w, "render home", "error", err)
	}
}

// Services renders the services listing.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "Our Services")
	data.Data = map[string]any{
		"Services": h.content.Services(),
	}

	if err := h.renderer.Render(w, r, "pages/services", data); err != nil {
		logAndInternalError(w, "render services", "error", err)
	}
}

// Pricing renders the pricing page. Plans are the same records as
// services; the page presents the price and delivery details.
func (h *FrontendHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "Pricing")
	data.Data = map[string]any{
		"Services": h.content.Services(),
	}

	if err := h.renderer.Render(w, r, "pages/pricing", data); err != nil {
		logAndInternalError(w, "render pricing", "error", err)
	}
}

// About renders the about page with the team roster and custom sections.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "About Us")
	data.Data = map[string]any{
		"About": h.content.AboutContent(),
	}

	if err := h.renderer.Render(w, r, "pages/about", data); err != nil {
		logAndInternalError(w, "render about", "error", err)
	}
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "pages/contact", h.baseData(r, "Contact Us")); err != nil {
		logAndInternalError(w, "render contact", "error", err)
	}
}

// Contact handles the contact form submission and stores the message for
// the admin inbox.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContact) {
		return
	}

	msg := model.Message{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}

	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		flashError(w, r, h.renderer, redirectContact, "Name, email and message are required")
		return
	}

	if _, err := h.content.AddMessage(r.Context(), msg); err != nil {
		logAndInternalError(w, "store contact message", "error", err)
		return
	}

	slog.Info("contact message received", "email", msg.Email)
	flashSuccess(w, r, h.renderer, redirectContact, "Thanks for reaching out! We'll get back to you soon.")
}

// Privacy renders the privacy policy.
func (h *FrontendHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	h.legalPage(w, r, cacheKeyPrivacy, "Privacy Policy", func(c model.LegalContent) string {
		return c.PrivacyPolicy
	})
}

// Terms renders the terms of service.
func (h *FrontendHandler) Terms(w http.ResponseWriter, r *http.Request) {
	h.legalPage(w, r, cacheKeyTerms, "Terms of Service", func(c model.LegalContent) string {
		return c.TermsOfService
	})
}

// legalPage renders one of the stored legal HTML documents, caching the
// sanitized markup between content edits.
func (h *FrontendHandler) legalPage(w http.ResponseWriter, r *http.Request, cacheKey, title string, pick func(model.LegalContent) string) {
	var body string
	if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
		body = string(cached)
	} else {
		body = string(h.renderer.Sanitize(pick(h.content.LegalContent())))
		if err := h.cache.Set(r.Context(), cacheKey, []byte(body), time.Hour); err != nil {
			slog.Debug("legal page cache write failed", "key", cacheKey, "error", err)
		}
	}

	data := h.baseData(r, title)
	data.Data = map[string]any{
		"Body": body,
	}

	if err := h.renderer.Render(w, r, "pages/legal", data); err != nil {
		logAndInternalError(w, "render legal page", "error", err)
	}
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "pages/404", h.baseData(r, "Page Not Found")); err != nil {
		logAndInternalError(w, "render 404", "error", err)
	}
}

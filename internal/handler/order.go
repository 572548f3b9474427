// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// OrderHandler handles the service ordering flow. All routes require a
// signed-in user.
type OrderHandler struct {
	content  *store.ContentStore
	renderer *render.Renderer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(content *store.ContentStore, renderer *render.Renderer) *OrderHandler {
	return &OrderHandler{
		content:  content,
		renderer: renderer,
	}
}

// OrderForm renders the order form. The optional {type} URL parameter
// preselects a plan; an unknown type falls back to no selection.
func (h *OrderHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteSignIn, http.StatusSeeOther)
		return
	}

	var selected *model.Service
	if planType := chi.URLParam(r, "type"); planType != "" {
		selected = h.content.ServiceByType(planType)
	}

	data := render.TemplateData{
		Title:  "Place an Order",
		User:   user,
		Site:   h.content.SiteContent(),
		Footer: h.content.FooterLinks(),
		Data: map[string]any{
			"Services": h.content.Services(),
			"Selected": selected,
		},
	}

	if err := h.renderer.Render(w, r, "pages/order", data); err != nil {
		logAndInternalError(w, "render order form", "error", err)
	}
}

// OrderSubmit handles the order form submission. The order is stamped
// with the signed-in user's identity and always starts out pending.
func (h *OrderHandler) OrderSubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteSignIn, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectOrder) {
		return
	}

	serviceType := strings.TrimSpace(r.FormValue("service_type"))
	svc := h.content.ServiceByType(serviceType)
	if svc == nil {
		flashError(w, r, h.renderer, redirectOrder, "Please choose a service plan")
		return
	}

	order := model.Order{
		UserID:       user.ID,
		UserName:     user.Username,
		UserEmail:    user.Email,
		ServiceType:  svc.Title,
		Details:      strings.TrimSpace(r.FormValue("details")),
		BusinessType: strings.TrimSpace(r.FormValue("business_type")),
		Requirements: strings.TrimSpace(r.FormValue("requirements")),
		Price:        svc.Price,
	}

	created, err := h.content.AddOrder(r.Context(), order)
	if err != nil {
		logAndInternalError(w, "store order", "error", err)
		return
	}

	slog.Info("order placed", "order_id", created.ID, "user_id", user.ID, "service_type", created.ServiceType)
	flashSuccess(w, r, h.renderer, RouteMyOrders, "Your order has been placed! We'll be in touch shortly.")
}

// MyOrders renders the signed-in user's order history.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteSignIn, http.StatusSeeOther)
		return
	}

	data := render.TemplateData{
		Title:  "My Orders",
		User:   user,
		Site:   h.content.SiteContent(),
		Footer: h.content.FooterLinks(),
		Data: map[string]any{
			"Orders": h.content.OrdersForUser(user.ID),
		},
	}

	if err := h.renderer.Render(w, r, "pages/my-orders", data); err != nil {
		logAndInternalError(w, "render my orders", "error", err)
	}
}

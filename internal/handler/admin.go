// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/store"
)

// AdminHandler serves the content management panel. All routes are
// registered behind the auth and admin-role middleware.
type AdminHandler struct {
	content  *store.ContentStore
	sessions *store.SessionStore
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(content *store.ContentStore, sessions *store.SessionStore, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		content:  content,
		sessions: sessions,
		renderer: renderer,
	}
}

// Routes registers the admin panel routes on the given router.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, redirectAdminOrders, http.StatusSeeOther)
	})

	r.Get("/orders", h.Orders)
	r.Post("/orders/{id}/status", h.UpdateOrderStatus)

	r.Get("/home", h.HomeTab)
	r.Post("/home", h.UpdateHome)
	r.Post("/home/sections", h.AddHomeSection)
	r.Post("/home/sections/{id}/delete", h.DeleteHomeSection)

	r.Get("/about", h.AboutTab)
	r.Post("/about", h.UpdateAbout)
	r.Post("/about/team", h.AddTeamMember)
	r.Post("/about/team/delete", h.DeleteTeamMember)

	r.Get("/services", h.ServicesTab)
	r.Post("/services/{id}", h.UpdateService)

	r.Get("/pricing", h.PricingTab)
	r.Post("/pricing/{id}", h.UpdatePricing)

	r.Get("/contact", h.ContactTab)
	r.Post("/contact", h.UpdateContact)
	r.Post("/contact/footer", h.UpdateFooter)
	r.Post("/contact/legal", h.UpdateLegal)

	r.Get("/users", h.UsersTab)
	r.Post("/users/{id}/status", h.UpdateUserStatus)

	r.Get("/messages", h.Messages)
	r.Post("/messages/{id}/read", h.MarkMessageRead)
}

// tabData assembles the shared panel chrome for one tab.
func (h *AdminHandler) tabData(r *http.Request, title, tab string) render.TemplateData {
	return render.TemplateData{
		Title:     title,
		User:      middleware.GetUser(r),
		Site:      h.content.SiteContent(),
		Footer:    h.content.FooterLinks(),
		ActiveTab: tab,
	}
}

// Orders renders the orders tab, optionally filtered by status via the
// ?status query parameter. An unknown status value shows all orders.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders := h.content.Orders()

	filter := r.URL.Query().Get("status")
	if model.ValidOrderStatus(filter) {
		filtered := orders[:0:0]
		for _, o := range orders {
			if o.Status == filter {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	} else {
		filter = ""
	}

	// Newest first; ids embed creation time but CreatedAt is authoritative
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})

	data := h.tabData(r, "Orders", TabOrders)
	data.Data = map[string]any{
		"Orders":   orders,
		"Filter":   filter,
		"Statuses": []string{model.OrderPending, model.OrderInProgress, model.OrderCompleted, model.OrderCancelled},
	}

	if err := h.renderer.Render(w, r, "admin/orders", data); err != nil {
		logAndInternalError(w, "render admin orders", "error", err)
	}
}

// UpdateOrderStatus handles the status dropdown on the orders tab.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminOrders) {
		return
	}

	id := chi.URLParam(r, "id")
	status := r.FormValue("status")
	if !model.ValidOrderStatus(status) {
		flashError(w, r, h.renderer, redirectAdminOrders, "Unknown order status")
		return
	}

	if err := h.content.UpdateOrderStatus(r.Context(), id, status); err != nil {
		logAndInternalError(w, "update order status", "error", err, "order_id", id)
		return
	}

	slog.Info("order status updated", "order_id", id, "status", status, "admin", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminOrders, "Order updated")
}

// HomeTab renders the home content editor.
func (h *AdminHandler) HomeTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "Home Content", TabHome)
	data.Data = map[string]any{
		"Content": h.content.SiteContent(),
	}

	if err := h.renderer.Render(w, r, "admin/home", data); err != nil {
		logAndInternalError(w, "render admin home", "error", err)
	}
}

// UpdateHome merges the posted hero and copy fields into the site content.
// Only fields present in the form are touched.
func (h *AdminHandler) UpdateHome(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminHome) {
		return
	}

	partial := formPartial(r,
		"heroTitle", "heroSubtitle", "heroImage", "aboutContent",
		"pricingTitle", "pricingSubtitle", "pricingDescription",
	)

	if err := h.content.UpdateSiteContent(r.Context(), partial); err != nil {
		logAndInternalError(w, "update site content", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminHome, "Home content saved")
}

// AddHomeSection appends a custom section to the home page.
func (h *AdminHandler) AddHomeSection(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminHome) {
		return
	}

	sections := h.content.SiteContent().CustomSections
	sections = append(sections, customSectionFromForm(r, len(sections)))

	if err := h.content.UpdateSiteContent(r.Context(), map[string]any{"customSections": sections}); err != nil {
		logAndInternalError(w, "add home section", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminHome, "Section added")
}

// DeleteHomeSection removes a custom section from the home page.
// Deleting an id that no longer exists is a no-op.
func (h *AdminHandler) DeleteHomeSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sections := h.content.SiteContent().CustomSections
	kept := sections[:0:0]
	for _, s := range sections {
		if s.ID != id {
			kept = append(kept, s)
		}
	}

	if err := h.content.UpdateSiteContent(r.Context(), map[string]any{"customSections": kept}); err != nil {
		logAndInternalError(w, "delete home section", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminHome, "Section removed")
}

// AboutTab renders the about page editor.
func (h *AdminHandler) AboutTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "About Content", TabAbout)
	data.Data = map[string]any{
		"About": h.content.AboutContent(),
	}

	if err := h.renderer.Render(w, r, "admin/about", data); err != nil {
		logAndInternalError(w, "render admin about", "error", err)
	}
}

// UpdateAbout merges the posted story and mission fields.
func (h *AdminHandler) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAbout) {
		return
	}

	partial := formPartial(r, "story", "mission", "teamImage")

	if err := h.content.UpdateAboutContent(r.Context(), partial); err != nil {
		logAndInternalError(w, "update about content", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminAbout, "About content saved")
}

// AddTeamMember appends a team member. The team array is replaced whole;
// there is no per-member merge.
func (h *AdminHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAbout) {
		return
	}

	member := model.TeamMember{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Role:  strings.TrimSpace(r.FormValue("role")),
		Bio:   strings.TrimSpace(r.FormValue("bio")),
		Image: strings.TrimSpace(r.FormValue("image")),
	}
	if member.Name == "" {
		flashError(w, r, h.renderer, redirectAdminAbout, "Team member name is required")
		return
	}

	team := append(h.content.AboutContent().Team, member)
	if err := h.content.UpdateAboutContent(r.Context(), map[string]any{"team": team}); err != nil {
		logAndInternalError(w, "add team member", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminAbout, "Team member added")
}

// DeleteTeamMember removes a team member by name. Members have no ids;
// the name is the only handle the panel has.
func (h *AdminHandler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAbout) {
		return
	}

	name := r.FormValue("name")
	team := h.content.AboutContent().Team
	kept := team[:0:0]
	for _, m := range team {
		if m.Name != name {
			kept = append(kept, m)
		}
	}

	if err := h.content.UpdateAboutContent(r.Context(), map[string]any{"team": kept}); err != nil {
		logAndInternalError(w, "delete team member", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminAbout, "Team member removed")
}

// ServicesTab renders the services editor.
func (h *AdminHandler) ServicesTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "Services", TabServices)
	data.Data = map[string]any{
		"Services": h.content.Services(),
	}

	if err := h.renderer.Render(w, r, "admin/services", data); err != nil {
		logAndInternalError(w, "render admin services", "error", err)
	}
}

// UpdateService handles edits to a service's copy. Features arrive one
// per line in a textarea.
func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminServices) {
		return
	}

	id := chi.URLParam(r, "id")
	svc := h.content.ServiceByID(id)
	if svc == nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Service not found")
		return
	}

	svc.Title = strings.TrimSpace(r.FormValue("title"))
	svc.Description = strings.TrimSpace(r.FormValue("description"))
	svc.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	svc.Features = splitLines(r.FormValue("features"))

	if err := h.content.UpdateService(r.Context(), *svc); err != nil {
		logAndInternalError(w, "update service", "error", err, "service_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service saved")
}

// PricingTab renders the pricing editor.
func (h *AdminHandler) PricingTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "Pricing", TabPricing)
	data.Data = map[string]any{
		"Services": h.content.Services(),
		"Content":  h.content.SiteContent(),
	}

	if err := h.renderer.Render(w, r, "admin/pricing", data); err != nil {
		logAndInternalError(w, "render admin pricing", "error", err)
	}
}

// UpdatePricing handles edits to a plan's price and delivery window.
// Prices are free-form strings, matching how the public pages show them.
func (h *AdminHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPricing) {
		return
	}

	id := chi.URLParam(r, "id")
	svc := h.content.ServiceByID(id)
	if svc == nil {
		flashError(w, r, h.renderer, redirectAdminPricing, "Service not found")
		return
	}

	svc.Price = strings.TrimSpace(r.FormValue("price"))
	svc.DeliveryTime = strings.TrimSpace(r.FormValue("delivery_time"))

	if err := h.content.UpdateService(r.Context(), *svc); err != nil {
		logAndInternalError(w, "update pricing", "error", err, "service_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminPricing, "Pricing saved")
}

// ContactTab renders the contact info, footer links and legal content editor.
func (h *AdminHandler) ContactTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "Contact & Footer", TabContact)
	data.Data = map[string]any{
		"Content": h.content.SiteContent(),
		"Footer":  h.content.FooterLinks(),
		"Legal":   h.content.LegalContent(),
	}

	if err := h.renderer.Render(w, r, "admin/contact", data); err != nil {
		logAndInternalError(w, "render admin contact", "error", err)
	}
}

// UpdateContact merges the posted contact fields into the site content.
func (h *AdminHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminContact) {
		return
	}

	partial := formPartial(r,
		"contactTitle", "contactSubtitle", "contactEmail", "contactPhone", "contactAddress",
	)

	if err := h.content.UpdateSiteContent(r.Context(), partial); err != nil {
		logAndInternalError(w, "update contact content", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminContact, "Contact info saved")
}

// UpdateFooter replaces the footer social links.
func (h *AdminHandler) UpdateFooter(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminContact) {
		return
	}

	links := model.FooterLinks{
		Facebook:  strings.TrimSpace(r.FormValue("facebook")),
		Instagram: strings.TrimSpace(r.FormValue("instagram")),
		Twitter:   strings.TrimSpace(r.FormValue("twitter")),
		LinkedIn:  strings.TrimSpace(r.FormValue("linkedin")),
		YouTube:   strings.TrimSpace(r.FormValue("youtube")),
		TikTok:    strings.TrimSpace(r.FormValue("tiktok")),
	}

	if err := h.content.UpdateFooterLinks(r.Context(), links); err != nil {
		logAndInternalError(w, "update footer links", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminContact, "Footer links saved")
}

// UpdateLegal replaces the privacy policy and terms of service. Stored
// verbatim; sanitization happens when the public pages render.
func (h *AdminHandler) UpdateLegal(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminContact) {
		return
	}

	content := model.LegalContent{
		PrivacyPolicy:  r.FormValue("privacy_policy"),
		TermsOfService: r.FormValue("terms_of_service"),
	}

	if err := h.content.UpdateLegalContent(r.Context(), content); err != nil {
		logAndInternalError(w, "update legal content", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminContact, "Legal pages saved")
}

// UsersTab renders the registered users list.
func (h *AdminHandler) UsersTab(w http.ResponseWriter, r *http.Request) {
	data := h.tabData(r, "Users", TabUsers)
	data.Data = map[string]any{
		"Users": h.content.Users(),
	}

	if err := h.renderer.Render(w, r, "admin/users", data); err != nil {
		logAndInternalError(w, "render admin users", "error", err)
	}
}

// UpdateUserStatus activates or deactivates a user account. Admin
// accounts cannot be deactivated from the panel.
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	id := chi.URLParam(r, "id")
	active := r.FormValue("active") == "true"

	for _, u := range h.content.Users() {
		if u.ID == id && u.Role == model.RoleAdmin && !active {
			flashError(w, r, h.renderer, redirectAdminUsers, "Admin accounts cannot be deactivated")
			return
		}
	}

	if err := h.content.UpdateUserStatus(r.Context(), id, active); err != nil {
		logAndInternalError(w, "update user status", "error", err, "user_id", id)
		return
	}

	// Keep the auth-side roster copy in step without waiting for the watch
	if err := h.sessions.ReloadRoster(r.Context()); err != nil {
		slog.Warn("roster reload failed", "error", err)
	}

	slog.Info("user status updated", "user_id", id, "active", active, "admin", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User updated")
}

// Messages renders the contact inbox, unread first.
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	messages := h.content.Messages()
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].IsRead != messages[j].IsRead {
			return !messages[i].IsRead
		}
		return messages[i].CreatedAt > messages[j].CreatedAt
	})

	data := h.tabData(r, "Messages", TabMessages)
	data.Data = map[string]any{
		"Messages": messages,
	}

	if err := h.renderer.Render(w, r, "admin/messages", data); err != nil {
		logAndInternalError(w, "render admin messages", "error", err)
	}
}

// MarkMessageRead marks one inbox message as read. Already-read messages
// are left untouched.
func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.content.MarkMessageAsRead(r.Context(), id); err != nil {
		logAndInternalError(w, "mark message read", "error", err, "message_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminMessages, "Message marked as read")
}

// formPartial collects the named form fields that were actually posted
// into a partial update map. Absent fields stay absent so the merge does
// not blank them.
func formPartial(r *http.Request, fields ...string) map[string]any {
	partial := make(map[string]any)
	for _, f := range fields {
		if vals, ok := r.Form[f]; ok && len(vals) > 0 {
			partial[f] = strings.TrimSpace(vals[0])
		}
	}
	return partial
}

// customSectionFromForm builds a custom section from the posted fields.
func customSectionFromForm(r *http.Request, order int) model.CustomSection {
	sectionType := r.FormValue("type")
	switch sectionType {
	case "text", "markdown", "html":
	default:
		sectionType = "text"
	}

	return model.CustomSection{
		ID:      store.NewID("section"),
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("content"),
		Type:    sectionType,
		Image:   strings.TrimSpace(r.FormValue("image")),
		Order:   order,
	}
}

// splitLines turns textarea input into a trimmed, non-empty string slice.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

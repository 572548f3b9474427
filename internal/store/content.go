// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/storage"
)

// ContentStore owns the site content collections and a read-only mirror of
// the user roster. Every mutation writes its collection straight through to
// storage; there is no transaction spanning collections. The roster mirror
// converges on roster rewrites via a storage watch, last write wins.
type ContentStore struct {
	storage *storage.Store

	mu           sync.Mutex
	services     []model.Service
	testimonials []model.Testimonial
	orders       []model.Order
	messages     []model.Message
	site         model.SiteContent
	about        model.AboutContent
	footer       model.FooterLinks
	legal        model.LegalContent
	users        []model.UserWithSecret

	cancelWatch func()
	onChange    func(key string)
}

// NewContentStore creates the store and hydrates every collection. Each key
// hydrates independently: a corrupt document under one key falls back to that
// collection's default and must not prevent the others from loading.
func NewContentStore(ctx context.Context, st *storage.Store) (*ContentStore, error) {
	c := &ContentStore{storage: st}

	var err error
	if c.services, err = hydrate(ctx, st, storage.KeyServices, DefaultServices()); err != nil {
		return nil, err
	}
	if c.testimonials, err = hydrate(ctx, st, storage.KeyTestimonials, DefaultTestimonials()); err != nil {
		return nil, err
	}
	if c.orders, err = hydrate(ctx, st, storage.KeyOrders, DefaultOrders()); err != nil {
		return nil, err
	}
	if c.messages, err = hydrate(ctx, st, storage.KeyMessages, []model.Message{}); err != nil {
		return nil, err
	}
	if c.site, err = hydrate(ctx, st, storage.KeySiteContent, DefaultSiteContent()); err != nil {
		return nil, err
	}
	if c.about, err = hydrate(ctx, st, storage.KeyAboutContent, DefaultAboutContent()); err != nil {
		return nil, err
	}
	if c.footer, err = hydrate(ctx, st, storage.KeyFooterLinks, DefaultFooterLinks()); err != nil {
		return nil, err
	}
	if c.legal, err = hydrate(ctx, st, storage.KeyLegalContent, DefaultLegalContent()); err != nil {
		return nil, err
	}
	if c.users, err = hydrate(ctx, st, storage.KeyUserRoster, DefaultRoster()); err != nil {
		return nil, err
	}

	c.cancelWatch = st.Watch(storage.KeyUserRoster, func() {
		c.reloadUsers(context.Background())
	})

	return c, nil
}

// hydrate loads key into a value of type T, seeding storage with def when the
// key is absent and falling back to def when the document is corrupt.
func hydrate[T any](ctx context.Context, st *storage.Store, key string, def T) (T, error) {
	v := def
	err := storage.LoadJSON(ctx, st, key, &v)
	switch {
	case errors.Is(err, storage.ErrNoKey):
		if err := storage.SaveJSON(ctx, st, key, def); err != nil {
			return def, err
		}
		return def, nil
	case errors.Is(err, storage.ErrCorrupt):
		slog.Warn("discarding corrupt persisted collection", "key", key, "error", err)
		return def, nil
	case err != nil:
		return def, err
	}
	return v, nil
}

// Close cancels the roster watch.
func (c *ContentStore) Close() {
	if c.cancelWatch != nil {
		c.cancelWatch()
	}
}

// SetOnChange registers a hook invoked after every successful mutation with
// the storage key that changed. Used for cache invalidation.
func (c *ContentStore) SetOnChange(fn func(key string)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *ContentStore) changed(key string) {
	if c.onChange != nil {
		c.onChange(key)
	}
}

func (c *ContentStore) reloadUsers(ctx context.Context) {
	var roster []model.UserWithSecret
	err := storage.LoadJSON(ctx, c.storage, storage.KeyUserRoster, &roster)
	if err != nil {
		slog.Warn("ignoring roster change notification", "error", err)
		return
	}
	c.mu.Lock()
	c.users = roster
	c.mu.Unlock()
}

// Services returns a copy of the service catalog.
func (c *ContentStore) Services() []model.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Service, len(c.services))
	copy(out, c.services)
	return out
}

// ServiceByID returns the service with the given id, or nil.
func (c *ContentStore) ServiceByID(id string) *model.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.services {
		if s.ID == id {
			svc := s
			return &svc
		}
	}
	return nil
}

// ServiceByType returns the service with the given plan type, or nil.
func (c *ContentStore) ServiceByType(planType string) *model.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.services {
		if s.Type == planType {
			svc := s
			return &svc
		}
	}
	return nil
}

// Testimonials returns a copy of the testimonial list.
func (c *ContentStore) Testimonials() []model.Testimonial {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Testimonial, len(c.testimonials))
	copy(out, c.testimonials)
	return out
}

// Orders returns a copy of the order list in insertion order.
func (c *ContentStore) Orders() []model.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// OrdersForUser returns the orders placed by the given user id.
func (c *ContentStore) OrdersForUser(userID string) []model.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.Order
	for _, o := range c.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Messages returns a copy of the contact message list.
func (c *ContentStore) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SiteContent returns the current site copy.
func (c *ContentStore) SiteContent() model.SiteContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.site
}

// AboutContent returns the current about page copy.
func (c *ContentStore) AboutContent() model.AboutContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.about
}

// FooterLinks returns the current footer social links.
func (c *ContentStore) FooterLinks() model.FooterLinks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.footer
}

// LegalContent returns the current legal documents.
func (c *ContentStore) LegalContent() model.LegalContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.legal
}

// Users returns a copy of the roster mirror.
func (c *ContentStore) Users() []model.UserWithSecret {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.UserWithSecret, len(c.users))
	copy(out, c.users)
	return out
}

// UpdateSiteContent shallow-merges the given fields into the site copy.
// Nested arrays are replaced wholesale, never deep-merged.
func (c *ContentStore) UpdateSiteContent(ctx context.Context, partial map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := shallowMerge(c.site, partial)
	if err != nil {
		return fmt.Errorf("merging site content: %w", err)
	}
	if err := storage.SaveJSON(ctx, c.storage, storage.KeySiteContent, merged); err != nil {
		return err
	}
	c.site = merged
	c.changed(storage.KeySiteContent)
	return nil
}

// UpdateAboutContent shallow-merges the given fields into the about copy.
// Replacing "team" replaces the whole array.
func (c *ContentStore) UpdateAboutContent(ctx context.Context, partial map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := shallowMerge(c.about, partial)
	if err != nil {
		return fmt.Errorf("merging about content: %w", err)
	}
	if err := storage.SaveJSON(ctx, c.storage, storage.KeyAboutContent, merged); err != nil {
		return err
	}
	c.about = merged
	c.changed(storage.KeyAboutContent)
	return nil
}

// UpdateFooterLinks replaces the footer links wholesale.
func (c *ContentStore) UpdateFooterLinks(ctx context.Context, links model.FooterLinks) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := storage.SaveJSON(ctx, c.storage, storage.KeyFooterLinks, links); err != nil {
		return err
	}
	c.footer = links
	c.changed(storage.KeyFooterLinks)
	return nil
}

// UpdateLegalContent replaces the legal documents wholesale.
func (c *ContentStore) UpdateLegalContent(ctx context.Context, content model.LegalContent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := storage.SaveJSON(ctx, c.storage, storage.KeyLegalContent, content); err != nil {
		return err
	}
	c.legal = content
	c.changed(storage.KeyLegalContent)
	return nil
}

// AddOrder assigns the order id, creation timestamp and pending status, then
// appends it and returns the created record so the caller can display a
// confirmation reference. Caller-supplied id, timestamp and status are
// ignored.
func (c *ContentStore) AddOrder(ctx context.Context, order model.Order) (model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	order.ID = newID("order")
	order.CreatedAt = time.Now().Format(time.RFC3339)
	order.Status = model.OrderPending

	orders := append(c.orders, order)
	if err := storage.SaveJSON(ctx, c.storage, storage.KeyOrders, orders); err != nil {
		return model.Order{}, err
	}
	c.orders = orders
	c.changed(storage.KeyOrders)
	slog.Info("order placed", "order_id", order.ID, "service", order.ServiceType, "user_id", order.UserID)
	return order, nil
}

// UpdateOrderStatus replaces the status of the order with the given id.
// Unknown ids are a silent no-op.
func (c *ContentStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.orders {
		if c.orders[i].ID != id {
			continue
		}
		orders := make([]model.Order, len(c.orders))
		copy(orders, c.orders)
		orders[i].Status = status
		if err := storage.SaveJSON(ctx, c.storage, storage.KeyOrders, orders); err != nil {
			return err
		}
		c.orders = orders
		c.changed(storage.KeyOrders)
		slog.Info("order status updated", "order_id", id, "status", status)
		return nil
	}
	return nil
}

// AddMessage assigns the message id and creation timestamp, marks it unread
// and appends it.
func (c *ContentStore) AddMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg.ID = newID("message")
	msg.CreatedAt = time.Now().Format(time.RFC3339)
	msg.IsRead = false

	messages := append(c.messages, msg)
	if err := storage.SaveJSON(ctx, c.storage, storage.KeyMessages, messages); err != nil {
		return model.Message{}, err
	}
	c.messages = messages
	c.changed(storage.KeyMessages)
	slog.Info("contact message received", "message_id", msg.ID, "email", msg.Email)
	return msg, nil
}

// MarkMessageAsRead marks the message with the given id as read. Idempotent:
// marking an already-read message has no additional effect, and the read flag
// never reverts. Unknown ids are a silent no-op.
func (c *ContentStore) MarkMessageAsRead(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.messages {
		if c.messages[i].ID != id {
			continue
		}
		if c.messages[i].IsRead {
			return nil
		}
		messages := make([]model.Message, len(c.messages))
		copy(messages, c.messages)
		messages[i].IsRead = true
		if err := storage.SaveJSON(ctx, c.storage, storage.KeyMessages, messages); err != nil {
			return err
		}
		c.messages = messages
		c.changed(storage.KeyMessages)
		return nil
	}
	return nil
}

// UpdateService replaces the service with the matching id. Unknown ids are a
// silent no-op.
func (c *ContentStore) UpdateService(ctx context.Context, svc model.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.services {
		if c.services[i].ID != svc.ID {
			continue
		}
		services := make([]model.Service, len(c.services))
		copy(services, c.services)
		services[i] = svc
		if err := storage.SaveJSON(ctx, c.storage, storage.KeyServices, services); err != nil {
			return err
		}
		c.services = services
		c.changed(storage.KeyServices)
		slog.Info("service updated", "service_id", svc.ID)
		return nil
	}
	return nil
}

// UpdateUserStatus toggles a user's active flag on the roster mirror and
// rewrites the persisted roster so the session store's next hydration sees
// the change. The two stores share only this storage key; consistency here is
// by convention, not by transaction.
func (c *ContentStore) UpdateUserStatus(ctx context.Context, id string, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.users {
		if c.users[i].ID != id {
			continue
		}
		users := make([]model.UserWithSecret, len(c.users))
		copy(users, c.users)
		users[i].Active = active
		if err := storage.SaveJSON(ctx, c.storage, storage.KeyUserRoster, users); err != nil {
			return err
		}
		c.users = users
		c.changed(storage.KeyUserRoster)
		slog.Info("user status updated", "user_id", id, "active", active)
		return nil
	}
	return nil
}

// shallowMerge applies the partial's top-level fields onto base through a
// JSON round-trip, so field names match their wire form and absent fields are
// left untouched.
func shallowMerge[T any](base T, partial map[string]any) (T, error) {
	var zero T

	raw, err := json.Marshal(base)
	if err != nil {
		return zero, err
	}
	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return zero, err
	}
	for k, v := range partial {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}

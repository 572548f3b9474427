// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/azizabboud/quickweb-go/internal/cache"
	"github.com/azizabboud/quickweb-go/internal/middleware"
	"github.com/azizabboud/quickweb-go/internal/render"
	"github.com/azizabboud/quickweb-go/internal/store"
	"github.com/azizabboud/quickweb-go/internal/testutil"
	"github.com/azizabboud/quickweb-go/web"
)

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	sessions *store.SessionStore
	content  *store.ContentStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	st := testutil.TestStorage(t)

	sessions, err := store.NewSessionStore(ctx, st, 0)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	content, err := store.NewContentStore(ctx, st)
	if err != nil {
		t.Fatalf("NewContentStore: %v", err)
	}
	t.Cleanup(content.Close)

	sm := scs.New()
	sm.Lifetime = time.Hour

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub templates: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	pageCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = pageCache.Close() })

	frontend := NewFrontendHandler(content, renderer, pageCache)
	auth := NewAuthHandler(sessions, renderer, sm)
	orders := NewOrderHandler(content, renderer)
	admin := NewAdminHandler(content, sessions, renderer)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadUser(sm, sessions))

	r.Get(RouteRoot, frontend.Home)
	r.Get(RouteServices, frontend.Services)
	r.Get(RoutePricing, frontend.Pricing)
	r.Get(RouteAbout, frontend.About)
	r.Get(RouteContact, frontend.ContactForm)
	r.Post(RouteContact, frontend.Contact)
	r.Get(RoutePrivacy, frontend.Privacy)
	r.Get(RouteTerms, frontend.Terms)

	r.Get(RouteSignIn, auth.SignInForm)
	r.Post(RouteSignIn, auth.SignIn)
	r.Get(RouteSignUp, auth.SignUpForm)
	r.Post(RouteSignUp, auth.SignUp)
	r.Get(RouteForgotPassword, auth.ForgotPasswordForm)
	r.Post(RouteForgotPassword, auth.ForgotPassword)
	r.Get(RouteLogout, auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Get(RouteOrder, orders.OrderForm)
		r.Get(RouteOrderType, orders.OrderForm)
		r.Post(RouteOrder, orders.OrderSubmit)
		r.Get(RouteMyOrders, orders.MyOrders)
	})

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Use(middleware.RequireAdmin())
		admin.Routes(r)
	})

	r.NotFound(frontend.NotFound)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testApp{
		server:   server,
		client:   &http.Client{Jar: jar},
		sessions: sessions,
		content:  content,
	}
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// postNoRedirect submits a form and returns the raw redirect response.
func (a *testApp) postNoRedirect(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	client := &http.Client{
		Jar: a.client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)

	paths := []string{
		RouteRoot, RouteServices, RoutePricing, RouteAbout, RouteContact,
		RoutePrivacy, RouteTerms, RouteSignIn, RouteSignUp, RouteForgotPassword,
	}
	for _, path := range paths {
		resp := app.get(t, path)
		body := bodyString(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusOK)
		}
		if !strings.Contains(body, "QuickWeb") {
			t.Errorf("GET %s body missing site chrome", path)
		}
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/no-such-page")
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestSignInFlow(t *testing.T) {
	app := newTestApp(t)

	t.Run("wrong credentials bounce back", func(t *testing.T) {
		resp := app.postNoRedirect(t, RouteSignIn, url.Values{
			"email":    {store.DefaultAdminEmail},
			"password": {"nope"},
		})
		defer func() { _ = resp.Body.Close() }()
		if got := resp.Header.Get("Location"); got != RouteSignIn {
			t.Errorf("Location = %q, want %q", got, RouteSignIn)
		}
	})

	t.Run("admin lands on the panel", func(t *testing.T) {
		resp := app.postNoRedirect(t, RouteSignIn, url.Values{
			"email":    {store.DefaultAdminEmail},
			"password": {store.DefaultAdminPassword},
		})
		defer func() { _ = resp.Body.Close() }()
		if got := resp.Header.Get("Location"); got != RouteAdmin {
			t.Errorf("Location = %q, want %q", got, RouteAdmin)
		}
	})

	t.Run("session opens the admin panel", func(t *testing.T) {
		resp := app.get(t, RouteAdmin)
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET /admin status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("logout drops the session", func(t *testing.T) {
		resp := app.get(t, RouteLogout)
		_ = resp.Body.Close()

		resp = app.get(t, RouteAdmin)
		defer func() { _ = resp.Body.Close() }()
		// The redirect chain ends on the sign-in page.
		if got := resp.Request.URL.Path; got != RouteSignIn {
			t.Errorf("final path after logout = %q, want %q", got, RouteSignIn)
		}
	})
}

func TestOrderFlow(t *testing.T) {
	app := newTestApp(t)

	t.Run("order form requires sign-in", func(t *testing.T) {
		resp := app.get(t, RouteOrder)
		defer func() { _ = resp.Body.Close() }()
		if got := resp.Request.URL.Path; got != RouteSignIn {
			t.Errorf("anonymous /order landed on %q, want %q", got, RouteSignIn)
		}
	})

	resp := app.postForm(t, RouteSignUp, url.Values{
		"username": {"frank"},
		"email":    {"frank@example.com"},
		"password": {"pw123456"},
	})
	_ = resp.Body.Close()

	t.Run("signed-in user places an order", func(t *testing.T) {
		svc := app.content.Services()[0]

		resp := app.postNoRedirect(t, RouteOrder, url.Values{
			"service_type": {svc.Type},
			"details":      {"A site for my bakery"},
		})
		defer func() { _ = resp.Body.Close() }()
		if got := resp.Header.Get("Location"); got != RouteMyOrders {
			t.Errorf("Location = %q, want %q", got, RouteMyOrders)
		}

		// The stored serviceType is the denormalized service title, so
		// order listings survive later plan renames.
		var mine []string
		for _, o := range app.content.Orders() {
			if o.UserEmail == "frank@example.com" {
				mine = append(mine, o.ServiceType)
			}
		}
		if len(mine) != 1 || mine[0] != svc.Title {
			t.Errorf("stored orders for frank = %v, want one %q order", mine, svc.Title)
		}
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		resp := app.postNoRedirect(t, RouteOrder, url.Values{
			"service_type": {"bespoke"},
		})
		defer func() { _ = resp.Body.Close() }()
		if got := resp.Header.Get("Location"); got != RouteOrder {
			t.Errorf("Location = %q, want %q", got, RouteOrder)
		}
	})

	t.Run("my orders lists the order", func(t *testing.T) {
		resp := app.get(t, RouteMyOrders)
		body := bodyString(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET /my-orders status = %d", resp.StatusCode)
		}
		if !strings.Contains(body, "A site for my bakery") {
			t.Error("order details missing from my-orders page")
		}
	})

	t.Run("regular user cannot open the admin panel", func(t *testing.T) {
		resp := app.get(t, RouteAdmin)
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("GET /admin status = %d, want %d", resp.StatusCode, http.StatusForbidden)
		}
	})
}

func TestContactStoresMessage(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, RouteContact, url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"subject": {"Quote"},
		"message": {"Do you build web shops?"},
	})
	_ = resp.Body.Close()

	msgs := app.content.Messages()
	if len(msgs) != 1 {
		t.Fatalf("stored %d messages, want 1", len(msgs))
	}
	if msgs[0].Email != "grace@example.com" || msgs[0].IsRead {
		t.Errorf("stored message = %+v, want unread message from grace", msgs[0])
	}

	t.Run("missing fields rejected", func(t *testing.T) {
		resp := app.postForm(t, RouteContact, url.Values{"name": {"x"}})
		_ = resp.Body.Close()
		if got := len(app.content.Messages()); got != 1 {
			t.Errorf("stored %d messages after invalid submit, want 1", got)
		}
	})
}

func TestAdminUpdatesContent(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, RouteSignIn, url.Values{
		"email":    {store.DefaultAdminEmail},
		"password": {store.DefaultAdminPassword},
	})
	_ = resp.Body.Close()

	t.Run("home tab edit", func(t *testing.T) {
		resp := app.postForm(t, RouteAdmin+"/home", url.Values{
			"heroTitle": {"Fresh Hero"},
		})
		_ = resp.Body.Close()
		if got := app.content.SiteContent().HeroTitle; got != "Fresh Hero" {
			t.Errorf("HeroTitle = %q, want Fresh Hero", got)
		}
	})

	t.Run("order status update", func(t *testing.T) {
		placed := app.content.Orders()[0]
		resp := app.postForm(t, RouteAdmin+"/orders/"+placed.ID+"/status", url.Values{
			"status": {"completed"},
		})
		_ = resp.Body.Close()

		for _, o := range app.content.Orders() {
			if o.ID == placed.ID && o.Status != "completed" {
				t.Errorf("order status = %q, want completed", o.Status)
			}
		}
	})
}

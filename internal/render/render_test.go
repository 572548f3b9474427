package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub templates: %v", err)
	}
	r, err := New(Config{TemplatesFS: templates, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_ParsesAllPageTemplates(t *testing.T) {
	r := newTestRenderer(t)

	names := []string{
		"pages/home", "pages/services", "pages/pricing", "pages/about",
		"pages/contact", "pages/legal", "pages/order", "pages/my-orders",
		"pages/404",
		"auth/signin", "auth/signup", "auth/forgot-password",
		"admin/orders", "admin/home", "admin/about", "admin/services",
		"admin/pricing", "admin/contact", "admin/users", "admin/messages",
	}
	for _, name := range names {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestMarkdown(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("renders markdown", func(t *testing.T) {
		out := string(r.Markdown("# Heading\n\nSome **bold** text."))
		if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>bold</strong>") {
			t.Errorf("Markdown() = %q, want heading and strong tags", out)
		}
	})

	t.Run("strips scripts", func(t *testing.T) {
		out := string(r.Markdown("hello <script>alert(1)</script>"))
		if strings.Contains(out, "<script>") {
			t.Errorf("Markdown() kept script tag: %q", out)
		}
	})
}

func TestSanitize(t *testing.T) {
	r := newTestRenderer(t)

	out := string(r.Sanitize(`<p onclick="x()">ok</p><script>bad()</script>`))
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Errorf("Sanitize() = %q, want scripts and handlers stripped", out)
	}
	if !strings.Contains(out, "<p>ok</p>") {
		t.Errorf("Sanitize() = %q, want paragraph kept", out)
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := newTestRenderer(t)
	funcs := r.templateFuncs()

	t.Run("formatDate", func(t *testing.T) {
		f := funcs["formatDate"].(func(string) string)
		if got := f("2026-03-15T10:30:00Z"); got != "Mar 15, 2026" {
			t.Errorf("formatDate = %q, want Mar 15, 2026", got)
		}
		// Unparseable input passes through untouched.
		if got := f("not-a-date"); got != "not-a-date" {
			t.Errorf("formatDate(bad) = %q, want passthrough", got)
		}
	})

	t.Run("truncate", func(t *testing.T) {
		f := funcs["truncate"].(func(string, int) string)
		if got := f("abcdef", 3); got != "abc..." {
			t.Errorf("truncate = %q, want abc...", got)
		}
		if got := f("ab", 3); got != "ab" {
			t.Errorf("truncate short = %q, want ab", got)
		}
	})

	t.Run("title", func(t *testing.T) {
		f := funcs["title"].(func(string) string)
		if got := f("pending"); got != "Pending" {
			t.Errorf("title = %q, want Pending", got)
		}
		if got := f(""); got != "" {
			t.Errorf("title empty = %q, want empty", got)
		}
	})
}

func TestFlashRoundTrip(t *testing.T) {
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub templates: %v", err)
	}
	sm := scs.New()
	r, err := New(Config{TemplatesFS: templates, SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Saved", "success")

		message, kind := r.popFlash(req)
		if message != "Saved" || kind != "success" {
			t.Errorf("popFlash() = %q, %q, want Saved, success", message, kind)
		}

		// Popping consumes the message.
		if message, _ := r.popFlash(req); message != "" {
			t.Errorf("second popFlash() = %q, want empty", message)
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestFlashDefaultsToInfo(t *testing.T) {
	sm := scs.New()
	r := &Renderer{sessionManager: sm}

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sm.Put(req.Context(), session.KeyFlash, "heads up")

		message, kind := r.popFlash(req)
		if message != "heads up" || kind != "info" {
			t.Errorf("popFlash() = %q, %q, want heads up, info", message, kind)
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

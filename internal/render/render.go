// Package render parses the embedded HTML templates and renders pages
// with shared site chrome (header content, footer links, session user).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/azizabboud/quickweb-go/internal/model"
	"github.com/azizabboud/quickweb-go/internal/session"
	"github.com/azizabboud/quickweb-go/internal/util"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	sanitizer      *bluemonday.Policy
	markdown       goldmark.Markdown
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		sanitizer:      bluemonday.UGCPolicy(),
		markdown:       goldmark.New(),
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem. Frontend and
// auth pages share the base layout; admin tabs additionally get the admin
// layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	baseLayout := "layouts/base.html"

	groups := []struct {
		dir     string
		layouts []string
	}{
		{"pages", []string{baseLayout}},
		{"auth", []string{baseLayout}},
		{"admin", []string{baseLayout, "layouts/admin.html"}},
	}

	for _, g := range groups {
		pages, err := r.getTemplateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}

		for _, tmplPath := range pages {
			name := g.dir + "/" + strings.TrimSuffix(filepath.Base(tmplPath), ".html")

			files := append([]string{}, g.layouts...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}

			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles lists the .html files directly under dir. A missing
// directory yields an empty list rather than an error.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	files, err := fs.Glob(templatesFS, dir+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing %s templates: %w", dir, err)
	}
	return files, nil
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     reformatTimestamp("Jan 2, 2006"),
		"formatDateTime": reformatTimestamp("Jan 2, 2006 3:04 PM"),
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"markdown": r.Markdown,
		"sanitize": r.Sanitize,
		"slugify":  util.Slugify,
		"title":    titleCase,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
	}
}

// Markdown renders markdown source to sanitized HTML. Custom sections
// authored in the admin panel pass through here.
func (r *Renderer) Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes()))
}

// Sanitize cleans stored HTML (legal pages, rich text sections) before output.
func (r *Renderer) Sanitize(source string) template.HTML {
	return template.HTML(r.sanitizer.Sanitize(source))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// reformatTimestamp converts an RFC 3339 string to the given display
// layout. Unparseable input passes through unchanged so a bad record
// never breaks a page.
func reformatTimestamp(layout string) func(string) string {
	return func(s string) string {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
		return t.Format(layout)
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	User        *model.User
	Site        model.SiteContent
	Footer      model.FooterLinks
	ActiveTab   string
	Flash       string
	FlashType   string
	CurrentYear int
}

// Render executes the named template into a buffer, then writes the page.
// Buffering keeps a half-rendered body off the wire when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.Flash, data.FlashType = r.popFlash(req)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// popFlash consumes the pending flash message, if any.
func (r *Renderer) popFlash(req *http.Request) (message, kind string) {
	if r.sessionManager == nil {
		return "", ""
	}
	message = r.sessionManager.PopString(req.Context(), session.KeyFlash)
	if message == "" {
		return "", ""
	}
	kind = r.sessionManager.PopString(req.Context(), session.KeyFlashType)
	if kind == "" {
		kind = "info"
	}
	return message, kind
}

// SetFlash queues a one-shot message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), session.KeyFlash, message)
		r.sessionManager.Put(req.Context(), session.KeyFlashType, flashType)
	}
}

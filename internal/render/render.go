// Package render provides HTML rendering for the public site shells and
// the admin dashboard. Pages render to a byte slice first so the page
// cache can store the finished HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"log/slog"
	"path/filepath"

	"toonstream/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title       string         // Page title for the <title> tag
	Description string         // SEO meta description
	Keywords    string         // SEO meta keywords
	Data        map[string]any // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	rn := &Renderer{templates: make(map[string]*template.Template)}

	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// videoType safely dereferences a video type for script bootstraps.
		"videoType": func(vt *models.VideoType) string {
			if vt == nil {
				return ""
			}
			return string(*vt)
		},
		"derefInt": func(n *int) int {
			if n == nil {
				return 0
			}
			return *n
		},
		"derefInt64": func(n *int64) int64 {
			if n == nil {
				return 0
			}
			return *n
		},
		// raw marks generated article HTML as safe. Article bodies come
		// from the content generator, not from user input.
		"raw": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		pageName := name[:len(name)-len(filepath.Ext(name))]
		rn.templates[pageName] = tmpl
	}

	return rn, nil
}

// Render executes a page template into a byte slice.
func (rn *Renderer) Render(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Page renders a template straight to the response, with a 500 fallback
// on template errors.
func (rn *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	html, err := rn.Render(name, data)
	if err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

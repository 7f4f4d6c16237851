// Package router sets up all HTTP routes and middleware chains for the
// ToonStream server: the JSON API under /api, the rendered site shells,
// and the embedded static assets.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"toonstream/internal/handlers"
	"toonstream/internal/middleware"
	"toonstream/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, pages *handlers.Pages, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// JSON API, with permissive CORS so the trackers work when pages are
	// proxied or embedded elsewhere.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		}))

		r.Get("/movies", api.ListMovies)
		r.Get("/movies/{slug}", api.GetMovie)
		r.Get("/blog/{slug}", api.GetBlogPost)
		r.Post("/analytics", api.RecordEvent)
		r.Get("/config", api.GetConfig)

		r.Post("/admin/generate-content", api.GenerateContent)
	})

	// Rendered pages.
	r.Get("/", pages.Home)
	r.Get("/blog/{slug}", pages.Blog)
	r.Get("/watch/{slug}", pages.Watch)
	r.Get("/admin", admin.Dashboard)

	// Embedded static assets (tracker scripts, styles).
	staticRoot, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing from embed: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	// Themed 404 for everything else.
	r.NotFound(pages.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

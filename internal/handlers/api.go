// Package handlers wires HTTP endpoints to the content stores. The JSON
// API lives in API, the rendered site shells in Pages, and the dashboard
// in Admin.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"toonstream/internal/cache"
	"toonstream/internal/generator"
	"toonstream/internal/models"
	"toonstream/internal/store"
)

// API groups the JSON endpoints consumed by the client trackers and any
// external readers. All responses carry a success flag so clients can
// branch without inspecting status codes.
type API struct {
	movies    *store.MovieStore
	blogs     *store.BlogPostStore
	config    *store.SiteConfigStore
	analytics *store.AnalyticsStore
	generator *generator.Generator
	pageCache *cache.PageCache
}

// NewAPI creates the API handler group. pageCache may be nil.
func NewAPI(movies *store.MovieStore, blogs *store.BlogPostStore, config *store.SiteConfigStore, analytics *store.AnalyticsStore, gen *generator.Generator, pageCache *cache.PageCache) *API {
	return &API{
		movies:    movies,
		blogs:     blogs,
		config:    config,
		analytics: analytics,
		generator: gen,
		pageCache: pageCache,
	}
}

// writeJSON sends v with the given status. Encoding errors are logged;
// the status line has already gone out by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", "error", err)
	}
}

// jsonError sends the failure envelope.
func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// ListMovies handles GET /api/movies: every published movie joined with
// its review post, newest first.
func (a *API) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := a.movies.ListPublished()
	if err != nil {
		slog.Error("list movies failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch movies")
		return
	}
	if movies == nil {
		movies = []models.MovieListing{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movies":  movies,
	})
}

// GetMovie handles GET /api/movies/{slug}.
func (a *API) GetMovie(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	movie, err := a.movies.FindPublishedBySlug(slug)
	if err != nil {
		slog.Error("find movie failed", "slug", slug, "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch movie")
		return
	}
	if movie == nil {
		jsonError(w, http.StatusNotFound, "Movie not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   movie,
	})
}

// GetBlogPost handles GET /api/blog/{slug}. Fetching a published post
// counts as a view; the returned view_count includes this request.
func (a *API) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := a.blogs.FindPublishedBySlugAndCount(slug)
	if err != nil {
		slog.Error("find blog post failed", "slug", slug, "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch blog post")
		return
	}
	if article == nil {
		jsonError(w, http.StatusNotFound, "Blog post not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"blog":    article,
	})
}

// analyticsPayload is the tracker event body.
type analyticsPayload struct {
	EventType string  `json:"event_type"`
	PageURL   *string `json:"page_url"`
	BlogID    *int64  `json:"blog_id"`
	MovieID   *int64  `json:"movie_id"`
	Referrer  *string `json:"referrer"`
}

// RecordEvent handles POST /api/analytics. A storage failure reports 500;
// the trackers treat every analytics response as fire-and-forget, so a
// failure here never degrades the reading experience.
func (a *API) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var payload analyticsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.EventType == "" {
		jsonError(w, http.StatusBadRequest, "event_type is required")
		return
	}

	event := &models.AnalyticsEvent{
		EventType: payload.EventType,
		PageURL:   payload.PageURL,
		BlogID:    payload.BlogID,
		MovieID:   payload.MovieID,
		UserIP:    clientIP(r),
		UserAgent: userAgent(r),
		Referrer:  payload.Referrer,
	}
	if event.Referrer == nil {
		if ref := r.Referer(); ref != "" {
			event.Referrer = &ref
		}
	}

	if err := a.analytics.Record(event); err != nil {
		slog.Error("record analytics event failed", "event_type", payload.EventType, "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to record event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// credentialKeys are site_config entries that must never leave the server.
var credentialKeys = map[string]bool{
	models.ConfigSearchAPIKey:   true,
	models.ConfigSearchEngineID: true,
	models.ConfigAIAPIKey:       true,
}

// GetConfig handles GET /api/config: the public subset of site settings
// the trackers need. An unset table yields an empty object; clients apply
// their own defaults. Credentials never leave the server.
func (a *API) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.config.All()
	if err != nil {
		slog.Error("load site config failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch config")
		return
	}

	public := map[string]string{}
	for k, v := range cfg {
		if !credentialKeys[k] {
			public[k] = v
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"config":  public,
	})
}

// GenerateContent handles POST /api/admin/generate-content: runs one
// generator batch and reports what it did. New content invalidates every
// cached page, since the home listing changes.
func (a *API) GenerateContent(w http.ResponseWriter, r *http.Request) {
	res, err := a.generator.ProcessBatch(r.Context())
	if err != nil {
		slog.Error("content generation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Content generation failed")
		return
	}

	if res.Created > 0 {
		a.pageCache.InvalidateAll(r.Context())
	}

	msg := "No new content: all candidates already exist"
	if res.Created > 0 {
		msg = fmt.Sprintf("Generated %d new movies", res.Created)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": msg,
		"created": res.Created,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	})
}

// clientIP resolves the caller's address. Proxy headers win over the
// socket address; "unknown" is the last resort so the analytics row
// never carries an empty value.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

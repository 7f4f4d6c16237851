package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"toonstream/internal/render"
	"toonstream/internal/store"
)

// Admin serves the dashboard page. It is a read-only summary; the only
// action it exposes is triggering a generator batch through the API.
type Admin struct {
	renderer  *render.Renderer
	movies    *store.MovieStore
	blogs     *store.BlogPostStore
	analytics *store.AnalyticsStore
}

// NewAdmin creates the dashboard handler group.
func NewAdmin(rn *render.Renderer, movies *store.MovieStore, blogs *store.BlogPostStore, analytics *store.AnalyticsStore) *Admin {
	return &Admin{
		renderer:  rn,
		movies:    movies,
		blogs:     blogs,
		analytics: analytics,
	}
}

// Dashboard renders content and traffic counts. A failed count renders
// as zero rather than failing the whole page.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	movieCount, err := a.movies.CountAll()
	if err != nil {
		slog.Error("count movies failed", "error", err)
	}

	postCount, err := a.blogs.CountPublished()
	if err != nil {
		slog.Error("count posts failed", "error", err)
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	eventsToday, err := a.analytics.CountSince(midnight)
	if err != nil {
		slog.Error("count analytics events failed", "error", err)
	}

	lastView, err := a.analytics.LastByType("page_view")
	if err != nil {
		slog.Error("load last page view failed", "error", err)
	}
	lastViewAt := "never"
	if lastView != nil {
		lastViewAt = lastView.CreatedAt.Format("2006-01-02 15:04")
	}

	a.renderer.Page(w, http.StatusOK, "admin", &render.PageData{
		Title: "Dashboard - ToonStream",
		Data: map[string]any{
			"MovieCount":  movieCount,
			"PostCount":   postCount,
			"EventsToday": eventsToday,
			"LastViewAt":  lastViewAt,
		},
	})
}

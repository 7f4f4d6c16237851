package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"toonstream/internal/cache"
	"toonstream/internal/models"
	"toonstream/internal/render"
	"toonstream/internal/store"
	"toonstream/internal/video"
)

// Pages serves the rendered HTML shells. The home and watch pages go
// through the Valkey page cache; blog pages do not, because serving a
// blog page counts a view and a cached copy would swallow it.
type Pages struct {
	renderer  *render.Renderer
	movies    *store.MovieStore
	blogs     *store.BlogPostStore
	config    *store.SiteConfigStore
	pageCache *cache.PageCache
}

// NewPages creates the page handler group. pageCache may be nil.
func NewPages(rn *render.Renderer, movies *store.MovieStore, blogs *store.BlogPostStore, config *store.SiteConfigStore, pageCache *cache.PageCache) *Pages {
	return &Pages{
		renderer:  rn,
		movies:    movies,
		blogs:     blogs,
		config:    config,
		pageCache: pageCache,
	}
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Home renders the movie grid.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomeKey()); ok {
		writeHTML(w, cached)
		return
	}

	movies, err := p.movies.ListPublished()
	if err != nil {
		slog.Error("list movies for home page failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Render("home", &render.PageData{
		Title:       "ToonStream - Animated Movies, Reviewed",
		Description: "Hand-picked animated features with full reviews and an ad-free player.",
		Data:        map[string]any{"Movies": movies},
	})
	if err != nil {
		slog.Error("render home page failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomeKey(), html)
	writeHTML(w, html)
}

// Blog renders a review article. Serving the page counts as one view.
func (p *Pages) Blog(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := p.blogs.FindPublishedBySlugAndCount(slug)
	if err != nil {
		slog.Error("find blog post for page failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		p.NotFound(w, r)
		return
	}

	title := article.Title
	if article.SEOTitle != nil && *article.SEOTitle != "" {
		title = *article.SEOTitle
	}

	p.renderer.Page(w, http.StatusOK, "blog", &render.PageData{
		Title:       title,
		Description: deref(article.SEODescription),
		Keywords:    deref(article.SEOKeywords),
		Data: map[string]any{
			"Article":    article,
			"WatchDelay": p.watchDelay(),
		},
	})
}

// Watch renders the ad-free player for a movie.
func (p *Pages) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.WatchKey(slug)); ok {
		writeHTML(w, cached)
		return
	}

	movie, err := p.movies.FindPublishedBySlug(slug)
	if err != nil {
		slog.Error("find movie for watch page failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if movie == nil {
		p.NotFound(w, r)
		return
	}

	embedURL := ""
	if movie.VideoEmbedURL != nil && *movie.VideoEmbedURL != "" {
		var vt models.VideoType
		if movie.VideoType != nil {
			vt = *movie.VideoType
		}
		embedURL, err = video.EmbedURL(vt, *movie.VideoEmbedURL)
		if err != nil {
			slog.Warn("embed url build failed, serving page without player",
				"slug", slug, "error", err)
			embedURL = ""
		}
	}

	// The review lives at the slug the generator derives; manual content
	// without that companion post just loses the back-link.
	blogSlug := ""
	if post, err := p.blogs.FindBySlug(movie.Slug + "-review"); err == nil && post != nil && post.Published {
		blogSlug = post.Slug
	}

	title := movie.Title
	if movie.SEOTitle != nil && *movie.SEOTitle != "" {
		title = *movie.SEOTitle
	}

	html, err := p.renderer.Render("watch", &render.PageData{
		Title:       title,
		Description: deref(movie.SEODescription),
		Keywords:    deref(movie.SEOKeywords),
		Data: map[string]any{
			"Movie":    movie,
			"EmbedURL": embedURL,
			"BlogSlug": blogSlug,
		},
	})
	if err != nil {
		slog.Error("render watch page failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.WatchKey(slug), html)
	writeHTML(w, html)
}

// NotFound renders the themed 404 page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, http.StatusNotFound, "notfound", &render.PageData{
		Title: "Page Not Found - ToonStream",
	})
}

// watchDelay reads the countdown length from site_config, falling back
// to the default when the store is unreachable.
func (p *Pages) watchDelay() int {
	cfg, err := p.config.All()
	if err != nil {
		slog.Warn("load site config for watch delay failed", "error", err)
		return models.DefaultWatchButtonDelay
	}
	return cfg.WatchButtonDelay()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

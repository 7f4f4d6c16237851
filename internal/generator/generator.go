// Package generator synthesizes movie listings and companion review posts.
// Candidates come from an external search provider when credentials are
// configured, or from a built-in fallback list; article text comes from a
// fixed template, with an optional AI provider as extension point. Every
// external dependency is optional: the generator always degrades to
// deterministic fallback data instead of failing.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"toonstream/internal/ai"
	"toonstream/internal/models"
	"toonstream/internal/slug"
)

// movieStore is the slice of MovieStore the generator needs.
type movieStore interface {
	SlugExists(slug string) (bool, error)
	Create(m *models.Movie) (*models.Movie, error)
}

// blogStore is the slice of BlogPostStore the generator needs.
type blogStore interface {
	Create(b *models.BlogPost) (*models.BlogPost, error)
}

// configStore supplies provider credentials from the site_config table.
type configStore interface {
	All() (models.SiteConfig, error)
}

// maxPerBatch caps how many candidates one ProcessBatch invocation handles.
const maxPerBatch = 3

// defaultQuery seeds the search provider when no query is given.
const defaultQuery = "classic animated adventure movies"

// SearchResult is one movie candidate returned by the search provider or
// the fallback list.
type SearchResult struct {
	Title    string
	Year     int
	Summary  string
	ImageURL string
}

// BlogContent is the synthesized article for one movie.
type BlogContent struct {
	Title          string
	Content        string
	Excerpt        string
	SEOTitle       string
	SEODescription string
	Keywords       string
}

// BatchResult summarizes one ProcessBatch run.
type BatchResult struct {
	Created int // movie+post pairs inserted
	Skipped int // candidates whose slug already existed
	Failed  int // candidates that hit a store error
}

// Generator builds new Movie + BlogPost pairs without duplicating slugs.
// Safe to re-run: already-present slugs are skipped.
type Generator struct {
	movies movieStore
	blogs  blogStore
	config configStore

	// aiProvider is the optional LLM extension point. It is nil in the
	// default wiring; the template path is used whenever it is nil or
	// its Generate call fails.
	aiProvider ai.Provider

	client        *http.Client
	searchBaseURL string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithAIProvider plugs in an LLM for article text. Template output remains
// the fallback for any generation error.
func WithAIProvider(p ai.Provider) Option {
	return func(g *Generator) { g.aiProvider = p }
}

// WithSearchBaseURL overrides the search API endpoint. Used in tests.
func WithSearchBaseURL(url string) Option {
	return func(g *Generator) { g.searchBaseURL = url }
}

// New creates a Generator over the given stores.
func New(movies movieStore, blogs blogStore, config configStore, opts ...Option) *Generator {
	g := &Generator{
		movies:        movies,
		blogs:         blogs,
		config:        config,
		client:        &http.Client{Timeout: 15 * time.Second},
		searchBaseURL: "https://www.googleapis.com/customsearch/v1",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ProcessBatch fetches candidates and inserts up to maxPerBatch new
// Movie + BlogPost pairs. A candidate whose slug already exists is
// skipped; a candidate that fails mid-insert is logged and the batch
// moves on. Only a site_config read failure aborts the whole run, since
// that indicates the store itself is down.
func (g *Generator) ProcessBatch(ctx context.Context) (BatchResult, error) {
	var res BatchResult

	cfg, err := g.config.All()
	if err != nil {
		return res, fmt.Errorf("load generator config: %w", err)
	}

	candidates := g.FetchCandidates(ctx, cfg, defaultQuery)
	if len(candidates) > maxPerBatch {
		candidates = candidates[:maxPerBatch]
	}

	// An injected provider wins; otherwise an ai_api_key in site_config
	// turns the LLM path on without a restart.
	provider := g.aiProvider
	if provider == nil {
		if key := cfg[models.ConfigAIAPIKey]; key != "" {
			provider = ai.NewChatProvider(ai.Config{APIKey: key})
		}
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		movieSlug := slug.Generate(candidate.Title)
		if movieSlug == "" {
			slog.Warn("candidate title produced empty slug, skipping", "title", candidate.Title)
			res.Skipped++
			continue
		}

		exists, err := g.movies.SlugExists(movieSlug)
		if err != nil {
			slog.Error("slug existence check failed", "slug", movieSlug, "error", err)
			res.Failed++
			continue
		}
		if exists {
			slog.Info("movie already exists, skipping", "slug", movieSlug)
			res.Skipped++
			continue
		}

		content := g.synthesize(ctx, provider, candidate)
		seo := SEOData(candidate)

		posterURL := candidate.ImageURL
		if posterURL == "" {
			posterURL = "/static/images/default-poster.jpg"
		}

		movie, err := g.movies.Create(&models.Movie{
			Title:          candidate.Title,
			Slug:           movieSlug,
			ReleaseYear:    &candidate.Year,
			Summary:        &candidate.Summary,
			PosterURL:      &posterURL,
			SEOTitle:       &seo.Title,
			SEODescription: &seo.Description,
			SEOKeywords:    &seo.Keywords,
			Published:      true,
		})
		if err != nil {
			slog.Error("movie insert failed", "slug", movieSlug, "error", err)
			res.Failed++
			continue
		}

		// The companion post is only attempted once the movie is in.
		_, err = g.blogs.Create(&models.BlogPost{
			MovieID:        &movie.ID,
			Title:          content.Title,
			Slug:           movieSlug + "-review",
			Content:        content.Content,
			Excerpt:        &content.Excerpt,
			SEOTitle:       &content.SEOTitle,
			SEODescription: &content.SEODescription,
			SEOKeywords:    &content.Keywords,
			Published:      true,
		})
		if err != nil {
			slog.Error("blog post insert failed", "slug", movieSlug+"-review", "error", err)
			res.Failed++
			continue
		}

		slog.Info("generated movie and review", "slug", movieSlug, "title", candidate.Title)
		res.Created++
	}

	return res, nil
}

// SynthesizeBlogContent produces the article for a candidate. When an AI
// provider is wired in, its output replaces the template body; everything
// else (excerpt, SEO fields) stays deterministic, and any generation error
// falls back to the template body.
func (g *Generator) SynthesizeBlogContent(ctx context.Context, movie SearchResult) BlogContent {
	return g.synthesize(ctx, g.aiProvider, movie)
}

func (g *Generator) synthesize(ctx context.Context, provider ai.Provider, movie SearchResult) BlogContent {
	content := TemplateBlogContent(movie)

	if provider == nil {
		return content
	}

	body, err := provider.Generate(ctx, articleSystemPrompt, articlePrompt(movie))
	if err != nil {
		slog.Warn("ai generation failed, using template content",
			"provider", provider.Name(), "title", movie.Title, "error", err)
		return content
	}

	content.Content = body
	return content
}

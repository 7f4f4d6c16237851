package store

import (
	"database/sql"
	"fmt"

	"toonstream/internal/models"
)

// BlogPostStore handles all blog-post-related database operations.
type BlogPostStore struct {
	db *sql.DB
}

// NewBlogPostStore creates a new BlogPostStore with the given database connection.
func NewBlogPostStore(db *sql.DB) *BlogPostStore {
	return &BlogPostStore{db: db}
}

// FindPublishedBySlugAndCount retrieves a published post by its slug,
// joined with its parent movie's watch fields, and increments the view
// count as part of the same statement. The increment is a single UPDATE
// on the store side, so concurrent fetches of the same slug never lose a
// view; every successful fetch counts, repeats included. Returns nil for
// unknown or unpublished slugs, in which case nothing is incremented.
//
// The returned ViewCount includes the current view.
func (s *BlogPostStore) FindPublishedBySlugAndCount(slug string) (*models.BlogArticle, error) {
	a := &models.BlogArticle{}
	err := s.db.QueryRow(`
		WITH viewed AS (
			UPDATE blog_posts
			SET view_count = view_count + 1
			WHERE slug = $1 AND published = TRUE
			RETURNING id, movie_id, title, slug, content, excerpt,
			          seo_title, seo_description, seo_keywords,
			          view_count, published, created_at
		)
		SELECT v.id, v.movie_id, v.title, v.slug, v.content, v.excerpt,
		       v.seo_title, v.seo_description, v.seo_keywords,
		       v.view_count, v.published, v.created_at,
		       m.title, m.slug, m.video_embed_url, m.video_type
		FROM viewed v
		LEFT JOIN movies m ON m.id = v.movie_id
	`, slug).Scan(
		&a.ID, &a.MovieID, &a.Title, &a.Slug, &a.Content, &a.Excerpt,
		&a.SEOTitle, &a.SEODescription, &a.SEOKeywords,
		&a.ViewCount, &a.Published, &a.CreatedAt,
		&a.MovieTitle, &a.MovieSlug, &a.VideoEmbedURL, &a.VideoType,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves a post by slug without touching the view count.
// Returns nil if not found. Used by the watch page back-link lookup.
func (s *BlogPostStore) FindBySlug(slug string) (*models.BlogPost, error) {
	b := &models.BlogPost{}
	err := s.db.QueryRow(`
		SELECT id, movie_id, title, slug, content, excerpt,
		       seo_title, seo_description, seo_keywords,
		       view_count, published, created_at
		FROM blog_posts WHERE slug = $1
	`, slug).Scan(
		&b.ID, &b.MovieID, &b.Title, &b.Slug, &b.Content, &b.Excerpt,
		&b.SEOTitle, &b.SEODescription, &b.SEOKeywords,
		&b.ViewCount, &b.Published, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post: %w", err)
	}
	return b, nil
}

// Create inserts a new blog post and returns it with the generated ID.
func (s *BlogPostStore) Create(b *models.BlogPost) (*models.BlogPost, error) {
	result := &models.BlogPost{}
	err := s.db.QueryRow(`
		INSERT INTO blog_posts (movie_id, title, slug, content, excerpt,
		                        seo_title, seo_description, seo_keywords, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, movie_id, title, slug, content, excerpt,
		          seo_title, seo_description, seo_keywords,
		          view_count, published, created_at
	`, b.MovieID, b.Title, b.Slug, b.Content, b.Excerpt,
		b.SEOTitle, b.SEODescription, b.SEOKeywords, b.Published,
	).Scan(
		&result.ID, &result.MovieID, &result.Title, &result.Slug,
		&result.Content, &result.Excerpt, &result.SEOTitle,
		&result.SEODescription, &result.SEOKeywords,
		&result.ViewCount, &result.Published, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return result, nil
}

// CountPublished returns the number of published posts. Used by the admin
// dashboard.
func (s *BlogPostStore) CountPublished() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blog_posts WHERE published = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

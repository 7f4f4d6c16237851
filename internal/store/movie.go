package store

import (
	"database/sql"
	"fmt"

	"toonstream/internal/models"
)

// MovieStore handles all movie-related database operations.
type MovieStore struct {
	db *sql.DB
}

// NewMovieStore creates a new MovieStore with the given database connection.
func NewMovieStore(db *sql.DB) *MovieStore {
	return &MovieStore{db: db}
}

// ListPublished returns every published movie joined with its published
// review post (slug, excerpt, view count), newest first. Blog fields are
// nil when no published post references the movie. The full result set is
// returned; the catalog is small enough that pagination isn't worth it.
func (s *MovieStore) ListPublished() ([]models.MovieListing, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.title, m.slug, m.release_year, m.summary, m.trivia,
		       m.poster_url, m.video_embed_url, m.video_type,
		       m.seo_title, m.seo_description, m.seo_keywords,
		       m.published, m.created_at,
		       bp.slug, bp.excerpt, bp.view_count
		FROM movies m
		LEFT JOIN blog_posts bp ON bp.movie_id = m.id AND bp.published = TRUE
		WHERE m.published = TRUE
		ORDER BY m.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published movies: %w", err)
	}
	defer rows.Close()

	var listings []models.MovieListing
	for rows.Next() {
		var l models.MovieListing
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Slug, &l.ReleaseYear, &l.Summary, &l.Trivia,
			&l.PosterURL, &l.VideoEmbedURL, &l.VideoType,
			&l.SEOTitle, &l.SEODescription, &l.SEOKeywords,
			&l.Published, &l.CreatedAt,
			&l.BlogSlug, &l.BlogExcerpt, &l.ViewCount,
		); err != nil {
			return nil, fmt.Errorf("scan movie listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// FindPublishedBySlug retrieves a published movie by its slug.
// Returns nil if the slug is unknown or the movie is unpublished.
func (s *MovieStore) FindPublishedBySlug(slug string) (*models.Movie, error) {
	m := &models.Movie{}
	err := s.db.QueryRow(`
		SELECT id, title, slug, release_year, summary, trivia,
		       poster_url, video_embed_url, video_type,
		       seo_title, seo_description, seo_keywords,
		       published, created_at
		FROM movies WHERE slug = $1 AND published = TRUE
	`, slug).Scan(
		&m.ID, &m.Title, &m.Slug, &m.ReleaseYear, &m.Summary, &m.Trivia,
		&m.PosterURL, &m.VideoEmbedURL, &m.VideoType,
		&m.SEOTitle, &m.SEODescription, &m.SEOKeywords,
		&m.Published, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by slug: %w", err)
	}
	return m, nil
}

// SlugExists reports whether any movie (published or not) already uses the
// slug. The generator checks this before inserting to keep batch re-runs
// idempotent.
func (s *MovieStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM movies WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movie slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new movie and returns it with the generated ID and
// created_at timestamp.
func (s *MovieStore) Create(m *models.Movie) (*models.Movie, error) {
	result := &models.Movie{}
	err := s.db.QueryRow(`
		INSERT INTO movies (title, slug, release_year, summary, trivia,
		                    poster_url, video_embed_url, video_type,
		                    seo_title, seo_description, seo_keywords, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, title, slug, release_year, summary, trivia,
		          poster_url, video_embed_url, video_type,
		          seo_title, seo_description, seo_keywords,
		          published, created_at
	`, m.Title, m.Slug, m.ReleaseYear, m.Summary, m.Trivia,
		m.PosterURL, m.VideoEmbedURL, m.VideoType,
		m.SEOTitle, m.SEODescription, m.SEOKeywords, m.Published,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.ReleaseYear,
		&result.Summary, &result.Trivia, &result.PosterURL,
		&result.VideoEmbedURL, &result.VideoType, &result.SEOTitle,
		&result.SEODescription, &result.SEOKeywords,
		&result.Published, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return result, nil
}

// CountAll returns the total number of movies. Used by the admin dashboard.
func (s *MovieStore) CountAll() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

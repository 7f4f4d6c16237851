package models

import "time"

// BlogPost is a review article, usually paired with a movie through the
// weak MovieID reference. A post may exist without a movie; the watch
// call-to-action degrades to an inert notice in that case.
type BlogPost struct {
	ID             int64     `json:"id"`
	MovieID        *int64    `json:"movie_id,omitempty"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	Excerpt        *string   `json:"excerpt,omitempty"`
	SEOTitle       *string   `json:"seo_title,omitempty"`
	SEODescription *string   `json:"seo_description,omitempty"`
	SEOKeywords    *string   `json:"seo_keywords,omitempty"`
	ViewCount      int64     `json:"view_count"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasMovie reports whether the post references a movie.
func (b *BlogPost) HasMovie() bool {
	return b.MovieID != nil
}

// BlogArticle is a blog post joined with its parent movie's watch fields,
// as served by GET /api/blog/{slug}. Movie fields are nil for orphan posts.
type BlogArticle struct {
	BlogPost
	MovieTitle    *string    `json:"movie_title,omitempty"`
	MovieSlug     *string    `json:"movie_slug,omitempty"`
	VideoEmbedURL *string    `json:"video_embed_url,omitempty"`
	VideoType     *VideoType `json:"video_type,omitempty"`
}

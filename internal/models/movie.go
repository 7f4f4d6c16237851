package models

import "time"

// VideoType identifies the hosting provider of a movie's embed URL and
// selects the embed strategy used by the watch page.
type VideoType string

const (
	VideoTypeYouTube VideoType = "youtube"
	VideoTypeArchive VideoType = "archive"
	VideoTypeDrive   VideoType = "drive"
)

// Movie represents a single movie or episode listing. Movies are created by
// the content generator or an admin action and are never hard-deleted from
// public flows; unpublishing hides them instead.
type Movie struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	ReleaseYear    *int       `json:"release_year,omitempty"`
	Summary        *string    `json:"summary,omitempty"`
	Trivia         *string    `json:"trivia,omitempty"`
	PosterURL      *string    `json:"poster_url,omitempty"`
	VideoEmbedURL  *string    `json:"video_embed_url,omitempty"`
	VideoType      *VideoType `json:"video_type,omitempty"`
	SEOTitle       *string    `json:"seo_title,omitempty"`
	SEODescription *string    `json:"seo_description,omitempty"`
	SEOKeywords    *string    `json:"seo_keywords,omitempty"`
	Published      bool       `json:"published"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MovieListing is a movie joined with its published review post, as served
// by the homepage listing. The blog fields are nil when no published post
// references the movie.
type MovieListing struct {
	Movie
	BlogSlug    *string `json:"blog_slug,omitempty"`
	BlogExcerpt *string `json:"excerpt,omitempty"`
	ViewCount   *int64  `json:"view_count,omitempty"`
}

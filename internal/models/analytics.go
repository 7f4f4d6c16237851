package models

import "time"

// AnalyticsEvent is one append-only tracking record emitted by the client
// trackers. EventType is an open set of free-form tags (scroll_25,
// video_start, watch_time_60s, ...); new tags require no schema change.
// BlogID and MovieID are weak references carried for reporting only.
type AnalyticsEvent struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	PageURL   *string   `json:"page_url,omitempty"`
	BlogID    *int64    `json:"blog_id,omitempty"`
	MovieID   *int64    `json:"movie_id,omitempty"`
	UserIP    string    `json:"user_ip"`
	UserAgent string    `json:"user_agent"`
	Referrer  *string   `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

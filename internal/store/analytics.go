package store

import (
	"database/sql"
	"fmt"
	"time"

	"toonstream/internal/models"
)

// AnalyticsStore appends tracking events to the analytics table. The table
// is an append-only event log: no updates, no deletes.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore creates a new AnalyticsStore with the given database connection.
func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// Record appends one event. EventType is stored as-is; the tag set is open
// and never validated against an enum.
func (s *AnalyticsStore) Record(e *models.AnalyticsEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO analytics (event_type, page_url, blog_id, movie_id,
		                       user_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.EventType, e.PageURL, e.BlogID, e.MovieID,
		e.UserIP, e.UserAgent, e.Referrer,
	)
	if err != nil {
		return fmt.Errorf("record analytics event: %w", err)
	}
	return nil
}

// CountSince returns the number of events recorded at or after t. Used by
// the admin dashboard.
func (s *AnalyticsStore) CountSince(t time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM analytics WHERE created_at >= $1`, t).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count analytics events: %w", err)
	}
	return count, nil
}

// LastByType returns the most recent event with the given type, or nil if
// none exists. Handy for integration tests and spot checks.
func (s *AnalyticsStore) LastByType(eventType string) (*models.AnalyticsEvent, error) {
	e := &models.AnalyticsEvent{}
	err := s.db.QueryRow(`
		SELECT id, event_type, page_url, blog_id, movie_id,
		       user_ip, user_agent, referrer, created_at
		FROM analytics WHERE event_type = $1
		ORDER BY created_at DESC, id DESC LIMIT 1
	`, eventType).Scan(
		&e.ID, &e.EventType, &e.PageURL, &e.BlogID, &e.MovieID,
		&e.UserIP, &e.UserAgent, &e.Referrer, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last analytics event: %w", err)
	}
	return e, nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"toonstream/internal/models"
)

// SiteConfigStore manages the site_config key/value table.
type SiteConfigStore struct {
	db *sql.DB
}

// NewSiteConfigStore returns a new SiteConfigStore backed by the given database.
func NewSiteConfigStore(db *sql.DB) *SiteConfigStore {
	return &SiteConfigStore{db: db}
}

// All returns every config entry as a map. An empty table yields an empty
// map, not an error.
func (s *SiteConfigStore) All() (models.SiteConfig, error) {
	rows, err := s.db.Query(`SELECT config_key, config_value FROM site_config ORDER BY config_key`)
	if err != nil {
		return nil, fmt.Errorf("list site config: %w", err)
	}
	defer rows.Close()

	config := make(models.SiteConfig)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan site config: %w", err)
		}
		config[k] = v
	}
	return config, rows.Err()
}

// Get returns a single config value by key, or the fallback if the key is
// missing or empty.
func (s *SiteConfigStore) Get(key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT config_value FROM site_config WHERE config_key = $1`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get site config %q: %w", key, err)
	}
	if val == "" {
		return fallback, nil
	}
	return val, nil
}

// Set upserts a single config entry.
func (s *SiteConfigStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO site_config (config_key, config_value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (config_key)
		DO UPDATE SET config_value = EXCLUDED.config_value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set site config %q: %w", key, err)
	}
	return nil
}

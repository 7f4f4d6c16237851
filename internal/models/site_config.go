package models

import "strconv"

// Recognized site_config keys. The table is an open key/value set; these
// are the keys the server and clients actually read.
const (
	ConfigWatchButtonDelay = "watch_button_delay"
	ConfigSearchAPIKey     = "search_api_key"
	ConfigSearchEngineID   = "search_engine_id"
	ConfigAIAPIKey         = "ai_api_key"
)

// DefaultWatchButtonDelay is the countdown length in seconds used when the
// watch_button_delay key is absent or unparsable.
const DefaultWatchButtonDelay = 5

// SiteConfig is the full key/value configuration map as stored in the
// site_config table and served by GET /api/config.
type SiteConfig map[string]string

// WatchButtonDelay returns the configured countdown length in seconds,
// falling back to the default for missing or non-integer values.
func (c SiteConfig) WatchButtonDelay() int {
	v, ok := c[ConfigWatchButtonDelay]
	if !ok {
		return DefaultWatchButtonDelay
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return DefaultWatchButtonDelay
	}
	return n
}

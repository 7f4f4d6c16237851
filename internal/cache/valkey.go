// Package cache provides the Valkey client used for full-page HTML
// caching of the rendered site shells.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectValkey dials the page-cache backend and confirms it is
// reachable. The site runs fine without a cache, so callers treat an
// error here as a downgrade rather than a fatal condition. Timeouts are
// short: a slow cache must never be worse than no cache.
func ConnectValkey(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

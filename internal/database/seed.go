package database

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"toonstream/internal/generator"
	"toonstream/internal/models"
	"toonstream/internal/store"
)

// Seed prepares a fresh development database: it makes sure the watch
// button delay setting exists and, when the catalog is empty, runs one
// generator batch so the site has content to show. Existing data is
// never touched, so running it repeatedly is safe.
func Seed(ctx context.Context, configStore *store.SiteConfigStore, movieStore *store.MovieStore, gen *generator.Generator) error {
	delay, err := configStore.Get(models.ConfigWatchButtonDelay, "")
	if err != nil {
		return fmt.Errorf("read seed config: %w", err)
	}
	if delay == "" {
		if err := configStore.Set(models.ConfigWatchButtonDelay, strconv.Itoa(models.DefaultWatchButtonDelay)); err != nil {
			return fmt.Errorf("seed watch button delay: %w", err)
		}
		slog.Info("seeded default watch button delay", "seconds", models.DefaultWatchButtonDelay)
	}

	count, err := movieStore.CountAll()
	if err != nil {
		return fmt.Errorf("count movies for seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	res, err := gen.ProcessBatch(ctx)
	if err != nil {
		return fmt.Errorf("seed content batch: %w", err)
	}
	slog.Info("seeded initial content", "created", res.Created, "skipped", res.Skipped, "failed", res.Failed)
	return nil
}

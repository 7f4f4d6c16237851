// Package main is the entry point for the ToonStream server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"toonstream/internal/ai"
	"toonstream/internal/cache"
	"toonstream/internal/config"
	"toonstream/internal/database"
	"toonstream/internal/generator"
	"toonstream/internal/handlers"
	"toonstream/internal/render"
	"toonstream/internal/router"
	"toonstream/internal/store"
)

func main() {
	// Load .env for local development; a missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(context.Background(), cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Valkey is optional: without it the site serves uncached pages.
	var pageCache *cache.PageCache
	valkeyClient, err := cache.ConnectValkey(context.Background(), cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, serving without page cache", "error", err)
	} else {
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	movieStore := store.NewMovieStore(db)
	blogStore := store.NewBlogPostStore(db)
	configStore := store.NewSiteConfigStore(db)
	analyticsStore := store.NewAnalyticsStore(db)

	// The generator runs template-only unless an LLM key is configured.
	var genOpts []generator.Option
	if cfg.AIAPIKey != "" {
		provider := ai.NewChatProvider(ai.Config{
			APIKey:  cfg.AIAPIKey,
			Model:   cfg.AIModel,
			BaseURL: cfg.AIBaseURL,
		})
		genOpts = append(genOpts, generator.WithAIProvider(provider))
		slog.Info("ai provider configured", "provider", provider.Name())
	}
	gen := generator.New(movieStore, blogStore, configStore, genOpts...)

	if cfg.IsDev() {
		if err := database.Seed(context.Background(), configStore, movieStore, gen); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	apiHandlers := handlers.NewAPI(movieStore, blogStore, configStore, analyticsStore, gen, pageCache)
	pageHandlers := handlers.NewPages(renderer, movieStore, blogStore, configStore, pageCache)
	adminHandlers := handlers.NewAdmin(renderer, movieStore, blogStore, analyticsStore)

	r := router.New(apiHandlers, pageHandlers, adminHandlers)

	// WriteTimeout accommodates generator runs that wait on the search
	// provider or an LLM.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// Package main is the entry point for the indomart catalog server.
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

	"github.com/redis/go-redis/v9"

	"indomart/internal/cache"
	"indomart/internal/config"
	"indomart/internal/database"
	"indomart/internal/handlers"
	"indomart/internal/metrics"
	"indomart/internal/middleware"
	"indomart/internal/router"
	"indomart/internal/search"
	"indomart/internal/storage"
	"indomart/internal/store"
)

func main() {
	// Load configuration from the environment (and .env when present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(context.Background(), db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the search cache (optional, search works without it).
	var valkeyClient *redis.Client
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, search cache disabled", "error", err)
			valkeyClient = nil
		} else {
			defer valkeyClient.Close()
		}
	}
	searchCache := cache.NewSearchCache(valkeyClient, cfg.SearchCacheTTL)

	// Connect to S3-compatible object storage (optional, brochure uploads need it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var urls search.URLBuilder = storage.BaseURL(cfg.MediaBaseURL)
	if storageClient != nil {
		urls = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, brochure uploads disabled", "media_base_url", cfg.MediaBaseURL)
	}

	if cfg.AdminTokenHash == "" {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin routes will reject every request")
	}

	m := metrics.New()

	opts := []search.Option{search.WithMetrics(m)}
	if searchCache != nil {
		opts = append(opts, search.WithCache(searchCache))
	}
	resolver := search.NewResolver(store.NewCatalogIndex(db), urls, opts...)

	catalogHandlers := handlers.NewCatalog(db, searchCache, storageClient, urls, m)
	searchHandlers := handlers.NewSearch(resolver)

	var searchLimiter *middleware.RateLimiter
	if cfg.SearchRateLimit > 0 {
		searchLimiter = middleware.NewRateLimiter(cfg.SearchRateLimit, time.Minute)
		defer searchLimiter.Stop()
	}

	r := router.New(m, cfg.AdminTokenHash, searchLimiter, catalogHandlers, searchHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout leaves
	// room for 20 MB brochure uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

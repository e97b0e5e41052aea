// Package main is the entry point for the Thinkify API server.
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

	"thinkify/internal/auth"
	"thinkify/internal/cache"
	"thinkify/internal/config"
	"thinkify/internal/database"
	"thinkify/internal/handlers"
	"thinkify/internal/router"
	"thinkify/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

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
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (trending cache + token denylist).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	commentStore := store.NewCommentStore(db)
	reactionStore := store.NewReactionStore(db)
	followStore := store.NewFollowStore(db)
	bookmarkStore := store.NewBookmarkStore(db)

	// Category post counts are bumped best-effort on post writes; reconcile
	// drift at startup and then hourly.
	if err := categoryStore.ReconcilePostCounts(); err != nil {
		slog.Warn("post count reconcile failed", "error", err)
	}
	reconcileStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := categoryStore.ReconcilePostCounts(); err != nil {
					slog.Warn("post count reconcile failed", "error", err)
				}
			case <-reconcileStop:
				return
			}
		}
	}()
	defer close(reconcileStop)

	// Token auth. In non-development environments auth cookies are Secure
	// (HTTPS-only).
	secureCookies := !cfg.IsDev()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL, secureCookies)
	denylist := auth.NewDenylist(valkeyClient)

	// Trending snapshot cache in Valkey.
	trendingCache := cache.NewTrendingCache(valkeyClient, cache.DefaultTrendingTTL)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(tokens, denylist, userStore)
	postHandlers := handlers.NewPosts(postStore, categoryStore, reactionStore, bookmarkStore, trendingCache)
	commentHandlers := handlers.NewComments(commentStore, reactionStore)
	userHandlers := handlers.NewUsers(userStore, postStore, followStore, bookmarkStore)
	categoryHandlers := handlers.NewCategories(categoryStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		ClientOrigin: cfg.ClientOrigin,
		Tokens:       tokens,
		Denylist:     denylist,
		Users:        userStore,
		Auth:         authHandlers,
		Posts:        postHandlers,
		Comments:     commentHandlers,
		UserPages:    userHandlers,
		Categories:   categoryHandlers,
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

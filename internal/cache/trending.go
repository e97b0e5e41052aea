// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// trending.go caches the trending-posts listing in Valkey. The trending
// score ranks every published post on each computation, so serving the
// snapshot for a few minutes keeps the homepage cheap.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"thinkify/internal/models"
)

const (
	// trendingKey is the Valkey key for the cached trending listing.
	trendingKey = "posts:trending"

	// DefaultTrendingTTL is how long a trending snapshot stays cached.
	DefaultTrendingTTL = 5 * time.Minute
)

// TrendingCache stores the trending post listing in Valkey.
type TrendingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTrendingCache creates a trending cache backed by the given Valkey client.
func NewTrendingCache(client *redis.Client, ttl time.Duration) *TrendingCache {
	if ttl == 0 {
		ttl = DefaultTrendingTTL
	}
	return &TrendingCache{client: client, ttl: ttl}
}

// Get retrieves the cached trending listing. Returns (nil, false) on miss.
// Cache errors degrade to a miss so the caller falls back to the database.
func (tc *TrendingCache) Get(ctx context.Context) ([]models.Post, bool) {
	payload, err := tc.client.Get(ctx, trendingKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("trending cache get error", "error", err)
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		slog.Warn("trending cache decode error", "error", err)
		return nil, false
	}
	return posts, true
}

// Set stores a trending listing with the configured TTL.
func (tc *TrendingCache) Set(ctx context.Context, posts []models.Post) {
	payload, err := json.Marshal(posts)
	if err != nil {
		slog.Warn("trending cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, trendingKey, payload, tc.ttl).Err(); err != nil {
		slog.Warn("trending cache set error", "error", err)
	}
}

// Invalidate drops the cached listing. Called when a post is deleted so a
// removed post doesn't linger on the homepage.
func (tc *TrendingCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, trendingKey).Err(); err != nil {
		slog.Warn("trending cache invalidate error", "error", err)
	}
}

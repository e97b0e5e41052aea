// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"thinkify/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, trendingKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestTrendingCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTrendingCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	posts, ok := tc.Get(ctx)
	if ok {
		t.Error("expected cache miss")
	}
	if posts != nil {
		t.Error("expected nil posts on miss")
	}

	// Set.
	want := []models.Post{
		{ID: uuid.New(), Title: "Cached post", Slug: "cached-post", Views: 7},
	}
	tc.Set(ctx, want)

	// Hit.
	posts, ok = tc.Get(ctx)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(posts) != 1 {
		t.Fatalf("posts: got %d, want 1", len(posts))
	}
	if posts[0].ID != want[0].ID || posts[0].Slug != want[0].Slug || posts[0].Views != 7 {
		t.Errorf("cached post mismatch: got %+v", posts[0])
	}
}

func TestTrendingCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTrendingCache(client, 1*time.Minute)

	ctx := context.Background()

	tc.Set(ctx, []models.Post{{ID: uuid.New(), Title: "Soon gone"}})
	if _, ok := tc.Get(ctx); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	tc.Invalidate(ctx)

	if _, ok := tc.Get(ctx); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestTrendingCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTrendingCache(client, 100*time.Millisecond)

	ctx := context.Background()

	tc.Set(ctx, []models.Post{{ID: uuid.New(), Title: "Short lived"}})
	time.Sleep(150 * time.Millisecond)

	if _, ok := tc.Get(ctx); ok {
		t.Error("expected entry to expire after the TTL")
	}
}

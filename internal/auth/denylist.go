// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces denylist keys in Valkey to avoid collisions.
const denyKeyPrefix = "token:deny:"

// Denylist records revoked token IDs (jti) in Valkey until their natural
// expiry. Logout pushes the current token here so a stolen cookie stops
// working immediately instead of at expiry.
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a denylist backed by the given Valkey client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks a token ID as revoked until the given expiry time.
func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // Already expired, nothing to record.
	}
	return d.client.Set(ctx, denyKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked. Valkey errors are
// logged and treated as "not revoked" so an unavailable cache degrades to
// expiry-only revocation rather than locking everyone out.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) bool {
	err := d.client.Get(ctx, denyKeyPrefix+jti).Err()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("denylist lookup failed", "error", err)
		return false
	}
	return true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"thinkify/internal/auth"
	"thinkify/internal/models"
	"thinkify/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// Authenticate resolves the request's token (cookie or Bearer header) to a
// user and stores it in the request context. It does NOT enforce
// authentication — an absent, invalid, or revoked token just leaves the
// request anonymous. Handlers that need a user apply RequireUser on top.
//
// Side effect: a valid token bumps the user's last_active timestamp.
func Authenticate(tokens *auth.Manager, denylist *auth.Denylist, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil || denylist.IsRevoked(r.Context(), claims.ID) {
				next.ServeHTTP(w, r)
				return
			}

			id, err := claims.UserID()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(id)
			if err != nil || user == nil || !user.IsActive {
				// Token holder no longer exists or is deactivated.
				next.ServeHTTP(w, r)
				return
			}

			users.TouchLastActive(user.ID)

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests with 401. Must be applied after
// Authenticate in the middleware chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "Not authorized. Please log in.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated users whose role is not in the allowed
// set with 403. Must be applied after RequireUser.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized. Please log in.")
				return
			}
			if !allowed[user.Role] {
				writeJSONError(w, http.StatusForbidden, "You do not have permission to do this.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil for anonymous requests.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a context carrying the given user. Exposed for handler
// tests that bypass the Authenticate middleware.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

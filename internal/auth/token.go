// Package auth issues and verifies the signed tokens that identify users.
// Tokens are JWTs carried in an HttpOnly cookie (or a Bearer header for
// non-browser clients) and can be revoked before expiry via a Valkey-backed
// denylist.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"thinkify/internal/models"
)

// CookieName is the name of the auth cookie sent to the browser.
const CookieName = "thinkify_token"

// ErrInvalidToken is returned for tokens that are expired, malformed,
// signed with the wrong key, or revoked.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. The registered ID (jti) keys the denylist.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager mints and parses tokens with a shared HMAC secret.
type Manager struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
}

// NewManager creates a token manager. secureCookies should be true in any
// environment served over TLS.
func NewManager(secret string, ttl time.Duration, secureCookies bool) *Manager {
	return &Manager{
		secret:        []byte(secret),
		ttl:           ttl,
		secureCookies: secureCookies,
	}
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Mint creates a signed token for the given user.
func (m *Manager) Mint(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID returns the subject claim as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// SetCookie attaches the token to the response as an HttpOnly cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

// ClearCookie expires the auth cookie immediately.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// TokenFromRequest extracts the raw token from the auth cookie, falling
// back to an Authorization: Bearer header. Returns "" if neither is present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

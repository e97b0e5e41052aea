// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"thinkify/internal/auth"
	"thinkify/internal/middleware"
	"thinkify/internal/store"
)

// Auth groups the registration, login, and session handlers.
type Auth struct {
	tokens   *auth.Manager
	denylist *auth.Denylist
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(tokens *auth.Manager, denylist *auth.Denylist, users *store.UserStore) *Auth {
	return &Auth{
		tokens:   tokens,
		denylist: denylist,
		users:    users,
	}
}

// Register creates a new account and signs the user in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateRegistration(req.Username, req.Email, req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.Create(req.Username, req.Email, req.Password, strings.TrimSpace(req.DisplayName))
	if err != nil {
		if field, ok := store.ConflictField(err); ok {
			respondError(w, http.StatusBadRequest, "That "+field+" is already taken.")
			return
		}
		respondServerError(w, "register failed", err)
		return
	}

	token, err := a.tokens.Mint(user)
	if err != nil {
		respondServerError(w, "token mint failed", err)
		return
	}
	a.tokens.SetCookie(w, token)

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login authenticates by email or username plus password.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Identifier and password are required.")
		return
	}

	found, err := a.users.FindByEmail(identifier)
	if err == nil && found == nil {
		found, err = a.users.FindByUsername(identifier)
	}
	if err != nil {
		respondServerError(w, "login lookup failed", err)
		return
	}

	// Same message for unknown identifier and wrong password.
	if found == nil || !a.users.CheckPassword(found, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if !found.IsActive {
		respondError(w, http.StatusForbidden, "This account has been deactivated.")
		return
	}

	token, err := a.tokens.Mint(found)
	if err != nil {
		respondServerError(w, "token mint failed", err)
		return
	}
	a.tokens.SetCookie(w, token)
	a.users.TouchLastActive(found.ID)

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    found,
	})
}

// Logout revokes the current token and clears the cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := auth.TokenFromRequest(r); raw != "" {
		if claims, err := a.tokens.Parse(raw); err == nil && claims.ExpiresAt != nil {
			if err := a.denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				respondServerError(w, "token revoke failed", err)
				return
			}
		}
	}

	a.tokens.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out.",
	})
}

// Me returns the authenticated user's own record.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// UpdatePassword changes the caller's password after verifying the current
// one, then issues a fresh token.
func (a *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if !a.users.CheckPassword(user, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect.")
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	}

	if err := a.users.UpdatePassword(user.ID, req.NewPassword); err != nil {
		respondServerError(w, "update password failed", err)
		return
	}

	token, err := a.tokens.Mint(user)
	if err != nil {
		respondServerError(w, "token mint failed", err)
		return
	}
	a.tokens.SetCookie(w, token)

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"message": "Password updated.",
	})
}

// CheckUsername reports whether a username is still available.
func (a *Auth) CheckUsername(w http.ResponseWriter, r *http.Request) {
	taken, err := a.users.UsernameTaken(chi.URLParam(r, "username"))
	if err != nil {
		respondServerError(w, "check username failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"available": !taken,
	})
}

// CheckEmail reports whether an email is still available.
func (a *Auth) CheckEmail(w http.ResponseWriter, r *http.Request) {
	taken, err := a.users.EmailTaken(chi.URLParam(r, "email"))
	if err != nil {
		respondServerError(w, "check email failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"available": !taken,
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thinkify/internal/middleware"
	"thinkify/internal/models"
	"thinkify/internal/store"
)

// Users groups the public profile, follow, and bookmark handlers.
type Users struct {
	users     *store.UserStore
	posts     *store.PostStore
	follows   *store.FollowStore
	bookmarks *store.BookmarkStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, posts *store.PostStore, follows *store.FollowStore, bookmarks *store.BookmarkStore) *Users {
	return &Users{
		users:     users,
		posts:     posts,
		follows:   follows,
		bookmarks: bookmarks,
	}
}

// Search finds users by username or display name fragment.
func (h *Users) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < 2 {
		respondError(w, http.StatusBadRequest, "Search query must be at least 2 characters.")
		return
	}

	page, limit := parsePage(r), parseLimit(r)
	users, total, err := h.users.Search(q, page, limit)
	if err != nil {
		respondServerError(w, "user search failed", err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"users":      users,
		"pagination": newPagination(page, limit, int64(total)),
	})
}

// Profile returns a user's public profile with post and follow counts.
// Authenticated callers also learn whether they follow this user.
func (h *Users) Profile(w http.ResponseWriter, r *http.Request) {
	found, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondServerError(w, "profile lookup failed", err)
		return
	}
	if found == nil || !found.IsActive {
		respondError(w, http.StatusNotFound, "User not found.")
		return
	}

	found.PostCount, err = h.posts.CountPublishedByAuthor(found.ID)
	if err != nil {
		respondServerError(w, "post count failed", err)
		return
	}
	found.FollowerCount, found.FollowingCount, err = h.follows.Counts(found.ID)
	if err != nil {
		respondServerError(w, "follow counts failed", err)
		return
	}

	caller := middleware.UserFromCtx(r.Context())
	if caller == nil || caller.ID != found.ID {
		// Email stays private to the account owner.
		found.Email = ""
	}

	body := map[string]any{
		"success": true,
		"user":    found,
	}
	if caller != nil && caller.ID != found.ID {
		following, err := h.follows.IsFollowing(caller.ID, found.ID)
		if err != nil {
			respondServerError(w, "is-following lookup failed", err)
			return
		}
		body["isFollowing"] = following
	}

	respondJSON(w, http.StatusOK, body)
}

// UpdateProfile applies a partial edit to the caller's own profile.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req struct {
		DisplayName *string             `json:"displayName"`
		Bio         *string             `json:"bio"`
		Avatar      *string             `json:"avatar"`
		Preferences *models.Preferences `json:"preferences"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	displayName, bio := user.DisplayName, user.Bio
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &trimmed
		displayName = trimmed
	}
	if req.Bio != nil {
		bio = *req.Bio
	}
	if msg := validateProfile(displayName, bio); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, store.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
		Preferences: req.Preferences,
	})
	if err != nil {
		respondServerError(w, "update profile failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    updated,
	})
}

// ToggleFollow follows or unfollows the target user.
func (h *Users) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	target, err := h.users.FindByID(targetID)
	if err != nil {
		respondServerError(w, "follow target lookup failed", err)
		return
	}
	if target == nil || !target.IsActive {
		respondError(w, http.StatusNotFound, "User not found.")
		return
	}

	following, err := h.follows.Toggle(caller.ID, target.ID)
	if err != nil {
		if errors.Is(err, store.ErrSelfFollow) {
			respondError(w, http.StatusBadRequest, "You cannot follow yourself.")
			return
		}
		respondServerError(w, "toggle follow failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"isFollowing": following,
	})
}

// Followers lists the users following the named user.
func (h *Users) Followers(w http.ResponseWriter, r *http.Request) {
	h.listFollows(w, r, h.follows.Followers, "followers")
}

// Following lists the users the named user follows.
func (h *Users) Following(w http.ResponseWriter, r *http.Request) {
	h.listFollows(w, r, h.follows.Following, "following")
}

func (h *Users) listFollows(w http.ResponseWriter, r *http.Request, load func(uuid.UUID) ([]models.UserSummary, error), key string) {
	found, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondServerError(w, "user lookup failed", err)
		return
	}
	if found == nil || !found.IsActive {
		respondError(w, http.StatusNotFound, "User not found.")
		return
	}

	users, err := load(found.ID)
	if err != nil {
		respondServerError(w, "list follows failed", err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		key:       users,
	})
}

// UserPosts lists the named user's published posts.
func (h *Users) UserPosts(w http.ResponseWriter, r *http.Request) {
	found, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondServerError(w, "user lookup failed", err)
		return
	}
	if found == nil || !found.IsActive {
		respondError(w, http.StatusNotFound, "User not found.")
		return
	}

	opts := store.ListOptions{
		AuthorID: found.ID,
		Sort:     r.URL.Query().Get("sort"),
		Page:     parsePage(r),
		Limit:    parseLimit(r),
	}
	posts, total, err := h.posts.List(opts)
	if err != nil {
		respondServerError(w, "list user posts failed", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"posts":      posts,
		"pagination": newPagination(opts.Page, opts.Limit, int64(total)),
	})
}

// Bookmarks lists the caller's saved posts, most recently saved first.
func (h *Users) Bookmarks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	page, limit := parsePage(r), parseLimit(r)
	posts, total, err := h.bookmarks.ListPosts(user.ID, page, limit)
	if err != nil {
		respondServerError(w, "list bookmarks failed", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"posts":      posts,
		"pagination": newPagination(page, limit, int64(total)),
	})
}

// ToggleBookmark saves or unsaves a post for the caller.
func (h *Users) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post id.")
		return
	}
	post, err := h.posts.FindByID(postID)
	if err != nil {
		respondServerError(w, "post lookup failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found.")
		return
	}

	bookmarked, err := h.bookmarks.Toggle(user.ID, post.ID)
	if err != nil {
		respondServerError(w, "toggle bookmark failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"isBookmarked": bookmarked,
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thinkify/internal/cache"
	"thinkify/internal/middleware"
	"thinkify/internal/models"
	"thinkify/internal/store"
)

// Posts groups the post CRUD, listing, and reaction handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	reactions  *store.ReactionStore
	bookmarks  *store.BookmarkStore
	trending   *cache.TrendingCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, reactions *store.ReactionStore, bookmarks *store.BookmarkStore, trending *cache.TrendingCache) *Posts {
	return &Posts{
		posts:      posts,
		categories: categories,
		reactions:  reactions,
		bookmarks:  bookmarks,
		trending:   trending,
	}
}

// List returns a filtered, sorted page of published posts.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{
		CategorySlug: q.Get("category"),
		Tag:          q.Get("tag"),
		Search:       strings.TrimSpace(q.Get("search")),
		Sort:         q.Get("sort"),
		Page:         parsePage(r),
		Limit:        parseLimit(r),
	}

	posts, total, err := h.posts.List(opts)
	if err != nil {
		respondServerError(w, "list posts failed", err)
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

// Trending returns the highest-scoring published posts, served from the
// Valkey snapshot when fresh.
func (h *Posts) Trending(w http.ResponseWriter, r *http.Request) {
	if posts, ok := h.trending.Get(r.Context()); ok {
		respondJSON(w, http.StatusOK, map[string]any{"success": true, "posts": posts})
		return
	}

	posts, err := h.posts.Trending(defaultPageSize)
	if err != nil {
		respondServerError(w, "trending posts failed", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	h.trending.Set(r.Context(), posts)

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "posts": posts})
}

// Feed returns posts from the authors the caller follows, plus their own,
// newest first.
func (h *Posts) Feed(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	page, limit := parsePage(r), parseLimit(r)
	posts, total, err := h.posts.Feed(user.ID, page, limit)
	if err != nil {
		respondServerError(w, "feed failed", err)
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

// Get returns a single post by slug, bumps its view counter, and, for
// authenticated callers, reports their own reaction and bookmark state.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondServerError(w, "get post failed", err)
		return
	}
	if post == nil || post.Status != models.PostStatusPublished {
		respondError(w, http.StatusNotFound, "Post not found.")
		return
	}

	if err := h.posts.IncrementViews(post.ID); err != nil {
		respondServerError(w, "increment views failed", err)
		return
	}
	post.Views++

	body := map[string]any{
		"success": true,
		"post":    post,
	}

	if user := middleware.UserFromCtx(r.Context()); user != nil {
		kind, err := h.reactions.KindFor(models.SubjectPost, post.ID, user.ID)
		if err != nil {
			respondServerError(w, "read reaction failed", err)
			return
		}
		bookmarked, err := h.bookmarks.Has(user.ID, post.ID)
		if err != nil {
			respondServerError(w, "read bookmark failed", err)
			return
		}
		body["userInteraction"] = map[string]any{
			"reaction":     kind,
			"isBookmarked": bookmarked,
		}
	}

	respondJSON(w, http.StatusOK, body)
}

// postRequest is the payload for creating or editing a post.
type postRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	CategoryID *string  `json:"categoryId"`
	Tags       []string `json:"tags"`
	CoverImage *string  `json:"coverImage"`
	Status     *string  `json:"status"`
}

// Create publishes a new post by the authenticated user.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req postRequest
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Title == nil || req.Content == nil || req.CategoryID == nil {
		respondError(w, http.StatusBadRequest, "Title, content and categoryId are required.")
		return
	}
	if msg := validatePost(*req.Title, *req.Content, req.Tags); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	categoryID, err := uuid.Parse(*req.CategoryID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id.")
		return
	}
	category, err := h.categories.FindByID(categoryID)
	if err != nil {
		respondServerError(w, "category lookup failed", err)
		return
	}
	if category == nil || !category.IsActive {
		respondError(w, http.StatusBadRequest, "Category not found.")
		return
	}

	post := &models.Post{
		Title:      strings.TrimSpace(*req.Title),
		Content:    *req.Content,
		AuthorID:   user.ID,
		CategoryID: categoryID,
		Tags:       req.Tags,
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.Status != nil && *req.Status == string(models.PostStatusDraft) {
		post.Status = models.PostStatusDraft
	}

	created, err := h.posts.Create(post)
	if err != nil {
		respondServerError(w, "create post failed", err)
		return
	}
	h.trending.Invalidate(r.Context())

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"post":    created,
	})
}

// loadOwnedPost fetches the post by URL id and checks the caller may modify
// it (author, or a moderator). Writes the error response itself and returns
// nil when the caller should stop.
func (h *Posts) loadOwnedPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post id.")
		return nil
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "get post failed", err)
		return nil
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found.")
		return nil
	}

	user := middleware.UserFromCtx(r.Context())
	if post.AuthorID != user.ID && !user.CanModerate() {
		respondError(w, http.StatusForbidden, "You cannot modify this post.")
		return nil
	}
	return post
}

// Update applies a partial edit to a post.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}

	var req postRequest
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	title := post.Title
	content := post.Content
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		content = *req.Content
	}
	if msg := validatePost(title, content, req.Tags); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	upd := store.PostUpdate{
		Content:    req.Content,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
	}
	if req.Title != nil {
		upd.Title = &title
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid category id.")
			return
		}
		category, err := h.categories.FindByID(categoryID)
		if err != nil {
			respondServerError(w, "category lookup failed", err)
			return
		}
		if category == nil || !category.IsActive {
			respondError(w, http.StatusBadRequest, "Category not found.")
			return
		}
		upd.CategoryID = &categoryID
	}
	if req.Status != nil {
		status := models.PostStatus(*req.Status)
		switch status {
		case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
			upd.Status = &status
		default:
			respondError(w, http.StatusBadRequest, "Invalid status.")
			return
		}
	}

	updated, err := h.posts.Update(post, upd)
	if err != nil {
		respondServerError(w, "update post failed", err)
		return
	}
	h.trending.Invalidate(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"post":    updated,
	})
}

// Delete removes a post and everything hanging off it.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}

	if err := h.posts.Delete(post); err != nil {
		respondServerError(w, "delete post failed", err)
		return
	}
	h.trending.Invalidate(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Post deleted.",
	})
}

// ToggleLike flips the caller's like on a post.
func (h *Posts) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, models.ReactionLiked)
}

// ToggleDislike flips the caller's dislike on a post.
func (h *Posts) ToggleDislike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, models.ReactionDisliked)
}

func (h *Posts) toggleReaction(w http.ResponseWriter, r *http.Request, kind models.ReactionKind) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post id.")
		return
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "get post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found.")
		return
	}

	result, err := h.reactions.Toggle(models.SubjectPost, post.ID, user.ID, kind)
	if err != nil {
		respondServerError(w, "toggle reaction failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toggleBody(kind, result))
}

// toggleBody shapes a reaction toggle response. The boolean key names the
// kind that was toggled, so a like answers {"liked": ...} and a dislike
// answers {"disliked": ...}.
func toggleBody(kind models.ReactionKind, result *store.ToggleResult) map[string]any {
	key := "liked"
	if kind == models.ReactionDisliked {
		key = "disliked"
	}
	return map[string]any{
		"success":      true,
		key:            result.Active,
		"likeCount":    result.LikeCount,
		"dislikeCount": result.DislikeCount,
	}
}

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

// Comments groups the comment threading, editing, and reaction handlers.
type Comments struct {
	comments  *store.CommentStore
	reactions *store.ReactionStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, reactions *store.ReactionStore) *Comments {
	return &Comments{
		comments:  comments,
		reactions: reactions,
	}
}

// Create posts a top-level comment or a reply. Placement rules live in the
// store; this handler translates its sentinel errors to HTTP statuses.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req struct {
		Content       string  `json:"content"`
		PostID        string  `json:"postId"`
		ParentComment *string `json:"parentComment"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateComment(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post id.")
		return
	}

	var parentID *uuid.UUID
	if req.ParentComment != nil && *req.ParentComment != "" {
		id, err := uuid.Parse(*req.ParentComment)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid parent comment id.")
			return
		}
		parentID = &id
	}

	comment, err := h.comments.Create(strings.TrimSpace(req.Content), user.ID, postID, parentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPostLocked):
			respondError(w, http.StatusForbidden, "This post is locked.")
		case errors.Is(err, store.ErrParentNotFound):
			respondError(w, http.StatusNotFound, "Parent comment not found.")
		case errors.Is(err, store.ErrParentMismatch):
			respondError(w, http.StatusBadRequest, "Parent comment belongs to a different post.")
		case errors.Is(err, store.ErrNestedReply):
			respondError(w, http.StatusBadRequest, "Replies cannot be nested. Reply to the top-level comment instead.")
		default:
			respondServerError(w, "create comment failed", err)
		}
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "Post not found.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"comment": comment,
	})
}

// ListForPost returns one page of a post's top-level comments with reply
// previews.
func (h *Comments) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post id.")
		return
	}

	page, limit := parsePage(r), parseLimit(r)
	comments, total, err := h.comments.ListForPost(postID, r.URL.Query().Get("sort"), page, limit)
	if err != nil {
		respondServerError(w, "list comments failed", err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"comments":   comments,
		"pagination": newPagination(page, limit, int64(total)),
	})
}

// ListReplies returns one page of a comment's replies, oldest first.
func (h *Comments) ListReplies(w http.ResponseWriter, r *http.Request) {
	parentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid comment id.")
		return
	}

	page, limit := parsePage(r), parseLimit(r)
	replies, total, err := h.comments.ListReplies(parentID, page, limit)
	if err != nil {
		respondServerError(w, "list replies failed", err)
		return
	}
	if replies == nil {
		replies = []models.Comment{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"replies":    replies,
		"pagination": newPagination(page, limit, int64(total)),
	})
}

// loadOwnedComment fetches the comment by URL id and checks the caller may
// modify it. Writes the error response itself and returns nil when the
// caller should stop.
func (h *Comments) loadOwnedComment(w http.ResponseWriter, r *http.Request) *models.Comment {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid comment id.")
		return nil
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondServerError(w, "get comment failed", err)
		return nil
	}
	if comment == nil || comment.Status == models.CommentStatusDeleted {
		respondError(w, http.StatusNotFound, "Comment not found.")
		return nil
	}

	user := middleware.UserFromCtx(r.Context())
	if comment.AuthorID != user.ID && !user.CanModerate() {
		respondError(w, http.StatusForbidden, "You cannot modify this comment.")
		return nil
	}
	return comment
}

// Update edits a comment's content, marking it edited.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	comment := h.loadOwnedComment(w, r)
	if comment == nil {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateComment(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.comments.UpdateContent(comment, strings.TrimSpace(req.Content))
	if err != nil {
		respondServerError(w, "update comment failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"comment": updated,
	})
}

// Delete soft-deletes a comment, keeping its replies attached.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	comment := h.loadOwnedComment(w, r)
	if comment == nil {
		return
	}

	if err := h.comments.SoftDelete(comment); err != nil {
		respondServerError(w, "delete comment failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Comment deleted.",
	})
}

// ToggleLike flips the caller's like on a comment.
func (h *Comments) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, models.ReactionLiked)
}

// ToggleDislike flips the caller's dislike on a comment.
func (h *Comments) ToggleDislike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, models.ReactionDisliked)
}

func (h *Comments) toggleReaction(w http.ResponseWriter, r *http.Request, kind models.ReactionKind) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid comment id.")
		return
	}
	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondServerError(w, "get comment failed", err)
		return
	}
	if comment == nil || comment.Status == models.CommentStatusDeleted {
		respondError(w, http.StatusNotFound, "Comment not found.")
		return
	}
	// A locked post freezes its whole thread, reactions included.
	if comment.PostLocked {
		respondError(w, http.StatusForbidden, "This post is locked.")
		return
	}

	result, err := h.reactions.Toggle(models.SubjectComment, comment.ID, user.ID, kind)
	if err != nil {
		respondServerError(w, "toggle reaction failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toggleBody(kind, result))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus represents the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusActive  CommentStatus = "active"
	CommentStatusDeleted CommentStatus = "deleted"
	CommentStatusFlagged CommentStatus = "flagged"
	CommentStatusHidden  CommentStatus = "hidden"
)

// DeletedCommentPlaceholder replaces the content of soft-deleted comments.
// The row itself is kept so reply threads retain their shape.
const DeletedCommentPlaceholder = "[This comment has been deleted]"

// Comment is a top-level comment on a post (ParentID == nil) or a direct
// reply to a top-level comment. Threading is one level deep: a reply can
// never be the parent of another comment.
//
// ReplyCount is denormalized and only meaningful on top-level comments; it
// tracks the number of active replies and is recomputed on every reply write.
type Comment struct {
	ID         uuid.UUID     `json:"id"`
	Content    string        `json:"content"`
	AuthorID   uuid.UUID     `json:"authorId"`
	PostID     uuid.UUID     `json:"postId"`
	ParentID   *uuid.UUID    `json:"parentComment"`
	IsEdited   bool          `json:"isEdited"`
	EditedAt   *time.Time    `json:"editedAt,omitempty"`
	Status     CommentStatus `json:"status"`
	ReplyCount int           `json:"replyCount"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Author       *UserSummary `json:"author,omitempty"`
	LikeCount    int          `json:"likeCount"`
	DislikeCount int          `json:"dislikeCount"`
	Replies      []Comment    `json:"replies,omitempty"`

	// PostLocked mirrors the owning post's is_locked flag so callers can
	// refuse writes against comments of a locked post without a second
	// lookup. Not serialized.
	PostLocked bool `json:"-"`
}

// IsReply returns true if this comment is attached to a parent comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

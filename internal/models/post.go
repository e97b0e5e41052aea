// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
	PostStatusFlagged   PostStatus = "flagged"
)

// Post represents a discussion thread opener authored under a category.
//
// CommentCount is denormalized: it always tracks the number of active
// top-level comments and is recomputed by the comment store on every
// comment write. Callers must never set it directly. LastActivity is
// bumped on every save and on every new comment.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Excerpt      string     `json:"excerpt"`
	AuthorID     uuid.UUID  `json:"authorId"`
	CategoryID   uuid.UUID  `json:"categoryId"`
	Tags         []string   `json:"tags"`
	CoverImage   string     `json:"coverImage"`
	Views        int        `json:"views"`
	Status       PostStatus `json:"status"`
	IsPinned     bool       `json:"isPinned"`
	IsLocked     bool       `json:"isLocked"`
	CommentCount int        `json:"commentCount"`
	LastActivity time.Time  `json:"lastActivity"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Author       *UserSummary     `json:"author,omitempty"`
	Category     *CategorySummary `json:"category,omitempty"`
	LikeCount    int              `json:"likeCount"`
	DislikeCount int              `json:"dislikeCount"`
}

// IsPublished returns true if the post is visible in public listings.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

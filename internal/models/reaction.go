// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubjectType identifies what kind of entity a reaction is attached to.
type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

// ReactionKind is the tagged state of a user's reaction to a subject.
// A user has at most one reactions row per subject, so liking and
// disliking the same thing at once is impossible by construction.
type ReactionKind string

const (
	ReactionLiked    ReactionKind = "liked"
	ReactionDisliked ReactionKind = "disliked"
)

// Reaction records one user's like or dislike of a post or comment.
type Reaction struct {
	SubjectType SubjectType  `json:"subjectType"`
	SubjectID   uuid.UUID    `json:"subjectId"`
	UserID      uuid.UUID    `json:"userId"`
	Kind        ReactionKind `json:"kind"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// reaction.go implements the like/dislike toggle engine. Each (subject,
// user) pair holds at most one reactions row whose kind column is the
// user's current stance, so "liked and disliked at once" cannot be
// represented. Counts are computed from the rows at read time, never
// denormalized.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"thinkify/internal/models"
)

// ReactionStore manages like/dislike rows for posts and comments.
type ReactionStore struct {
	db *sql.DB
}

// NewReactionStore returns a new ReactionStore.
func NewReactionStore(db *sql.DB) *ReactionStore {
	return &ReactionStore{db: db}
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Active       bool `json:"active"` // true if the kind is now set for this user
	LikeCount    int  `json:"likeCount"`
	DislikeCount int  `json:"dislikeCount"`
}

// Toggle flips the user's reaction of the given kind on a subject:
//   - no row, or a row of the opposite kind → the row becomes this kind
//     (upsert; switching sides replaces the old stance in the same write);
//   - a row of the same kind → the row is deleted (un-like / un-dislike).
//
// Calling twice in a row restores the original state. This is toggle
// semantics by contract, not idempotence.
func (s *ReactionStore) Toggle(subjectType models.SubjectType, subjectID, userID uuid.UUID, kind models.ReactionKind) (*ToggleResult, error) {
	var current models.ReactionKind
	err := s.db.QueryRow(`
		SELECT kind FROM reactions
		WHERE subject_type = $1 AND subject_id = $2 AND user_id = $3
	`, subjectType, subjectID, userID).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read reaction: %w", err)
	}

	active := true
	if err == nil && current == kind {
		// Same stance again: remove it.
		_, err = s.db.Exec(`
			DELETE FROM reactions
			WHERE subject_type = $1 AND subject_id = $2 AND user_id = $3
		`, subjectType, subjectID, userID)
		if err != nil {
			return nil, fmt.Errorf("remove reaction: %w", err)
		}
		active = false
	} else {
		// New stance, or switching sides. The primary key guarantees the
		// opposite stance is overwritten, not accumulated.
		_, err = s.db.Exec(`
			INSERT INTO reactions (subject_type, subject_id, user_id, kind)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (subject_type, subject_id, user_id)
			DO UPDATE SET kind = EXCLUDED.kind, created_at = NOW()
		`, subjectType, subjectID, userID, kind)
		if err != nil {
			return nil, fmt.Errorf("set reaction: %w", err)
		}
	}

	result := &ToggleResult{Active: active}
	err = s.db.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE kind = 'liked'),
		       COUNT(*) FILTER (WHERE kind = 'disliked')
		FROM reactions
		WHERE subject_type = $1 AND subject_id = $2
	`, subjectType, subjectID).Scan(&result.LikeCount, &result.DislikeCount)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	return result, nil
}

// KindFor returns the user's current stance on a subject, or "" if none.
func (s *ReactionStore) KindFor(subjectType models.SubjectType, subjectID, userID uuid.UUID) (models.ReactionKind, error) {
	var kind models.ReactionKind
	err := s.db.QueryRow(`
		SELECT kind FROM reactions
		WHERE subject_type = $1 AND subject_id = $2 AND user_id = $3
	`, subjectType, subjectID, userID).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read reaction: %w", err)
	}
	return kind, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"thinkify/internal/models"
)

// FollowStore manages the follower/following relation. One follows row is
// both sides of the relationship, so a follow can never be half-applied.
type FollowStore struct {
	db *sql.DB
}

// NewFollowStore returns a new FollowStore.
func NewFollowStore(db *sql.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Toggle follows followeeID on behalf of followerID if not already
// following, otherwise unfollows. Returns the new following state.
// Self-follow fails with ErrSelfFollow before touching the database.
func (s *FollowStore) Toggle(followerID, followeeID uuid.UUID) (bool, error) {
	if followerID == followeeID {
		return false, ErrSelfFollow
	}

	res, err := s.db.Exec(`
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("unfollow: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unfollow rows: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	return true, nil
}

// IsFollowing reports whether followerID currently follows followeeID.
func (s *FollowStore) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return exists, nil
}

// Counts returns how many followers a user has and how many users they follow.
func (s *FollowStore) Counts(userID uuid.UUID) (followers, following int, err error) {
	err = s.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM follows WHERE followee_id = $1),
		       (SELECT COUNT(*) FROM follows WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("follow counts: %w", err)
	}
	return followers, following, nil
}

// Followers returns the users following userID, newest first.
func (s *FollowStore) Followers(userID uuid.UUID) ([]models.UserSummary, error) {
	return s.listRelated(userID, `
		SELECT u.id, u.username, u.display_name, u.avatar
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
	`)
}

// Following returns the users userID follows, newest first.
func (s *FollowStore) Following(userID uuid.UUID) ([]models.UserSummary, error) {
	return s.listRelated(userID, `
		SELECT u.id, u.username, u.display_name, u.avatar
		FROM follows f JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`)
}

func (s *FollowStore) listRelated(userID uuid.UUID, query string) ([]models.UserSummary, error) {
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar); err != nil {
			return nil, fmt.Errorf("scan follow user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

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

// BookmarkStore manages each user's saved posts.
type BookmarkStore struct {
	db *sql.DB
}

// NewBookmarkStore returns a new BookmarkStore.
func NewBookmarkStore(db *sql.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// Toggle saves a post for the user if not bookmarked, otherwise removes
// it. A single-row write, atomic on its own. Returns the new bookmarked
// state.
func (s *BookmarkStore) Toggle(userID, postID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("remove bookmark: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bookmark rows: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO bookmarks (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	return true, nil
}

// Has reports whether the user has bookmarked the post.
func (s *BookmarkStore) Has(userID, postID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has bookmark: %w", err)
	}
	return exists, nil
}

// ListPosts returns one page of the user's bookmarked posts, most
// recently saved first, plus the total for pagination.
func (s *BookmarkStore) ListPosts(userID uuid.UUID, page, limit int) ([]models.Post, int, error) {
	var total int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}

	rows, err := s.db.Query(postSelect+`
		JOIN bookmarks b ON b.post_id = p.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan bookmarked post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

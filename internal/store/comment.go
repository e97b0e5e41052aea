// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// comment.go implements comment threading and the derived-count
// maintenance that keeps posts.comment_count and comments.reply_count in
// sync with the underlying rows.
//
// Counts are full recounts on every comment write, never increments: a
// missed or double-applied increment would drift forever, while a recount
// self-heals at the cost of one extra query. Recount failures are logged
// and swallowed — the counters are non-authoritative, and the comment
// write that triggered them has already succeeded.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"thinkify/internal/models"
)

// Reply previews attached to each top-level comment in a listing. Full
// reply threads are paged separately via ListReplies.
const replyPreviewLimit = 3

// CommentStore handles comment threading, soft deletion, and the
// denormalized counters derived from comment rows.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// commentSelect joins each comment with its author, reaction counts, and
// the owning post's lock flag.
const commentSelect = `
	SELECT cm.id, cm.content, cm.author_id, cm.post_id, cm.parent_id,
	       cm.is_edited, cm.edited_at, cm.status, cm.reply_count,
	       cm.created_at, cm.updated_at,
	       u.username, u.display_name, u.avatar,
	       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'comment' AND r.subject_id = cm.id AND r.kind = 'liked'),
	       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'comment' AND r.subject_id = cm.id AND r.kind = 'disliked'),
	       p.is_locked
	FROM comments cm
	JOIN users u ON u.id = cm.author_id
	JOIN posts p ON p.id = cm.post_id`

// scanComment scans a joined row into a Comment with its author summary.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	var author models.UserSummary
	err := scanner.Scan(
		&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.ParentID,
		&c.IsEdited, &c.EditedAt, &c.Status, &c.ReplyCount,
		&c.CreatedAt, &c.UpdatedAt,
		&author.Username, &author.DisplayName, &author.Avatar,
		&c.LikeCount, &c.DislikeCount, &c.PostLocked,
	)
	if err != nil {
		return nil, err
	}
	author.ID = c.AuthorID
	c.Author = &author
	return c, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(commentSelect+` WHERE cm.id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment after validating its placement:
//   - the post must exist ((nil, nil) when it doesn't) and must not be locked
//     (ErrPostLocked — callers answer 403, not 404);
//   - a non-nil parent must exist, belong to the same post
//     (ErrParentMismatch), and must itself be top-level (ErrNestedReply) —
//     threading is one level deep by rule, not by UI convention.
//
// On success the post's comment count and the parent's reply count are
// recounted, and the post's last_activity is bumped.
func (s *CommentStore) Create(content string, authorID, postID uuid.UUID, parentID *uuid.UUID) (*models.Comment, error) {
	var isLocked bool
	err := s.db.QueryRow(`SELECT is_locked FROM posts WHERE id = $1`, postID).Scan(&isLocked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if isLocked {
		return nil, ErrPostLocked
	}

	if parentID != nil {
		var parentPost uuid.UUID
		var grandparent *uuid.UUID
		err := s.db.QueryRow(`
			SELECT post_id, parent_id FROM comments WHERE id = $1
		`, *parentID).Scan(&parentPost, &grandparent)
		if err == sql.ErrNoRows {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("check parent comment: %w", err)
		}
		if parentPost != postID {
			return nil, ErrParentMismatch
		}
		if grandparent != nil {
			return nil, ErrNestedReply
		}
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO comments (content, author_id, post_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, content, authorID, postID, parentID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.syncCounts(postID, parentID)
	return s.FindByID(id)
}

// UpdateContent edits a comment's text, marking it edited. The recount
// runs as on any other comment write.
func (s *CommentStore) UpdateContent(c *models.Comment, content string) (*models.Comment, error) {
	_, err := s.db.Exec(`
		UPDATE comments SET content = $1, is_edited = TRUE, edited_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`, content, c.ID)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.syncCounts(c.PostID, c.ParentID)
	return s.FindByID(c.ID)
}

// SoftDelete marks a comment deleted and replaces its content with a
// placeholder. The row survives so the thread keeps its shape and the
// comment's replies stay attached. One-directional: there is no restore.
func (s *CommentStore) SoftDelete(c *models.Comment) error {
	_, err := s.db.Exec(`
		UPDATE comments SET status = 'deleted', content = $1, updated_at = NOW()
		WHERE id = $2
	`, models.DeletedCommentPlaceholder, c.ID)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}

	s.syncCounts(c.PostID, c.ParentID)
	return nil
}

// SetStatus applies a moderation status change (flagged, hidden) and
// re-syncs the counters, since only active comments count.
func (s *CommentStore) SetStatus(c *models.Comment, status models.CommentStatus) error {
	_, err := s.db.Exec(`
		UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, c.ID)
	if err != nil {
		return fmt.Errorf("set comment status: %w", err)
	}

	s.syncCounts(c.PostID, c.ParentID)
	return nil
}

// syncCounts is the derived-count maintainer. It recounts the post's
// active top-level comments into posts.comment_count (bumping
// last_activity), and, for replies, recounts the parent's active replies
// into comments.reply_count. Failures are logged, never returned: the
// triggering write already succeeded and the counters are repairable by
// the next write.
func (s *CommentStore) syncCounts(postID uuid.UUID, parentID *uuid.UUID) {
	_, err := s.db.Exec(`
		UPDATE posts SET
			comment_count = (
				SELECT COUNT(*) FROM comments
				WHERE post_id = $1 AND status = 'active' AND parent_id IS NULL
			),
			last_activity = NOW()
		WHERE id = $1
	`, postID)
	if err != nil {
		slog.Warn("comment count sync failed", "post", postID, "error", err)
	}

	if parentID == nil {
		return
	}

	_, err = s.db.Exec(`
		UPDATE comments SET
			reply_count = (
				SELECT COUNT(*) FROM comments
				WHERE parent_id = $1 AND status = 'active'
			)
		WHERE id = $1
	`, *parentID)
	if err != nil {
		slog.Warn("reply count sync failed", "parent", *parentID, "error", err)
	}
}

// ListForPost returns one page of active top-level comments for a post,
// each carrying up to replyPreviewLimit oldest-first preview replies and
// the authoritative replyCount. Sorts: newest (default), oldest, popular
// (like count, newest tie-break).
func (s *CommentStore) ListForPost(postID uuid.UUID, sort string, page, limit int) ([]models.Comment, int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments
		WHERE post_id = $1 AND parent_id IS NULL AND status = 'active'
	`, postID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var order string
	switch sort {
	case "oldest":
		order = "cm.created_at ASC"
	case "popular":
		order = "(SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'comment' AND r.subject_id = cm.id AND r.kind = 'liked') DESC, cm.created_at DESC"
	default:
		order = "cm.created_at DESC"
	}

	rows, err := s.db.Query(commentSelect+`
		WHERE cm.post_id = $1 AND cm.parent_id IS NULL AND cm.status = 'active'
		ORDER BY `+order+`
		LIMIT $2 OFFSET $3
	`, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachReplyPreviews(comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// attachReplyPreviews loads the first few active replies for each parent
// in one query and distributes them.
func (s *CommentStore) attachReplyPreviews(parents []models.Comment) error {
	if len(parents) == 0 {
		return nil
	}

	ids := make([]string, len(parents))
	index := make(map[uuid.UUID]int, len(parents))
	for i := range parents {
		ids[i] = parents[i].ID.String()
		index[parents[i].ID] = i
	}

	rows, err := s.db.Query(`
		SELECT id, content, author_id, post_id, parent_id, is_edited, edited_at,
		       status, reply_count, created_at, updated_at,
		       username, display_name, avatar, like_count, dislike_count, post_locked
		FROM (
			SELECT cm.id, cm.content, cm.author_id, cm.post_id, cm.parent_id,
			       cm.is_edited, cm.edited_at, cm.status, cm.reply_count,
			       cm.created_at, cm.updated_at,
			       u.username, u.display_name, u.avatar,
			       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'comment' AND r.subject_id = cm.id AND r.kind = 'liked') AS like_count,
			       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'comment' AND r.subject_id = cm.id AND r.kind = 'disliked') AS dislike_count,
			       p.is_locked AS post_locked,
			       ROW_NUMBER() OVER (PARTITION BY cm.parent_id ORDER BY cm.created_at ASC) AS rn
			FROM comments cm
			JOIN users u ON u.id = cm.author_id
			JOIN posts p ON p.id = cm.post_id
			WHERE cm.parent_id = ANY($1::uuid[]) AND cm.status = 'active'
		) ranked
		WHERE rn <= $2
		ORDER BY created_at ASC
	`, pq.Array(ids), replyPreviewLimit)
	if err != nil {
		return fmt.Errorf("load reply previews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return fmt.Errorf("scan reply preview: %w", err)
		}
		if i, ok := index[*c.ParentID]; ok {
			parents[i].Replies = append(parents[i].Replies, *c)
		}
	}
	return rows.Err()
}

// ListReplies returns one page of a comment's active replies in
// chronological order, paginated independently of the parent listing.
func (s *CommentStore) ListReplies(parentID uuid.UUID, page, limit int) ([]models.Comment, int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments WHERE parent_id = $1 AND status = 'active'
	`, parentID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count replies: %w", err)
	}

	rows, err := s.db.Query(commentSelect+`
		WHERE cm.parent_id = $1 AND cm.status = 'active'
		ORDER BY cm.created_at ASC
		LIMIT $2 OFFSET $3
	`, parentID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var replies []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reply: %w", err)
		}
		replies = append(replies, *c)
	}
	return replies, total, rows.Err()
}

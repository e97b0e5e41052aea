// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"thinkify/internal/models"
	"thinkify/internal/slug"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db         *sql.DB
	categories *CategoryStore
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db, categories: NewCategoryStore(db)}
}

// postSelect joins each post with its author, category, and reaction counts.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.author_id, p.category_id,
	       p.tags, p.cover_image, p.views, p.status, p.is_pinned, p.is_locked,
	       p.comment_count, p.last_activity, p.created_at, p.updated_at,
	       u.username, u.display_name, u.avatar,
	       c.name, c.slug, c.icon, c.color,
	       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'post' AND r.subject_id = p.id AND r.kind = 'liked'),
	       (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'post' AND r.subject_id = p.id AND r.kind = 'disliked')
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined row into a Post with author and category summaries.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var author models.UserSummary
	var category models.CategorySummary
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.AuthorID, &p.CategoryID,
		pq.Array(&p.Tags), &p.CoverImage, &p.Views, &p.Status, &p.IsPinned, &p.IsLocked,
		&p.CommentCount, &p.LastActivity, &p.CreatedAt, &p.UpdatedAt,
		&author.Username, &author.DisplayName, &author.Avatar,
		&category.Name, &category.Slug, &category.Icon, &category.Color,
		&p.LikeCount, &p.DislikeCount,
	)
	if err != nil {
		return nil, err
	}
	author.ID = p.AuthorID
	category.ID = p.CategoryID
	p.Author = &author
	p.Category = &category
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// htmlTags strips markup when deriving an excerpt from raw content.
var htmlTags = regexp.MustCompile(`<[^>]*>`)

// makeExcerpt derives a plain-text excerpt from content, truncated to 250
// characters with a trailing ellipsis.
func makeExcerpt(content string) string {
	text := strings.TrimSpace(htmlTags.ReplaceAllString(content, ""))
	runes := []rune(text)
	if len(runes) <= 250 {
		return text
	}
	return strings.TrimSpace(string(runes[:250])) + "..."
}

// uniqueSlug generates a slug for the title, appending a numeric suffix
// until it no longer collides with another post.
func (s *PostStore) uniqueSlug(title string, excludeID uuid.UUID) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 1; ; n++ {
		var exists bool
		err := s.db.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
		`, candidate, excludeID).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, n)
	}
}

// normalizeTags lowercases and trims tags, dropping empties.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Create inserts a new post. The slug is derived from the title (with
// collision suffixes), the excerpt is derived from content when absent,
// and the owning category's post_count is bumped best-effort.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	sl, err := s.uniqueSlug(p.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if p.Excerpt == "" {
		p.Excerpt = makeExcerpt(p.Content)
	}
	if p.Status == "" {
		p.Status = models.PostStatusPublished
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, author_id, category_id, tags, cover_image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.Title, sl, p.Content, p.Excerpt, p.AuthorID, p.CategoryID,
		pq.Array(normalizeTags(p.Tags)), p.CoverImage, p.Status,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.categories.AdjustPostCount(p.CategoryID, +1)
	return s.FindByID(id)
}

// FindByID retrieves a post by ID with author, category, and reaction
// counts. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(sl string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1`, sl)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListOptions filters and orders a post listing.
type ListOptions struct {
	CategorySlug string
	Tag          string
	Search       string
	AuthorID     uuid.UUID // uuid.Nil = all authors
	Sort         string    // latest (default), oldest, popular, trending, most-liked
	Page         int
	Limit        int
}

// List returns published posts matching the options plus the total match
// count for pagination.
func (s *PostStore) List(opts ListOptions) ([]models.Post, int, error) {
	where := []string{"p.status = 'published'"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(opts.CategorySlug))
	}
	if opts.Tag != "" {
		where = append(where, arg(strings.ToLower(opts.Tag))+" = ANY(p.tags)")
	}
	if opts.Search != "" {
		where = append(where, "to_tsvector('english', p.title || ' ' || p.content) @@ plainto_tsquery('english', "+arg(opts.Search)+")")
	}
	if opts.AuthorID != uuid.Nil {
		where = append(where, "p.author_id = "+arg(opts.AuthorID))
	}

	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	countSQL := `SELECT COUNT(*) FROM posts p JOIN categories c ON c.id = p.category_id` + whereSQL
	if err := s.db.QueryRow(countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var order string
	switch opts.Sort {
	case "oldest":
		order = "p.created_at ASC"
	case "popular":
		order = "p.views DESC, p.created_at DESC"
	case "trending":
		order = "p.last_activity DESC"
	case "most-liked":
		order = "(SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'post' AND r.subject_id = p.id AND r.kind = 'liked') DESC, p.created_at DESC"
	default:
		order = "p.created_at DESC"
	}

	query := postSelect + whereSQL + " ORDER BY " + order +
		" LIMIT " + arg(opts.Limit) + " OFFSET " + arg((opts.Page-1)*opts.Limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// PostUpdate carries the optional fields of a post edit. Nil fields are
// left unchanged.
type PostUpdate struct {
	Title      *string
	Content    *string
	CategoryID *uuid.UUID
	Tags       []string
	CoverImage *string
	Status     *models.PostStatus
	IsPinned   *bool
	IsLocked   *bool
}

// Update applies a partial edit to a post. A title change re-derives the
// slug; a category change moves the best-effort post_count bump.
func (s *PostStore) Update(p *models.Post, upd PostUpdate) (*models.Post, error) {
	oldCategory := p.CategoryID

	if upd.Title != nil && *upd.Title != p.Title {
		p.Title = *upd.Title
		sl, err := s.uniqueSlug(p.Title, p.ID)
		if err != nil {
			return nil, err
		}
		p.Slug = sl
	}
	if upd.Content != nil {
		p.Content = *upd.Content
		p.Excerpt = makeExcerpt(p.Content)
	}
	if upd.CategoryID != nil {
		p.CategoryID = *upd.CategoryID
	}
	if upd.Tags != nil {
		p.Tags = normalizeTags(upd.Tags)
	}
	if upd.CoverImage != nil {
		p.CoverImage = *upd.CoverImage
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.IsPinned != nil {
		p.IsPinned = *upd.IsPinned
	}
	if upd.IsLocked != nil {
		p.IsLocked = *upd.IsLocked
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, category_id = $5,
			tags = $6, cover_image = $7, status = $8, is_pinned = $9, is_locked = $10,
			last_activity = NOW(), updated_at = NOW()
		WHERE id = $11
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CategoryID,
		pq.Array(p.Tags), p.CoverImage, p.Status, p.IsPinned, p.IsLocked, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if upd.CategoryID != nil && oldCategory != p.CategoryID {
		s.categories.AdjustPostCount(oldCategory, -1)
		s.categories.AdjustPostCount(p.CategoryID, +1)
	}

	return s.FindByID(p.ID)
}

// Delete removes a post and decrements its category's post_count.
// Comments, reactions, and bookmarks cascade at the schema level.
func (s *PostStore) Delete(p *models.Post) error {
	if _, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.categories.AdjustPostCount(p.CategoryID, -1)
	return nil
}

// IncrementViews bumps the monotonic view counter.
func (s *PostStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Feed returns one page of published posts written by the users userID
// follows, plus the user's own, newest first.
func (s *PostStore) Feed(userID uuid.UUID, page, limit int) ([]models.Post, int, error) {
	const feedWhere = `
		WHERE p.status = 'published'
		  AND (p.author_id = $1 OR p.author_id IN (
			SELECT followee_id FROM follows WHERE follower_id = $1
		  ))`

	var total int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p`+feedWhere, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	rows, err := s.db.Query(postSelect+feedWhere+`
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list feed: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan feed post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// CountPublishedByAuthor returns how many published posts a user has.
func (s *PostStore) CountPublishedByAuthor(authorID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts WHERE author_id = $1 AND status = 'published'
	`, authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return n, nil
}

// Trending returns the top published posts scored by
// likes*2 + views + commentCount*3, recent first on ties.
func (s *PostStore) Trending(limit int) ([]models.Post, error) {
	rows, err := s.db.Query(postSelect+`
		WHERE p.status = 'published'
		ORDER BY (SELECT COUNT(*) FROM reactions r WHERE r.subject_type = 'post' AND r.subject_id = p.id AND r.kind = 'liked') * 2
		         + p.views + p.comment_count * 3 DESC,
		         p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("trending posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

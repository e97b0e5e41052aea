// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"thinkify/internal/models"
)

// CategoryStore manages categories in the database.
//
// post_count is a best-effort denormalized counter: the post store bumps it
// on post create/delete, and ReconcilePostCounts corrects any drift.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, icon, color, post_count,
	is_active, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color,
		&c.PostCount, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListActive returns all active categories ordered by sort_order, then name.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves an active category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND is_active`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, icon, color, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Icon, c.Color, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, icon = $4, color = $5,
			is_active = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
	`, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.IsActive, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a category. Posts keep referencing it, so rows
// are never removed.
func (s *CategoryStore) Deactivate(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return nil
}

// AdjustPostCount bumps post_count by delta. Best-effort: the counter is
// non-authoritative, so failures are logged and swallowed rather than
// failing the post write that triggered the bump.
func (s *CategoryStore) AdjustPostCount(id uuid.UUID, delta int) {
	_, err := s.db.Exec(`
		UPDATE categories SET post_count = GREATEST(post_count + $1, 0) WHERE id = $2
	`, delta, id)
	if err != nil {
		slog.Warn("category post_count adjust failed", "category", id, "delta", delta, "error", err)
	}
}

// ReconcilePostCounts recomputes post_count for every category from the
// posts table. Corrects drift accumulated by the incremental bumps.
func (s *CategoryStore) ReconcilePostCounts() error {
	_, err := s.db.Exec(`
		UPDATE categories c SET post_count = sub.n
		FROM (
			SELECT c2.id, COUNT(p.id) AS n
			FROM categories c2
			LEFT JOIN posts p ON p.category_id = c2.id AND p.status = 'published'
			GROUP BY c2.id
		) sub
		WHERE sub.id = c.id AND c.post_count <> sub.n
	`)
	if err != nil {
		return fmt.Errorf("reconcile post counts: %w", err)
	}
	return nil
}

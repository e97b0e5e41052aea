// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts by topic. Categories are created by admins or the
// seed routine and are soft-deleted (is_active = false) rather than removed,
// since posts keep referencing them.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	PostCount   int       `json:"postCount"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategorySummary is the slimmed-down category shape embedded in posts.
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

// Summary returns the public category shape embedded in post listings.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{
		ID:    c.ID,
		Name:  c.Name,
		Slug:  c.Slug,
		Icon:  c.Icon,
		Color: c.Color,
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thinkify/internal/models"
	"thinkify/internal/slug"
	"thinkify/internal/store"
)

// Categories groups the category browse and admin handlers.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all active categories in display order.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.ListActive()
	if err != nil {
		respondServerError(w, "list categories failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": items,
	})
}

// Get returns a single active category by slug.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondServerError(w, "get category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"category": category,
	})
}

// categoryRequest is the payload for creating or editing a category.
type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}

// Create adds a new category. Admin only, enforced by the router.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Name == nil {
		respondError(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	name := strings.TrimSpace(*req.Name)
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	if msg := validateCategory(name, description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug.Generate(name),
		Description: description,
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	created, err := h.categories.Create(category)
	if err != nil {
		if _, ok := store.ConflictField(err); ok {
			respondError(w, http.StatusBadRequest, "A category with that name already exists.")
			return
		}
		respondServerError(w, "create category failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"category": created,
	})
}

// Update edits a category. Admin only, enforced by the router.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id.")
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		respondServerError(w, "get category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found.")
		return
	}

	var req categoryRequest
	if msg := decodeJSON(r, &req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != category.Name {
			category.Name = name
			category.Slug = slug.Generate(name)
		}
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if msg := validateCategory(category.Name, category.Description); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := h.categories.Update(category); err != nil {
		if _, ok := store.ConflictField(err); ok {
			respondError(w, http.StatusBadRequest, "A category with that name already exists.")
			return
		}
		respondServerError(w, "update category failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"category": category,
	})
}

// Delete deactivates a category. Posts keep their reference; the category
// just disappears from listings. Admin only, enforced by the router.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id.")
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		respondServerError(w, "get category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found.")
		return
	}

	if err := h.categories.Deactivate(category.ID); err != nil {
		respondServerError(w, "deactivate category failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category deactivated.",
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"thinkify/internal/models"
)

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	name := "CT Create"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(&models.Category{
		Name:        name,
		Slug:        "ct-create",
		Description: "Category used by the create test.",
		Icon:        "🧪",
		Color:       "#FF8800",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsActive {
		t.Error("new categories should start active")
	}
	if created.PostCount != 0 {
		t.Errorf("postCount: got %d, want 0", created.PostCount)
	}

	found, err := s.FindBySlug("ct-create")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Error("expected to find the created category by slug")
	}
}

func TestCategoryStoreDeactivate(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	category := seedCategory(t, db, "CT Gone", "ct-gone")

	if err := s.Deactivate(category.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// Inactive categories disappear from slug lookups but keep their row.
	found, err := s.FindBySlug("ct-gone")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Error("deactivated category should not resolve by slug")
	}

	byID, err := s.FindByID(category.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.IsActive {
		t.Error("deactivated category row should survive with is_active=false")
	}
}

func TestCategoryStoreListActiveOrder(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	t.Cleanup(func() { cleanCategories(t, db, "CT Order B", "CT Order A") })

	if _, err := s.Create(&models.Category{Name: "CT Order B", Slug: "ct-order-b", SortOrder: 2}); err != nil {
		t.Fatalf("Create B: %v", err)
	}
	if _, err := s.Create(&models.Category{Name: "CT Order A", Slug: "ct-order-a", SortOrder: 1}); err != nil {
		t.Fatalf("Create A: %v", err)
	}

	items, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	posA, posB := -1, -1
	for i, c := range items {
		switch c.Slug {
		case "ct-order-a":
			posA = i
		case "ct-order-b":
			posB = i
		}
	}
	if posA == -1 || posB == -1 {
		t.Fatal("expected both test categories in the active listing")
	}
	if posA > posB {
		t.Error("listing should respect sort_order")
	}
}

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"thinkify/internal/database"
	"thinkify/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "thinkify")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "thinkify")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by username. Deleting a user cascades to
// their posts, comments, reactions, follows, and bookmarks. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", username)
	}
}

// cleanCategories removes test categories by name. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}

// seedUser creates a user for the test and registers cleanup.
func seedUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := NewUserStore(db).Create(username, username+"@store-test.local", "testpass123", "")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedCategory creates a category for the test and registers cleanup.
func seedCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	t.Cleanup(func() { cleanCategories(t, db, name) })

	category, err := NewCategoryStore(db).Create(&models.Category{
		Name: name,
		Slug: slug,
	})
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return category
}

// seedPost creates a post for the test. The author's cleanup cascades it.
func seedPost(t *testing.T, db *sql.DB, author *models.User, category *models.Category, title string) *models.Post {
	t.Helper()

	post, err := NewPostStore(db).Create(&models.Post{
		Title:      title,
		Content:    "Seed content for " + title + ", long enough to pass validation.",
		AuthorID:   author.ID,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return post
}

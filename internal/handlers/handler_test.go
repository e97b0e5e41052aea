// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"thinkify/internal/auth"
	"thinkify/internal/database"
	"thinkify/internal/middleware"
	"thinkify/internal/models"
	"thinkify/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "thinkify")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "thinkify")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Tokens    *auth.Manager
	Users     *store.UserStore
	Posts     *store.PostStore
	Comments  *store.CommentStore
	Reactions *store.ReactionStore

	AuthH     *Auth
	PostsH    *Posts
	CommentsH *Comments
	UsersH    *Users
}

// newTestEnv builds the handler groups against a real database. The token
// denylist and the trending cache stay nil: no flow exercised here touches
// Valkey.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	tokens := auth.NewManager("handler-test-secret", time.Hour, false)
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)
	reactions := store.NewReactionStore(db)
	follows := store.NewFollowStore(db)
	bookmarks := store.NewBookmarkStore(db)
	categories := store.NewCategoryStore(db)

	return &testEnv{
		DB:        db,
		Tokens:    tokens,
		Users:     users,
		Posts:     posts,
		Comments:  comments,
		Reactions: reactions,

		AuthH:     NewAuth(tokens, nil, users),
		PostsH:    NewPosts(posts, categories, reactions, bookmarks, nil),
		CommentsH: NewComments(comments, reactions),
		UsersH:    NewUsers(users, posts, follows, bookmarks),
	}
}

// withUser attaches an authenticated user to the request, bypassing the
// Authenticate middleware.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedUser creates a user for the test and registers cascade cleanup.
func seedUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE username = $1", username) })

	user, err := store.NewUserStore(db).Create(username, username+"@handler-test.local", "testpass123", "")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedCategory creates a category for the test and registers cleanup.
func seedCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE name = $1", name) })

	category, err := store.NewCategoryStore(db).Create(&models.Category{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return category
}

// seedPost creates a post for the test. The author's cleanup cascades it.
func seedPost(t *testing.T, db *sql.DB, author *models.User, category *models.Category, title string) *models.Post {
	t.Helper()

	post, err := store.NewPostStore(db).Create(&models.Post{
		Title:      title,
		Content:    "Handler test content for " + title + ", long enough to pass validation.",
		AuthorID:   author.ID,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return post
}

// lockPost flips the post's is_locked flag.
func lockPost(t *testing.T, db *sql.DB, postID uuid.UUID) {
	t.Helper()
	if _, err := db.Exec(`UPDATE posts SET is_locked = TRUE WHERE id = $1`, postID); err != nil {
		t.Fatalf("lock post: %v", err)
	}
}

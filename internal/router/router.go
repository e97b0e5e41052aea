// Package router sets up all HTTP routes and middleware chains for the
// Thinkify API. Public reads and authenticated writes share one route
// tree; the auth middleware loads the user for every request and the
// Require* middlewares gate the write paths.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"thinkify/internal/auth"
	"thinkify/internal/handlers"
	"thinkify/internal/middleware"
	"thinkify/internal/models"
	"thinkify/internal/store"
)

// Deps carries everything the route tree needs.
type Deps struct {
	ClientOrigin string
	Tokens       *auth.Manager
	Denylist     *auth.Denylist
	Users        *store.UserStore

	Auth       *handlers.Auth
	Posts      *handlers.Posts
	Comments   *handlers.Comments
	UserPages  *handlers.Users
	Categories *handlers.Categories
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate(d.Tokens, d.Denylist, d.Users))

	// Brute-force protection on the credential endpoints only.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(loginLimiter.Middleware)
				r.Post("/register", d.Auth.Register)
				r.Post("/login", d.Auth.Login)
			})
			r.Get("/check-username/{username}", d.Auth.CheckUsername)
			r.Get("/check-email/{email}", d.Auth.CheckEmail)
			r.Post("/logout", d.Auth.Logout)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", d.Auth.Me)
				r.Put("/password", d.Auth.UpdatePassword)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/trending", d.Posts.Trending)
			r.Get("/{slug}", d.Posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/feed", d.Posts.Feed)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Post("/{id}/like", d.Posts.ToggleLike)
				r.Post("/{id}/dislike", d.Posts.ToggleDislike)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postId}", d.Comments.ListForPost)
			r.Get("/{commentId}/replies", d.Comments.ListReplies)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Comments.Create)
				r.Put("/{id}", d.Comments.Update)
				r.Delete("/{id}", d.Comments.Delete)
				r.Post("/{id}/like", d.Comments.ToggleLike)
				r.Post("/{id}/dislike", d.Comments.ToggleDislike)
			})
		})

		r.Route("/users", func(r chi.Router) {
			// Static segments before the username wildcard.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Put("/profile", d.UserPages.UpdateProfile)
				r.Get("/bookmarks", d.UserPages.Bookmarks)
				r.Post("/bookmarks/{postId}", d.UserPages.ToggleBookmark)
				r.Post("/{userId}/follow", d.UserPages.ToggleFollow)
			})

			r.Get("/search", d.UserPages.Search)
			r.Get("/{username}", d.UserPages.Profile)
			r.Get("/{username}/posts", d.UserPages.UserPosts)
			r.Get("/{username}/followers", d.UserPages.Followers)
			r.Get("/{username}/following", d.UserPages.Following)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/{slug}", d.Categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/", d.Categories.Create)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedCategory describes one default category created on first run.
type seedCategory struct {
	name, slug, description, icon, color string
}

var defaultCategories = []seedCategory{
	{"Technology", "technology", "Discussions about latest tech trends, programming, and software development", "💻", "#4ADE80"},
	{"Science", "science", "Scientific discoveries, research, and breakthroughs", "🔬", "#60A5FA"},
	{"Philosophy", "philosophy", "Deep thoughts about life, existence, and human nature", "🤔", "#A78BFA"},
	{"Art & Design", "art-design", "Creative works, design trends, and artistic expression", "🎨", "#F472B6"},
	{"Business", "business", "Entrepreneurship, startups, and business strategies", "💼", "#FBBF24"},
	{"Health & Wellness", "health-wellness", "Physical and mental health, fitness, and well-being", "🌱", "#34D399"},
	{"Gaming", "gaming", "Video games, esports, and gaming culture", "🎮", "#F87171"},
	{"Music", "music", "Music production, artists, and industry news", "🎵", "#FB923C"},
}

// Seed populates the database with initial development data: the default
// category set and an admin account. It is a no-op if users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, display_name, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "admin", "admin@thinkify.local", string(hash), "Admin", "admin", true)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for i, c := range defaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description, icon, color, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.description, c.icon, c.color, i)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded",
		"categories", len(defaultCategories),
		"admin", "admin@thinkify.local",
	)

	return nil
}

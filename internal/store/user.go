// Package store provides database access methods for all Thinkify
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Methods return (nil, nil) when an entity does not exist.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"thinkify/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, display_name, bio, avatar, role,
	is_active, is_verified, reputation, last_active, preferences, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.Bio, &u.Avatar, &u.Role, &u.IsActive, &u.IsVerified,
		&u.Reputation, &u.LastActive, &u.Preferences, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email (stored lowercase). Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password. The display
// name defaults to the username when empty, and emails are lowercased.
func (s *UserStore) Create(username, email, password, displayName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if displayName == "" {
		displayName = username
	}

	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, strings.ToLower(email), string(hash), displayName,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *UserStore) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ProfileUpdate carries the optional fields of a profile edit. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	Avatar      *string
	Preferences *models.Preferences
}

// UpdateProfile applies a partial profile update and returns the fresh row.
func (s *UserStore) UpdateProfile(id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	row := s.db.QueryRow(`
		UPDATE users SET
			display_name = COALESCE($1, display_name),
			bio          = COALESCE($2, bio),
			avatar       = COALESCE($3, avatar),
			preferences  = COALESCE($4, preferences),
			updated_at   = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		upd.DisplayName, upd.Bio, upd.Avatar, upd.Preferences, id,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// UpdatePassword replaces the user's password hash. Verifying the current
// password is the caller's job.
func (s *UserStore) UpdatePassword(id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UsernameTaken reports whether a username is already registered.
func (s *UserStore) UsernameTaken(username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// EmailTaken reports whether an email is already registered. Emails are
// stored lowercase, so the check is case-insensitive.
func (s *UserStore) EmailTaken(email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Search returns one page of active users whose username or display name
// contains the query, case-insensitively, plus the total match count.
func (s *UserStore) Search(query string, page, limit int) ([]models.UserSummary, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE is_active AND (username ILIKE $1 OR display_name ILIKE $1)
	`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count user search: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, username, display_name, avatar FROM users
		WHERE is_active AND (username ILIKE $1 OR display_name ILIKE $1)
		ORDER BY username ASC
		LIMIT $2 OFFSET $3
	`, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar); err != nil {
			return nil, 0, fmt.Errorf("scan user search: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// TouchLastActive bumps the user's last_active timestamp. Best-effort:
// failures are logged, never propagated, since this is bookkeeping on the
// hot path of every authenticated request.
func (s *UserStore) TouchLastActive(id uuid.UUID) {
	if _, err := s.db.Exec(`UPDATE users SET last_active = NOW() WHERE id = $1`, id); err != nil {
		slog.Warn("touch last_active failed", "user", id, "error", err)
	}
}

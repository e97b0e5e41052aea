// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Preferences holds per-user UI and notification settings, stored as JSONB.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	DarkMode           bool `json:"darkMode"`
	ShowOnlineStatus   bool `json:"showOnlineStatus"`
}

// DefaultPreferences returns the settings applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		DarkMode:           true,
		ShowOnlineStatus:   true,
	}
}

// Value implements driver.Valuer so Preferences can be written to a JSONB column.
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner so Preferences can be read from a JSONB column.
func (p *Preferences) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = DefaultPreferences()
		return nil
	default:
		return fmt.Errorf("preferences: cannot scan %T", src)
	}
}

// User represents a registered member of the board.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never serialize the hash
	DisplayName  string      `json:"displayName"`
	Bio          string      `json:"bio"`
	Avatar       string      `json:"avatar"`
	Role         Role        `json:"role"`
	IsActive     bool        `json:"isActive"`
	IsVerified   bool        `json:"isVerified"`
	Reputation   int         `json:"reputation"`
	LastActive   time.Time   `json:"lastActive"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	// Virtual fields populated by store methods.
	PostCount      int `json:"postCount"`
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanModerate returns true for moderators and admins.
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// UserSummary is the slimmed-down author shape embedded in posts and
// comments, matching what the list endpoints expose publicly.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
}

// Summary returns the public author shape for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

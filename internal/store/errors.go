// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for entity-level invariant violations. Handlers translate
// these to their HTTP statuses instead of leaking raw database errors.
var (
	// ErrPostLocked is returned when commenting on a locked post.
	// Deliberately distinct from not-found so handlers answer 403, not 404.
	ErrPostLocked = errors.New("post is locked")

	// ErrNestedReply is returned when the parent of a new comment is itself
	// a reply. Threading is one level deep.
	ErrNestedReply = errors.New("cannot reply to a reply")

	// ErrParentNotFound is returned when a reply names a parent comment
	// that does not exist.
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrParentMismatch is returned when a reply names a parent comment
	// that belongs to a different post.
	ErrParentMismatch = errors.New("parent comment belongs to a different post")

	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// ConflictField inspects an error for a Postgres unique violation and
// returns the offending field name. Constraint names follow the
// <table>_<column>_key convention from the migrations.
func ConflictField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}

	name := pgErr.ConstraintName
	switch {
	case strings.Contains(name, "username"):
		return "username", true
	case strings.Contains(name, "email"):
		return "email", true
	case strings.Contains(name, "slug"):
		return "slug", true
	case strings.Contains(name, "name"):
		return "name", true
	}
	return "field", true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for user and content fields.
const (
	minUsernameLen    = 3
	maxUsernameLen    = 30
	minPasswordLen    = 6
	minTitleLen       = 5
	maxTitleLen       = 200
	minContentLen     = 10
	maxExcerptLen     = 300
	maxCommentLen     = 2_000
	maxDisplayNameLen = 50
	maxBioLen         = 500
	maxCategoryName   = 50
	maxCategoryDesc   = 200
	maxTags           = 10
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validateRegistration checks signup inputs and returns the first error found.
func validateRegistration(username, email, password string) string {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "Username must be between 3 and 30 characters."
	}
	if !usernameRe.MatchString(username) {
		return "Username may only contain letters, numbers and underscores."
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return "A valid email address is required."
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 6 characters."
	}
	return ""
}

// validatePost checks post inputs and returns the first error found.
func validatePost(title, content string, tags []string) string {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		return "Title must be between 5 and 200 characters."
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minContentLen {
		return "Content must be at least 10 characters."
	}
	if len(tags) > maxTags {
		return "A post may carry at most 10 tags."
	}
	return ""
}

// validateComment checks comment content.
func validateComment(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "Comment content is required."
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 2,000 characters)."
	}
	return ""
}

// validateProfile checks optional profile update fields.
func validateProfile(displayName, bio string) string {
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Display name is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 500 characters)."
	}
	return ""
}

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "Category name is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(description) > maxCategoryDesc {
		return "Category description is too long (max 200 characters)."
	}
	return ""
}

// Package normalize provides utilities for normalizing user-supplied data.
package normalize

import "strings"

// Email lowercases and trims an email address so lookups are
// case-insensitive. Uniqueness is enforced against the normalized form.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TagName normalizes a tag name for storage and lookup: trimmed, lowercased,
// internal runs of whitespace collapsed to single spaces. (user, TagName)
// is the uniqueness key for tags.
func TagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return strings.Join(strings.Fields(name), " ")
}

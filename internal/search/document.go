// Package search provides full-text search over content items using Bleve.
package search

import (
	"github.com/cerebero/cerebero-server/internal/domain"
)

// ContentDocument is the document structure for the Bleve index.
//
// user_id is indexed as an exact keyword so every query can be scoped to its
// owner; nothing a user indexes is ever visible to another user's searches.
type ContentDocument struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	URL       string `json:"url,omitempty"`
	CreatedAt int64  `json:"created_at"` // Unix millis
	UpdatedAt int64  `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our mapping
// uses lowercase names, so we convert explicitly.
func (d *ContentDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"type":       d.Type,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Body != "" {
		m["body"] = d.Body
	}
	if d.URL != "" {
		m["url"] = d.URL
	}

	return m
}

// ContentToDocument converts a domain Content to a ContentDocument.
func ContentToDocument(c *domain.Content) *ContentDocument {
	return &ContentDocument{
		ID:        c.ID,
		UserID:    c.UserID,
		Type:      string(c.Type),
		Title:     c.Title,
		Body:      c.Body,
		URL:       c.URL,
		CreatedAt: c.CreatedAt.UnixMilli(),
		UpdatedAt: c.UpdatedAt.UnixMilli(),
	}
}

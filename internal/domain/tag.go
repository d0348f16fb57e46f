package domain

// Tag is a user-scoped label. Name is stored normalized (lowercase, trimmed,
// internal whitespace collapsed) and is unique per user.
type Tag struct {
	Syncable
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// TagWithCount pairs a tag with the number of content items it is attached to.
type TagWithCount struct {
	Tag
	ContentCount int `json:"content_count"`
}

// TagContentGroup is a tag together with a page of its attached content,
// used by the top-tags overview.
type TagContentGroup struct {
	Tag      Tag       `json:"tag"`
	Contents []Content `json:"contents"`
	Total    int       `json:"total"`
}

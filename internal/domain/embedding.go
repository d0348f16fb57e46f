package domain

// Embedding is a vector representation of a content item, one per content.
// Vectors from different models are not comparable, so the generating model
// is recorded alongside.
type Embedding struct {
	Syncable
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Vector    []float32 `json:"vector"`
	Model     string    `json:"model"`
}

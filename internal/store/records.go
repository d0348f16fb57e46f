package store

import (
	"time"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// Stored records use the document shape the web client originally wrote:
// camelCase keys and epoch-millisecond timestamps. The mappers below are the
// only place that shape is known; everything above the store works with
// domain structs.

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toMillisPtr(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return toMillis(*t)
}

func fromMillisPtr(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := fromMillis(ms)
	return &t
}

type userRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	Provider     string `json:"provider"`
	ProviderID   string `json:"providerId,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	LastLoginAt  int64  `json:"lastLoginAt,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

func userToRecord(u *domain.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		Provider:     string(u.Provider),
		ProviderID:   u.ProviderID,
		PasswordHash: u.PasswordHash,
		LastLoginAt:  toMillis(u.LastLoginAt),
		CreatedAt:    toMillis(u.CreatedAt),
		UpdatedAt:    toMillis(u.UpdatedAt),
	}
}

func userFromRecord(r *userRecord) *domain.User {
	return &domain.User{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		AvatarURL:    r.AvatarURL,
		Provider:     domain.AuthProvider(r.Provider),
		ProviderID:   r.ProviderID,
		PasswordHash: r.PasswordHash,
		LastLoginAt:  fromMillis(r.LastLoginAt),
	}
}

type sessionRecord struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	RefreshTokenHash string `json:"refreshTokenHash"`
	UserAgent        string `json:"userAgent,omitempty"`
	IP               string `json:"ip,omitempty"`
	ExpiresAt        int64  `json:"expiresAt"`
	LastUsedAt       int64  `json:"lastUsedAt,omitempty"`
	RevokedAt        int64  `json:"revokedAt,omitempty"`
	CreatedAt        int64  `json:"createdAt"`
	UpdatedAt        int64  `json:"updatedAt"`
}

func sessionToRecord(s *domain.Session) *sessionRecord {
	return &sessionRecord{
		ID:               s.ID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		UserAgent:        s.UserAgent,
		IP:               s.IP,
		ExpiresAt:        toMillis(s.ExpiresAt),
		LastUsedAt:       toMillis(s.LastUsedAt),
		RevokedAt:        toMillisPtr(s.RevokedAt),
		CreatedAt:        toMillis(s.CreatedAt),
		UpdatedAt:        toMillis(s.UpdatedAt),
	}
}

func sessionFromRecord(r *sessionRecord) *domain.Session {
	return &domain.Session{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		UserID:           r.UserID,
		RefreshTokenHash: r.RefreshTokenHash,
		UserAgent:        r.UserAgent,
		IP:               r.IP,
		ExpiresAt:        fromMillis(r.ExpiresAt),
		LastUsedAt:       fromMillis(r.LastUsedAt),
		RevokedAt:        fromMillisPtr(r.RevokedAt),
	}
}

type contentRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Body        string `json:"body,omitempty"`
	IsShared    bool   `json:"isShared"`
	IsFavourite bool   `json:"isFavourite"`
	ShareID     string `json:"shareId,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func contentToRecord(c *domain.Content) *contentRecord {
	return &contentRecord{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Type:        string(c.Type),
		URL:         c.URL,
		Body:        c.Body,
		IsShared:    c.IsShared,
		IsFavourite: c.IsFavourite,
		ShareID:     c.ShareID,
		CreatedAt:   toMillis(c.CreatedAt),
		UpdatedAt:   toMillis(c.UpdatedAt),
	}
}

func contentFromRecord(r *contentRecord) *domain.Content {
	return &domain.Content{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		UserID:      r.UserID,
		Title:       r.Title,
		Type:        domain.ContentType(r.Type),
		URL:         r.URL,
		Body:        r.Body,
		IsShared:    r.IsShared,
		IsFavourite: r.IsFavourite,
		ShareID:     r.ShareID,
	}
}

type tagRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func tagToRecord(t *domain.Tag) *tagRecord {
	return &tagRecord{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		CreatedAt: toMillis(t.CreatedAt),
		UpdatedAt: toMillis(t.UpdatedAt),
	}
}

func tagFromRecord(r *tagRecord) *domain.Tag {
	return &domain.Tag{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		UserID: r.UserID,
		Name:   r.Name,
	}
}

// linkRecord joins a content item to a tag. Its ID is contentID+":"+tagID,
// which makes attach conflicts a plain key collision.
type linkRecord struct {
	ID        string `json:"id"`
	ContentID string `json:"contentId"`
	TagID     string `json:"tagId"`
	CreatedAt int64  `json:"createdAt"`
}

func linkID(contentID, tagID string) string {
	return contentID + ":" + tagID
}

type todoRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func todoToRecord(t *domain.Todo) *todoRecord {
	return &todoRecord{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: toMillis(t.CreatedAt),
		UpdatedAt: toMillis(t.UpdatedAt),
	}
}

func todoFromRecord(r *todoRecord) *domain.Todo {
	return &domain.Todo{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		UserID:    r.UserID,
		Title:     r.Title,
		Completed: r.Completed,
	}
}

type embeddingRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ContentID string    `json:"contentId"`
	Vector    []float32 `json:"vector"`
	Model     string    `json:"model"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

func embeddingToRecord(e *domain.Embedding) *embeddingRecord {
	return &embeddingRecord{
		ID:        e.ID,
		UserID:    e.UserID,
		ContentID: e.ContentID,
		Vector:    e.Vector,
		Model:     e.Model,
		CreatedAt: toMillis(e.CreatedAt),
		UpdatedAt: toMillis(e.UpdatedAt),
	}
}

func embeddingFromRecord(r *embeddingRecord) *domain.Embedding {
	return &domain.Embedding{
		Syncable: domain.Syncable{
			ID:        r.ID,
			CreatedAt: fromMillis(r.CreatedAt),
			UpdatedAt: fromMillis(r.UpdatedAt),
		},
		UserID:    r.UserID,
		ContentID: r.ContentID,
		Vector:    r.Vector,
		Model:     r.Model,
	}
}

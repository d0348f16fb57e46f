package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/domain"
)

func setupTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func createTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		DisplayName:  "Test User",
		Provider:     domain.ProviderCredentials,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}
}

func createTestContent(id, userID, title string) *domain.Content {
	now := time.Now()
	return &domain.Content{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Title:  title,
		Type:   domain.ContentLink,
		URL:    "https://example.com/" + id,
	}
}

func createTestTag(id, userID, name string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Name:   name,
	}
}

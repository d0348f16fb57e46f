package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/store"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-001", "alice@example.com")

	user := seedUser(t, s, "user-002", "bob@example.com")
	user.ID = "user-003"
	user.Email = "Alice@Example.com"
	err := s.CreateUser(ctx, user)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "user-001", "Alice@Example.com")

	user, err := s.GetUserByEmail(context.Background(), "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-001", user.ID)
	// Original casing is preserved on the record.
	assert.Equal(t, "Alice@Example.com", user.Email)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "user-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "user-001", "alice@example.com")

	user.DisplayName = "Alice"
	user.Touch()
	require.NoError(t, s.UpdateUser(ctx, user))

	retrieved, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", retrieved.DisplayName)
	assert.True(t, retrieved.HasPassword())
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	user := seedUser(t, s, "user-001", "alice@example.com")
	user.ID = "user-missing"
	err := s.UpdateUser(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

package store

import (
	"context"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// CreateUser creates a new user.
// Returns ErrAlreadyExists if a user with the same email already exists.
func (s *BadgerStore) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ensureID(&user.ID, "user"); err != nil {
		return err
	}
	return s.users.Create(ctx, user.ID, userToRecord(user))
}

// GetUser retrieves a user by ID.
func (s *BadgerStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	record, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return userFromRecord(record), nil
}

// GetUserByEmail retrieves a user by email. The lookup is case-insensitive.
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	record, err := s.users.GetByIndex(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	return userFromRecord(record), nil
}

// UpdateUser updates an existing user.
func (s *BadgerStore) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.users.Update(ctx, user.ID, userToRecord(user))
}

package store

import (
	"context"
	"time"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// CreateSession creates a new auth session.
func (s *BadgerStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := ensureID(&session.ID, "session"); err != nil {
		return err
	}
	return s.sessions.Create(ctx, session.ID, sessionToRecord(session))
}

// GetSession retrieves a session by ID.
func (s *BadgerStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	record, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sessionFromRecord(record), nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
func (s *BadgerStore) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	record, err := s.sessions.GetByIndex(ctx, "refresh", tokenHash)
	if err != nil {
		return nil, err
	}
	return sessionFromRecord(record), nil
}

// UpdateSession updates an existing session.
func (s *BadgerStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	return s.sessions.Update(ctx, session.ID, sessionToRecord(session))
}

// DeleteSession deletes a session by ID. Idempotent.
func (s *BadgerStore) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// DeleteAllUserSessions deletes every session belonging to the user.
func (s *BadgerStore) DeleteAllUserSessions(ctx context.Context, userID string) error {
	ids, err := s.sessions.ListByIndex(ctx, "user", userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.sessions.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns how
// many were deleted.
func (s *BadgerStore) DeleteExpiredSessions(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	var expired []string

	for record, err := range s.sessions.List(ctx) {
		if err != nil {
			return 0, err
		}
		if now.After(fromMillis(record.ExpiresAt)) {
			expired = append(expired, record.ID)
		}
	}

	for _, id := range expired {
		if err := s.sessions.Delete(ctx, id); err != nil {
			return 0, err
		}
	}

	return len(expired), nil
}

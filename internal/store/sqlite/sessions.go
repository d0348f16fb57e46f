package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/store"
)

const sessionColumns = `id, created_at, updated_at, user_id, refresh_token_hash,
	user_agent, ip, expires_at, last_used_at, revoked_at`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		createdAt  string
		updatedAt  string
		expiresAt  string
		lastUsedAt string
		revokedAt  sql.NullString
	)

	err := scanner.Scan(
		&sess.ID,
		&createdAt,
		&updatedAt,
		&sess.UserID,
		&sess.RefreshTokenHash,
		&sess.UserAgent,
		&sess.IP,
		&expiresAt,
		&lastUsedAt,
		&revokedAt,
	)
	if err != nil {
		return nil, err
	}

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if sess.LastUsedAt, err = parseTime(lastUsedAt); err != nil {
		return nil, err
	}
	if sess.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return nil, err
	}

	return &sess, nil
}

// CreateSession inserts a new auth session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	ensureID(&session.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, created_at, updated_at, user_id, refresh_token_hash,
			user_agent, ip, expires_at, last_used_at, revoked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		session.UserID,
		session.RefreshTokenHash,
		session.UserAgent,
		session.IP,
		formatTime(session.ExpiresAt),
		formatTime(session.LastUsedAt),
		nullTimeString(session.RevokedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession performs a full row update on an existing session.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			created_at = ?,
			updated_at = ?,
			user_id = ?,
			refresh_token_hash = ?,
			user_agent = ?,
			ip = ?,
			expires_at = ?,
			last_used_at = ?,
			revoked_at = ?
		WHERE id = ?`,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		session.UserID,
		session.RefreshTokenHash,
		session.UserAgent,
		session.IP,
		formatTime(session.ExpiresAt),
		formatTime(session.LastUsedAt),
		nullTimeString(session.RevokedAt),
		session.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession deletes a session by ID. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteAllUserSessions deletes every session belonging to the user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry and returns how
// many were deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(time.Now()))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

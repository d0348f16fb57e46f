package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/store"
)

const tagColumns = `id, created_at, updated_at, user_id, name`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt, updatedAt string

	err := scanner.Scan(&t.ID, &createdAt, &updatedAt, &t.UserID, &t.Name)
	if err != nil {
		return nil, err
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists if the user already has a tag with this name.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	ensureID(&tag.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, created_at, updated_at, user_id, name)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID,
		formatTime(tag.CreatedAt),
		formatTime(tag.UpdatedAt),
		tag.UserID,
		tag.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a user's tag by its normalized name.
func (s *Store) GetTagByName(ctx context.Context, userID, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE user_id = ? AND name = ?`, userID, name)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTag performs a full row update on an existing tag.
// Returns store.ErrAlreadyExists if the new name collides with another tag of
// the same user.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET
			created_at = ?,
			updated_at = ?,
			user_id = ?,
			name = ?
		WHERE id = ?`,
		formatTime(tag.CreatedAt),
		formatTime(tag.UpdatedAt),
		tag.UserID,
		tag.Name,
		tag.ID,
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

// DeleteTag removes the tag. Its content links go with it via the foreign
// key cascade. Idempotent.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	return err
}

// ListTags returns all of the user's tags with their content counts, sorted
// by count descending then name ascending.
func (s *Store) ListTags(ctx context.Context, userID string) ([]*domain.TagWithCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.created_at, t.updated_at, t.user_id, t.name,
			COUNT(ct.content_id) AS content_count
		FROM tags t
		LEFT JOIN content_tags ct ON ct.tag_id = t.id
		WHERE t.user_id = ?
		GROUP BY t.id
		ORDER BY content_count DESC, t.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.TagWithCount
	for rows.Next() {
		var (
			t         domain.Tag
			createdAt string
			updatedAt string
			count     int
		)
		if err := rows.Scan(&t.ID, &createdAt, &updatedAt, &t.UserID, &t.Name, &count); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &domain.TagWithCount{Tag: t, ContentCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// AttachTag links a tag to a content item.
// Returns store.ErrAlreadyExists if the link is already present.
func (s *Store) AttachTag(ctx context.Context, contentID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO content_tags (content_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		contentID, tagID, formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DetachTag removes the link between a tag and a content item. Idempotent.
func (s *Store) DetachTag(ctx context.Context, contentID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM content_tags WHERE content_id = ? AND tag_id = ?`, contentID, tagID)
	return err
}

// ListTagsForContent returns the tags attached to a content item, sorted by
// name.
func (s *Store) ListTagsForContent(ctx context.Context, contentID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.created_at, t.updated_at, t.user_id, t.name
		FROM tags t
		JOIN content_tags ct ON ct.tag_id = t.id
		WHERE ct.content_id = ?
		ORDER BY t.name ASC`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTagIDsForContent returns the IDs of tags linked to a content item.
func (s *Store) ListTagIDsForContent(ctx context.Context, contentID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT tag_id FROM content_tags WHERE content_id = ?`, contentID)
}

// ListContentIDsForTag returns the IDs of content items carrying the tag.
func (s *Store) ListContentIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT content_id FROM content_tags WHERE tag_id = ?`, tagID)
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

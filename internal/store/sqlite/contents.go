package sqlite

import (
	"context"
	"database/sql"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/store"
)

const contentColumns = `id, created_at, updated_at, user_id, title, type,
	url, body, is_shared, is_favourite, share_id`

func scanContent(scanner interface{ Scan(dest ...any) error }) (*domain.Content, error) {
	var c domain.Content

	var (
		createdAt   string
		updatedAt   string
		contentType string
		isShared    int
		isFavourite int
		shareID     sql.NullString
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.UserID,
		&c.Title,
		&contentType,
		&c.URL,
		&c.Body,
		&isShared,
		&isFavourite,
		&shareID,
	)
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	c.Type = domain.ContentType(contentType)
	c.IsShared = isShared != 0
	c.IsFavourite = isFavourite != 0
	if shareID.Valid {
		c.ShareID = shareID.String
	}

	return &c, nil
}

func (s *Store) indexContent(ctx context.Context, content *domain.Content) {
	if err := s.searchIndexer.IndexContent(ctx, content); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index content", "contentId", content.ID, "error", err)
	}
}

func (s *Store) unindexContent(ctx context.Context, contentID string) {
	if err := s.searchIndexer.DeleteContent(ctx, contentID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to remove content from index", "contentId", contentID, "error", err)
	}
}

// insertContent runs the content INSERT against any execer (db or tx).
func insertContent(ctx context.Context, execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, content *domain.Content) error {
	ensureID(&content.ID)
	_, err := execer.ExecContext(ctx, `
		INSERT INTO contents (
			id, created_at, updated_at, user_id, title, type,
			url, body, is_shared, is_favourite, share_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ID,
		formatTime(content.CreatedAt),
		formatTime(content.UpdatedAt),
		content.UserID,
		content.Title,
		string(content.Type),
		content.URL,
		content.Body,
		boolToInt(content.IsShared),
		boolToInt(content.IsFavourite),
		nullString(content.ShareID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreateContent inserts a new content item.
func (s *Store) CreateContent(ctx context.Context, content *domain.Content) error {
	if err := insertContent(ctx, s.db, content); err != nil {
		return err
	}
	s.indexContent(ctx, content)
	return nil
}

// GetContent retrieves a content item by ID.
func (s *Store) GetContent(ctx context.Context, id string) (*domain.Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)

	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContentByShareID resolves a public share link. Content that has a share
// ID but is no longer shared is treated as not found.
func (s *Store) GetContentByShareID(ctx context.Context, shareID string) (*domain.Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE share_id = ? AND is_shared = 1`, shareID)

	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateContent performs a full row update on an existing content item.
func (s *Store) UpdateContent(ctx context.Context, content *domain.Content) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contents SET
			created_at = ?,
			updated_at = ?,
			user_id = ?,
			title = ?,
			type = ?,
			url = ?,
			body = ?,
			is_shared = ?,
			is_favourite = ?,
			share_id = ?
		WHERE id = ?`,
		formatTime(content.CreatedAt),
		formatTime(content.UpdatedAt),
		content.UserID,
		content.Title,
		string(content.Type),
		content.URL,
		content.Body,
		boolToInt(content.IsShared),
		boolToInt(content.IsFavourite),
		nullString(content.ShareID),
		content.ID,
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

	s.indexContent(ctx, content)
	return nil
}

// DeleteContent removes the content item. Tag links and the embedding go with
// it via foreign key cascades. Idempotent.
func (s *Store) DeleteContent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.unindexContent(ctx, id)
	return nil
}

// listContentsWhere runs a paginated content query for one user with an
// optional extra predicate.
func (s *Store) listContentsWhere(ctx context.Context, userID, extra string, params store.PaginationParams, extraArgs ...any) (*store.PaginatedResult[*domain.Content], error) {
	params.Validate()

	where := `WHERE user_id = ?`
	if extra != "" {
		where += ` AND ` + extra
	}
	args := append([]any{userID}, extraArgs...)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contents `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + contentColumns + ` FROM contents ` + where +
		` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents := make([]*domain.Content, 0, params.Limit)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*domain.Content]{
		Items:   contents,
		Total:   total,
		HasMore: params.Offset+len(contents) < total,
	}, nil
}

// ListContents returns a page of the user's content, newest first.
func (s *Store) ListContents(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	return s.listContentsWhere(ctx, userID, "", params)
}

// ListContentsByType returns a page of the user's content of one type.
func (s *Store) ListContentsByType(ctx context.Context, userID string, contentType domain.ContentType, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	return s.listContentsWhere(ctx, userID, `type = ?`, params, string(contentType))
}

// ListFavourites returns a page of the user's favourited content.
func (s *Store) ListFavourites(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	return s.listContentsWhere(ctx, userID, `is_favourite = 1`, params)
}

// ListContentsByTag returns a page of the user's content carrying the tag.
func (s *Store) ListContentsByTag(ctx context.Context, userID, tagID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	return s.listContentsWhere(ctx, userID,
		`id IN (SELECT content_id FROM content_tags WHERE tag_id = ?)`, params, tagID)
}

// ListRecentlyTagged returns up to limit of the user's content carrying the
// tag, ordered by attachment time rather than content update time.
func (s *Store) ListRecentlyTagged(ctx context.Context, userID, tagID string, limit int) ([]*domain.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents
		WHERE user_id = ? AND id IN (SELECT content_id FROM content_tags WHERE tag_id = ?)
		ORDER BY (SELECT created_at FROM content_tags
			WHERE content_id = contents.id AND tag_id = ?) DESC, id DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, userID, tagID, tagID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents := make([]*domain.Content, 0, limit)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// ImportContents inserts all items in a single transaction. If any item
// conflicts, nothing is written.
func (s *Store) ImportContents(ctx context.Context, contents []*domain.Content) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, content := range contents {
		if err := insertContent(ctx, tx, content); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, content := range contents {
		s.indexContent(ctx, content)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/store"
)

const embeddingColumns = `id, created_at, updated_at, user_id, content_id, vector, model`

// Vectors are stored as JSON arrays. They are only ever read back whole for
// in-process similarity scoring, so a queryable representation buys nothing.

func scanEmbedding(scanner interface{ Scan(dest ...any) error }) (*domain.Embedding, error) {
	var e domain.Embedding

	var (
		createdAt string
		updatedAt string
		vector    string
	)

	err := scanner.Scan(&e.ID, &createdAt, &updatedAt, &e.UserID, &e.ContentID, &vector, &e.Model)
	if err != nil {
		return nil, err
	}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(vector), &e.Vector); err != nil {
		return nil, err
	}

	return &e, nil
}

// UpsertEmbedding stores the embedding for a content item, replacing any
// previous vector for the same content.
func (s *Store) UpsertEmbedding(ctx context.Context, embedding *domain.Embedding) error {
	ensureID(&embedding.ID)
	vector, err := json.Marshal(embedding.Vector)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (id, created_at, updated_at, user_id, content_id, vector, model)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			vector = excluded.vector,
			model = excluded.model`,
		embedding.ID,
		formatTime(embedding.CreatedAt),
		formatTime(embedding.UpdatedAt),
		embedding.UserID,
		embedding.ContentID,
		string(vector),
		embedding.Model,
	)
	return err
}

// GetEmbeddingForContent retrieves the embedding for a content item.
func (s *Store) GetEmbeddingForContent(ctx context.Context, contentID string) (*domain.Embedding, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+embeddingColumns+` FROM embeddings WHERE content_id = ?`, contentID)

	e, err := scanEmbedding(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEmbeddingForContent removes the embedding for a content item.
// Idempotent.
func (s *Store) DeleteEmbeddingForContent(ctx context.Context, contentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM embeddings WHERE content_id = ?`, contentID)
	return err
}

// ListEmbeddings returns all of the user's embeddings.
func (s *Store) ListEmbeddings(ctx context.Context, userID string) ([]*domain.Embedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+embeddingColumns+` FROM embeddings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var embeddings []*domain.Embedding
	for rows.Next() {
		e, err := scanEmbedding(rows)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

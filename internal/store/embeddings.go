package store

import (
	"context"
	"errors"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// UpsertEmbedding stores the embedding for a content item, replacing any
// previous vector for the same content.
func (s *BadgerStore) UpsertEmbedding(ctx context.Context, embedding *domain.Embedding) error {
	existing, err := s.embeddings.GetByIndex(ctx, "content", embedding.ContentID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := ensureID(&embedding.ID, "embedding"); err != nil {
			return err
		}
		return s.embeddings.Create(ctx, embedding.ID, embeddingToRecord(embedding))
	}

	// Keep the original row identity on replacement.
	embedding.ID = existing.ID
	embedding.CreatedAt = fromMillis(existing.CreatedAt)
	return s.embeddings.Update(ctx, existing.ID, embeddingToRecord(embedding))
}

// GetEmbeddingForContent retrieves the embedding for a content item.
func (s *BadgerStore) GetEmbeddingForContent(ctx context.Context, contentID string) (*domain.Embedding, error) {
	record, err := s.embeddings.GetByIndex(ctx, "content", contentID)
	if err != nil {
		return nil, err
	}
	return embeddingFromRecord(record), nil
}

// DeleteEmbeddingForContent removes the embedding for a content item.
// Idempotent.
func (s *BadgerStore) DeleteEmbeddingForContent(ctx context.Context, contentID string) error {
	record, err := s.embeddings.GetByIndex(ctx, "content", contentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.embeddings.Delete(ctx, record.ID)
}

// ListEmbeddings returns all of the user's embeddings.
func (s *BadgerStore) ListEmbeddings(ctx context.Context, userID string) ([]*domain.Embedding, error) {
	ids, err := s.embeddings.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	embeddings := make([]*domain.Embedding, 0, len(ids))
	for _, id := range ids {
		record, err := s.embeddings.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, embeddingFromRecord(record))
	}

	return embeddings, nil
}

package store

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// indexContent pushes the content into the search index if one is attached.
// Index failures are logged and swallowed; persistence already succeeded.
func (s *BadgerStore) indexContent(ctx context.Context, content *domain.Content) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexContent(ctx, content); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index content", "contentId", content.ID, "error", err)
	}
}

func (s *BadgerStore) unindexContent(ctx context.Context, contentID string) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.DeleteContent(ctx, contentID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to remove content from index", "contentId", contentID, "error", err)
	}
}

// CreateContent creates a new content item.
func (s *BadgerStore) CreateContent(ctx context.Context, content *domain.Content) error {
	if err := ensureID(&content.ID, "content"); err != nil {
		return err
	}
	if err := s.contents.Create(ctx, content.ID, contentToRecord(content)); err != nil {
		return err
	}
	s.indexContent(ctx, content)
	return nil
}

// GetContent retrieves a content item by ID.
func (s *BadgerStore) GetContent(ctx context.Context, id string) (*domain.Content, error) {
	record, err := s.contents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return contentFromRecord(record), nil
}

// GetContentByShareID resolves a public share link. Content that has a share
// ID but is no longer shared is treated as not found.
func (s *BadgerStore) GetContentByShareID(ctx context.Context, shareID string) (*domain.Content, error) {
	record, err := s.contents.GetByIndex(ctx, "share", shareID)
	if err != nil {
		return nil, err
	}
	if !record.IsShared {
		return nil, ErrNotFound
	}
	return contentFromRecord(record), nil
}

// UpdateContent updates an existing content item.
func (s *BadgerStore) UpdateContent(ctx context.Context, content *domain.Content) error {
	if err := s.contents.Update(ctx, content.ID, contentToRecord(content)); err != nil {
		return err
	}
	s.indexContent(ctx, content)
	return nil
}

// DeleteContent removes the content item together with its tag links and
// embedding. Idempotent.
func (s *BadgerStore) DeleteContent(ctx context.Context, id string) error {
	linkIDs, err := s.links.ListByIndex(ctx, "content", id)
	if err != nil {
		return err
	}
	for _, lid := range linkIDs {
		if err := s.links.Delete(ctx, lid); err != nil {
			return err
		}
	}

	if err := s.DeleteEmbeddingForContent(ctx, id); err != nil {
		return err
	}

	if err := s.contents.Delete(ctx, id); err != nil {
		return err
	}

	s.unindexContent(ctx, id)
	return nil
}

// listUserContents fetches all of a user's content, newest first.
func (s *BadgerStore) listUserContents(ctx context.Context, userID string) ([]*domain.Content, error) {
	ids, err := s.contents.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	contents := make([]*domain.Content, 0, len(ids))
	for _, id := range ids {
		record, err := s.contents.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		contents = append(contents, contentFromRecord(record))
	}

	sortContentsNewestFirst(contents)
	return contents, nil
}

func sortContentsNewestFirst(contents []*domain.Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		return contents[i].UpdatedAt.After(contents[j].UpdatedAt)
	})
}

// ListContents returns a page of the user's content, most recently updated first.
func (s *BadgerStore) ListContents(ctx context.Context, userID string, params PaginationParams) (*PaginatedResult[*domain.Content], error) {
	contents, err := s.listUserContents(ctx, userID)
	if err != nil {
		return nil, err
	}
	return page(contents, params), nil
}

// ListContentsByType returns a page of the user's content of one type.
func (s *BadgerStore) ListContentsByType(ctx context.Context, userID string, contentType domain.ContentType, params PaginationParams) (*PaginatedResult[*domain.Content], error) {
	contents, err := s.listUserContents(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := contents[:0]
	for _, c := range contents {
		if c.Type == contentType {
			filtered = append(filtered, c)
		}
	}
	return page(filtered, params), nil
}

// ListFavourites returns a page of the user's favourited content.
func (s *BadgerStore) ListFavourites(ctx context.Context, userID string, params PaginationParams) (*PaginatedResult[*domain.Content], error) {
	contents, err := s.listUserContents(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := contents[:0]
	for _, c := range contents {
		if c.IsFavourite {
			filtered = append(filtered, c)
		}
	}
	return page(filtered, params), nil
}

// ListContentsByTag returns a page of the user's content carrying the tag.
func (s *BadgerStore) ListContentsByTag(ctx context.Context, userID, tagID string, params PaginationParams) (*PaginatedResult[*domain.Content], error) {
	contentIDs, err := s.ListContentIDsForTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	contents := make([]*domain.Content, 0, len(contentIDs))
	for _, id := range contentIDs {
		record, err := s.contents.Get(ctx, id)
		if err != nil {
			// Link pointing at deleted content; skip.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if record.UserID != userID {
			continue
		}
		contents = append(contents, contentFromRecord(record))
	}

	sortContentsNewestFirst(contents)
	return page(contents, params), nil
}

// ListRecentlyTagged returns up to limit of the user's content carrying the
// tag, ordered by attachment time rather than content update time.
func (s *BadgerStore) ListRecentlyTagged(ctx context.Context, userID, tagID string, limit int) ([]*domain.Content, error) {
	linkIDs, err := s.links.ListByIndex(ctx, "tag", tagID)
	if err != nil {
		return nil, err
	}

	type attachment struct {
		content    *domain.Content
		attachedAt int64
	}

	attachments := make([]attachment, 0, len(linkIDs))
	for _, lid := range linkIDs {
		link, err := s.links.Get(ctx, lid)
		if err != nil {
			return nil, err
		}
		record, err := s.contents.Get(ctx, link.ContentID)
		if err != nil {
			// Link pointing at deleted content; skip.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if record.UserID != userID {
			continue
		}
		attachments = append(attachments, attachment{
			content:    contentFromRecord(record),
			attachedAt: link.CreatedAt,
		})
	}

	sort.SliceStable(attachments, func(i, j int) bool {
		return attachments[i].attachedAt > attachments[j].attachedAt
	})
	if limit > 0 && len(attachments) > limit {
		attachments = attachments[:limit]
	}

	contents := make([]*domain.Content, 0, len(attachments))
	for _, a := range attachments {
		contents = append(contents, a.content)
	}
	return contents, nil
}

// ImportContents inserts all items in a single transaction. If any item
// conflicts, nothing is written.
func (s *BadgerStore) ImportContents(ctx context.Context, contents []*domain.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, content := range contents {
			if err := ensureID(&content.ID, "content"); err != nil {
				return err
			}
			if err := s.contents.createInTxn(txn, content.ID, contentToRecord(content)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, content := range contents {
		s.indexContent(ctx, content)
	}
	return nil
}

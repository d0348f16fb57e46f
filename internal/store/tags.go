package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// CreateTag creates a new tag.
// Returns ErrAlreadyExists if the user already has a tag with this name.
func (s *BadgerStore) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if err := ensureID(&tag.ID, "tag"); err != nil {
		return err
	}
	return s.tags.Create(ctx, tag.ID, tagToRecord(tag))
}

// GetTag retrieves a tag by ID.
func (s *BadgerStore) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	record, err := s.tags.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return tagFromRecord(record), nil
}

// GetTagByName retrieves a user's tag by its normalized name.
func (s *BadgerStore) GetTagByName(ctx context.Context, userID, name string) (*domain.Tag, error) {
	record, err := s.tags.GetByIndex(ctx, "name", userID+":"+name)
	if err != nil {
		return nil, err
	}
	return tagFromRecord(record), nil
}

// UpdateTag updates an existing tag.
// Returns ErrAlreadyExists if the new name collides with another tag of the
// same user.
func (s *BadgerStore) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	return s.tags.Update(ctx, tag.ID, tagToRecord(tag))
}

// DeleteTag removes the tag and all its content links. Idempotent.
func (s *BadgerStore) DeleteTag(ctx context.Context, id string) error {
	linkIDs, err := s.links.ListByIndex(ctx, "tag", id)
	if err != nil {
		return err
	}
	for _, lid := range linkIDs {
		if err := s.links.Delete(ctx, lid); err != nil {
			return err
		}
	}
	return s.tags.Delete(ctx, id)
}

// ListTags returns all of the user's tags with their content counts, sorted
// by count descending then name ascending.
func (s *BadgerStore) ListTags(ctx context.Context, userID string) ([]*domain.TagWithCount, error) {
	ids, err := s.tags.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	tags := make([]*domain.TagWithCount, 0, len(ids))
	for _, id := range ids {
		record, err := s.tags.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		contentIDs, err := s.links.ListByIndex(ctx, "tag", id)
		if err != nil {
			return nil, err
		}

		tags = append(tags, &domain.TagWithCount{
			Tag:          *tagFromRecord(record),
			ContentCount: len(contentIDs),
		})
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].ContentCount != tags[j].ContentCount {
			return tags[i].ContentCount > tags[j].ContentCount
		}
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

// AttachTag links a tag to a content item.
// Returns ErrAlreadyExists if the link is already present.
func (s *BadgerStore) AttachTag(ctx context.Context, contentID, tagID string) error {
	id := linkID(contentID, tagID)
	return s.links.Create(ctx, id, &linkRecord{
		ID:        id,
		ContentID: contentID,
		TagID:     tagID,
		CreatedAt: toMillis(time.Now().UTC()),
	})
}

// DetachTag removes the link between a tag and a content item. Idempotent.
func (s *BadgerStore) DetachTag(ctx context.Context, contentID, tagID string) error {
	return s.links.Delete(ctx, linkID(contentID, tagID))
}

// ListTagsForContent returns the tags attached to a content item.
func (s *BadgerStore) ListTagsForContent(ctx context.Context, contentID string) ([]*domain.Tag, error) {
	tagIDs, err := s.ListTagIDsForContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	tags := make([]*domain.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		record, err := s.tags.Get(ctx, tagID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		tags = append(tags, tagFromRecord(record))
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

// ListTagIDsForContent returns the IDs of tags linked to a content item.
func (s *BadgerStore) ListTagIDsForContent(ctx context.Context, contentID string) ([]string, error) {
	linkIDs, err := s.links.ListByIndex(ctx, "content", contentID)
	if err != nil {
		return nil, err
	}

	tagIDs := make([]string, 0, len(linkIDs))
	for _, lid := range linkIDs {
		record, err := s.links.Get(ctx, lid)
		if err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, record.TagID)
	}
	return tagIDs, nil
}

// ListContentIDsForTag returns the IDs of content items carrying the tag.
func (s *BadgerStore) ListContentIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	linkIDs, err := s.links.ListByIndex(ctx, "tag", tagID)
	if err != nil {
		return nil, err
	}

	contentIDs := make([]string, 0, len(linkIDs))
	for _, lid := range linkIDs {
		record, err := s.links.Get(ctx, lid)
		if err != nil {
			return nil, err
		}
		contentIDs = append(contentIDs, record.ContentID)
	}
	return contentIDs, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cerebero/cerebero-server/internal/domain"
	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
	"github.com/cerebero/cerebero-server/internal/normalize"
	"github.com/cerebero/cerebero-server/internal/store"
)

// TagService manages user-scoped tags and their attachment to content.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// GetOrCreate returns the user's tag with the given name, creating it if
// absent. Names are normalized before lookup so "Work" and " work " are the
// same tag. Safe under concurrent calls: a lost create race is resolved by
// re-fetching the winner.
func (s *TagService) GetOrCreate(ctx context.Context, userID, name string) (*domain.Tag, error) {
	normalized := normalize.TagName(name)
	if normalized == "" {
		return nil, domainerrors.Validation("tag name is required")
	}

	tag, err := s.store.GetTagByName(ctx, userID, normalized)
	if err == nil {
		return tag, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup tag: %w", err)
	}

	tag = &domain.Tag{
		UserID: userID,
		Name:   normalized,
	}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			// Lost the race: another request created the tag between our
			// lookup and insert. The unique constraint is the arbiter.
			return s.store.GetTagByName(ctx, userID, normalized)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	return tag, nil
}

// Get returns a tag if it exists and is owned by the user.
// Ownership mismatch is reported as not-found to avoid leaking existence.
func (s *TagService) Get(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if tag.UserID != userID {
		return nil, domainerrors.NotFound("tag not found")
	}
	return tag, nil
}

// List returns all of the user's tags with usage counts, most used first.
func (s *TagService) List(ctx context.Context, userID string) ([]*domain.TagWithCount, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Rename changes a tag's name, rejecting names already used by another of
// the user's tags.
func (s *TagService) Rename(ctx context.Context, userID, tagID, newName string) (*domain.Tag, error) {
	normalized := normalize.TagName(newName)
	if normalized == "" {
		return nil, domainerrors.Validation("tag name is required")
	}

	tag, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if tag.Name == normalized {
		return tag, nil
	}

	existing, err := s.store.GetTagByName(ctx, userID, normalized)
	if err == nil && existing.ID != tagID {
		return nil, domainerrors.Conflict("a tag with this name already exists")
	}
	if err != nil && !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup tag name: %w", err)
	}

	tag.Name = normalized
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a tag with this name already exists")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag and every attachment referencing it.
// The attached content itself is untouched.
func (s *TagService) Delete(ctx context.Context, userID, tagID string) error {
	if _, err := s.Get(ctx, userID, tagID); err != nil {
		return err
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID, "user_id", userID)
	}

	return nil
}

// Attach links a tag to a content item. Both must be owned by the user.
// Attaching an already-attached tag fails with a conflict.
func (s *TagService) Attach(ctx context.Context, userID, contentID, tagID string) error {
	if _, err := s.Get(ctx, userID, tagID); err != nil {
		return err
	}

	content, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("content not found")
		}
		return fmt.Errorf("get content: %w", err)
	}
	if !content.OwnedBy(userID) {
		return domainerrors.NotFound("content not found")
	}

	if err := s.store.AttachTag(ctx, contentID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("tag already attached")
		}
		return fmt.Errorf("attach tag: %w", err)
	}

	return nil
}

// Detach removes a tag from a content item. Detaching an unattached tag
// is a no-op success.
func (s *TagService) Detach(ctx context.Context, userID, contentID, tagID string) error {
	if _, err := s.Get(ctx, userID, tagID); err != nil {
		return err
	}

	if err := s.store.DetachTag(ctx, contentID, tagID); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	return nil
}

// ListForContent returns the tags attached to a content item.
func (s *TagService) ListForContent(ctx context.Context, userID, contentID string) ([]*domain.Tag, error) {
	content, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("content not found")
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	if !content.OwnedBy(userID) {
		return nil, domainerrors.NotFound("content not found")
	}

	tags, err := s.store.ListTagsForContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("list tags for content: %w", err)
	}
	return tags, nil
}

// TopTagsWithContent returns the user's most-used tags, each with a preview
// of its most recently attached content. Tags are ordered by usage count
// descending, ties broken by name.
func (s *TagService) TopTagsWithContent(ctx context.Context, userID string, tagLimit, contentLimit int) ([]*domain.TagContentGroup, error) {
	if tagLimit <= 0 {
		tagLimit = 5
	}
	if contentLimit <= 0 {
		contentLimit = 3
	}

	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	if len(tags) > tagLimit {
		tags = tags[:tagLimit]
	}

	groups := make([]*domain.TagContentGroup, 0, len(tags))
	for _, tagged := range tags {
		recent, err := s.store.ListRecentlyTagged(ctx, userID, tagged.ID, contentLimit)
		if err != nil {
			return nil, fmt.Errorf("list contents for tag %s: %w", tagged.ID, err)
		}

		contents := make([]domain.Content, 0, len(recent))
		for _, c := range recent {
			contents = append(contents, *c)
		}

		groups = append(groups, &domain.TagContentGroup{
			Tag:      tagged.Tag,
			Contents: contents,
			Total:    tagged.ContentCount,
		})
	}

	return groups, nil
}

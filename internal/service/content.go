package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cerebero/cerebero-server/internal/ai"
	"github.com/cerebero/cerebero-server/internal/domain"
	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
	"github.com/cerebero/cerebero-server/internal/id"
	"github.com/cerebero/cerebero-server/internal/normalize"
	"github.com/cerebero/cerebero-server/internal/store"
	"github.com/cerebero/cerebero-server/internal/validation"
)

// ContentService manages saved content items: creation, editing, sharing,
// favourites, listing, and batch import.
//
// Ownership policy: operating on content owned by another user reports
// not-found rather than forbidden, so callers cannot probe for item
// existence.
type ContentService struct {
	store      store.Store
	tagService *TagService
	embedder   ai.Embedder // nil disables embedding generation
	logger     *slog.Logger
}

// NewContentService creates a new content service. The embedder may be nil,
// in which case no embeddings are generated and AI search has nothing to
// match against.
func NewContentService(
	store store.Store,
	tagService *TagService,
	embedder ai.Embedder,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		store:      store,
		tagService: tagService,
		embedder:   embedder,
		logger:     logger,
	}
}

// CreateContentRequest contains the fields for a new content item.
type CreateContentRequest struct {
	Title string   `json:"title" validate:"required,max=500"`
	Type  string   `json:"type" validate:"required,oneof=document tweet youtube link"`
	URL   string   `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Body  string   `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,required,max=100"`
}

// UpdateContentRequest contains the editable fields of a content item.
type UpdateContentRequest struct {
	Title string `json:"title" validate:"required,max=500"`
	Type  string `json:"type" validate:"required,oneof=document tweet youtube link"`
	URL   string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Body  string `json:"body,omitempty"`
}

// ImportItem is one entry of a batch import.
type ImportItem struct {
	Title string `json:"title" validate:"required,max=500"`
	Type  string `json:"type" validate:"required,oneof=document tweet youtube link"`
	URL   string `json:"url,omitempty" validate:"omitempty,max=2048"`
	Body  string `json:"body,omitempty"`
}

// Create persists a new content item, generates its embedding best-effort,
// and attaches the supplied tags (creating them as needed).
func (s *ContentService) Create(ctx context.Context, userID string, req CreateContentRequest) (*domain.Content, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	content := &domain.Content{
		UserID: userID,
		Title:  req.Title,
		Type:   domain.ContentType(req.Type),
		URL:    req.URL,
		Body:   req.Body,
	}
	content.InitTimestamps()

	if err := s.store.CreateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	// Embedding failure must never fail content creation.
	s.embedContent(ctx, content)

	for _, tagName := range req.Tags {
		tag, err := s.tagService.GetOrCreate(ctx, userID, tagName)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Failed to resolve tag during create", "name", tagName, "error", err)
			}
			continue
		}
		if err := s.store.AttachTag(ctx, content.ID, tag.ID); err != nil {
			// Duplicate attach (same tag supplied twice) is fine
			if !domainerrors.Is(err, store.ErrAlreadyExists) && s.logger != nil {
				s.logger.Warn("Failed to attach tag during create", "tag_id", tag.ID, "error", err)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("Content created", "content_id", content.ID, "user_id", userID, "type", content.Type)
	}

	return content, nil
}

// Get returns a content item if it exists and is owned by the user.
func (s *ContentService) Get(ctx context.Context, userID, contentID string) (*domain.Content, error) {
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
	return content, nil
}

// Update overwrites a content item's editable fields and refreshes its
// embedding when the text changed.
func (s *ContentService) Update(ctx context.Context, userID, contentID string, req UpdateContentRequest) (*domain.Content, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validation.FormatError(err)
	}

	content, err := s.Get(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	textChanged := content.Title != req.Title || content.URL != req.URL || content.Body != req.Body

	content.Title = req.Title
	content.Type = domain.ContentType(req.Type)
	content.URL = req.URL
	content.Body = req.Body
	content.Touch()

	if err := s.store.UpdateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	if textChanged {
		s.embedContent(ctx, content)
	}

	return content, nil
}

// Delete removes a content item along with its tag links and embedding.
func (s *ContentService) Delete(ctx context.Context, userID, contentID string) error {
	if _, err := s.Get(ctx, userID, contentID); err != nil {
		return err
	}

	if err := s.store.DeleteContent(ctx, contentID); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Content deleted", "content_id", contentID, "user_id", userID)
	}

	return nil
}

// ToggleFavourite flips a content item's favourite flag and returns the
// updated item.
func (s *ContentService) ToggleFavourite(ctx context.Context, userID, contentID string) (*domain.Content, error) {
	content, err := s.Get(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	content.IsFavourite = !content.IsFavourite
	content.Touch()

	if err := s.store.UpdateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	return content, nil
}

// ToggleShare flips a content item's shared flag. The first share mints an
// unguessable share id; unsharing keeps the id but makes it unresolvable.
func (s *ContentService) ToggleShare(ctx context.Context, userID, contentID string) (*domain.Content, error) {
	content, err := s.Get(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	content.IsShared = !content.IsShared
	if content.IsShared && content.ShareID == "" {
		shareID, err := id.GenerateShareID()
		if err != nil {
			return nil, fmt.Errorf("generate share id: %w", err)
		}
		content.ShareID = shareID
	}
	content.Touch()

	if err := s.store.UpdateContent(ctx, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	return content, nil
}

// GetShared resolves a public share link. Only currently-shared content is
// returned; a retained share id on unshared content reports not-found.
func (s *ContentService) GetShared(ctx context.Context, shareID string) (*domain.Content, error) {
	content, err := s.store.GetContentByShareID(ctx, shareID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("content not found")
		}
		return nil, fmt.Errorf("get shared content: %w", err)
	}
	return content, nil
}

// List returns a page of the user's content, most recently updated first.
// An empty page is a success, not an error.
func (s *ContentService) List(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	page, err := s.store.ListContents(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return page, nil
}

// ListByType returns a page of the user's content filtered to one type.
func (s *ContentService) ListByType(ctx context.Context, userID string, contentType string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	ct := domain.ContentType(contentType)
	if !ct.Valid() {
		return nil, domainerrors.Validationf("unknown content type %q", contentType)
	}

	page, err := s.store.ListContentsByType(ctx, userID, ct, params)
	if err != nil {
		return nil, fmt.Errorf("list contents by type: %w", err)
	}
	return page, nil
}

// ListFavourites returns a page of the user's favourited content.
func (s *ContentService) ListFavourites(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	page, err := s.store.ListFavourites(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	return page, nil
}

// ListByTag returns a page of the content carrying the named tag.
// Fails with not-found when the user has no such tag.
func (s *ContentService) ListByTag(ctx context.Context, userID, tagName string, params store.PaginationParams) (*store.PaginatedResult[*domain.Content], error) {
	tag, err := s.store.GetTagByName(ctx, userID, normalize.TagName(tagName))
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("lookup tag: %w", err)
	}

	page, err := s.store.ListContentsByTag(ctx, userID, tag.ID, params)
	if err != nil {
		return nil, fmt.Errorf("list contents by tag: %w", err)
	}
	return page, nil
}

// Import inserts a batch of content items as one unit. If any item fails
// validation, nothing is inserted. All items land unshared, unfavourited,
// and with the same timestamps.
func (s *ContentService) Import(ctx context.Context, userID string, items []ImportItem) (int, error) {
	if len(items) == 0 {
		return 0, domainerrors.Validation("import batch is empty")
	}

	now := time.Now()
	contents := make([]*domain.Content, 0, len(items))

	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return 0, domainerrors.Validationf("item %d: %v", i, validation.FormatError(err))
		}

		contents = append(contents, &domain.Content{
			Syncable: domain.Syncable{
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID: userID,
			Title:  item.Title,
			Type:   domain.ContentType(item.Type),
			URL:    item.URL,
			Body:   item.Body,
		})
	}

	if err := s.store.ImportContents(ctx, contents); err != nil {
		return 0, fmt.Errorf("import contents: %w", err)
	}

	for _, content := range contents {
		s.embedContent(ctx, content)
	}

	if s.logger != nil {
		s.logger.Info("Content imported", "user_id", userID, "count", len(contents))
	}

	return len(contents), nil
}

// embedContent generates and stores an embedding for the content's text.
// Failures are logged and swallowed.
func (s *ContentService) embedContent(ctx context.Context, content *domain.Content) {
	if s.embedder == nil {
		return
	}

	vector, err := s.embedder.Embed(ctx, content.SearchText())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to generate embedding", "content_id", content.ID, "error", err)
		}
		return
	}

	embedding := &domain.Embedding{
		UserID:    content.UserID,
		ContentID: content.ID,
		Vector:    vector,
		Model:     s.embedder.Model(),
	}
	embedding.InitTimestamps()

	if err := s.store.UpsertEmbedding(ctx, embedding); err != nil && s.logger != nil {
		s.logger.Warn("Failed to store embedding", "content_id", content.ID, "error", err)
	}
}

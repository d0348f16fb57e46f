package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/service"
	"github.com/cerebero/cerebero-server/internal/store"
)

func (s *Server) registerContentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createContent",
		Method:        http.MethodPost,
		Path:          "/api/v1/content",
		Summary:       "Save content",
		Description:   "Saves a content item, creating and attaching the given tags",
		Tags:          []string{"Content"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/content",
		Summary:     "List content",
		Description: "Lists the user's content, most recently updated first. Filterable by type, tag, or favourites.",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "getContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/content/{id}",
		Summary:     "Get content",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateContent",
		Method:      http.MethodPut,
		Path:        "/api/v1/content/{id}",
		Summary:     "Edit content",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteContent",
		Method:      http.MethodDelete,
		Path:        "/api/v1/content/{id}",
		Summary:     "Delete content",
		Description: "Deletes a content item along with its tag links and embedding",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavourite",
		Method:      http.MethodPatch,
		Path:        "/api/v1/content/{id}/favourite",
		Summary:     "Toggle favourite",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavourite)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleShare",
		Method:      http.MethodPatch,
		Path:        "/api/v1/content/{id}/share",
		Summary:     "Toggle public sharing",
		Description: "Shares or unshares the item. The share id is minted on first share and kept afterwards.",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleShare)

	huma.Register(s.api, huma.Operation{
		OperationID:   "importContent",
		Method:        http.MethodPost,
		Path:          "/api/v1/content/import",
		Summary:       "Import content",
		Description:   "Imports a batch of items. The whole batch is validated first; either every item is inserted or none.",
		Tags:          []string{"Content"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleImportContent)

	huma.Register(s.api, huma.Operation{
		OperationID:   "attachTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/content/{id}/tags",
		Summary:       "Attach tag",
		Description:   "Attaches a tag by name, creating it if needed",
		Tags:          []string{"Content"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAttachTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "detachTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/content/{id}/tags",
		Summary:     "Detach tag",
		Description: "Detaches a tag from the item. Detaching an unattached tag is a no-op.",
		Tags:        []string{"Content"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDetachTag)
}

// === DTOs ===

// ContentResponse contains a content item in API responses.
type ContentResponse struct {
	ID          string    `json:"id" doc:"Content ID"`
	Title       string    `json:"title" doc:"Title"`
	Type        string    `json:"type" doc:"Content type (document, tweet, youtube, link)"`
	URL         string    `json:"url,omitempty" doc:"Source URL"`
	Body        string    `json:"body,omitempty" doc:"Document body"`
	IsShared    bool      `json:"is_shared" doc:"Whether the item is publicly shared"`
	IsFavourite bool      `json:"is_favourite" doc:"Whether the item is favourited"`
	ShareID     string    `json:"share_id,omitempty" doc:"Public share identifier, once minted"`
	Tags        []string  `json:"tags,omitempty" doc:"Attached tag names"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ContentOutput wraps a content item for Huma.
type ContentOutput struct {
	Body ContentResponse
}

// ContentListResponse is a page of content items.
type ContentListResponse struct {
	Items   []ContentResponse `json:"items" doc:"Content items"`
	Total   int               `json:"total" doc:"Total matching items"`
	HasMore bool              `json:"has_more" doc:"Whether more pages exist"`
}

// ContentListOutput wraps a content page for Huma.
type ContentListOutput struct {
	Body ContentListResponse
}

// CreateContentRequest is the request body for saving content.
type CreateContentRequest struct {
	Title string   `json:"title" doc:"Title"`
	Type  string   `json:"type" doc:"Content type (document, tweet, youtube, link)"`
	URL   string   `json:"url,omitempty" doc:"Source URL"`
	Body  string   `json:"body,omitempty" doc:"Document body"`
	Tags  []string `json:"tags,omitempty" doc:"Tag names to attach"`
}

// CreateContentInput wraps the create request for Huma.
type CreateContentInput struct {
	Body CreateContentRequest
}

// UpdateContentRequest is the request body for editing content.
type UpdateContentRequest struct {
	Title string `json:"title" doc:"Title"`
	Type  string `json:"type" doc:"Content type (document, tweet, youtube, link)"`
	URL   string `json:"url,omitempty" doc:"Source URL"`
	Body  string `json:"body,omitempty" doc:"Document body"`
}

// UpdateContentInput wraps the update request for Huma.
type UpdateContentInput struct {
	ID   string `path:"id" doc:"Content ID"`
	Body UpdateContentRequest
}

// ContentIDInput identifies a content item by path parameter.
type ContentIDInput struct {
	ID string `path:"id" doc:"Content ID"`
}

// ListContentInput carries the list filters.
type ListContentInput struct {
	ID         string `query:"id" doc:"Fetch a single item by id"`
	Type       string `query:"type" doc:"Filter by content type"`
	Tag        string `query:"tag" doc:"Filter by tag name"`
	Favourites bool   `query:"favourites" doc:"Only favourited items"`
	Limit      int    `query:"limit" doc:"Page size (default 50, max 200)"`
	Offset     int    `query:"offset" doc:"Items to skip"`
}

// ImportRequest is the request body for a batch import.
type ImportRequest struct {
	Items []service.ImportItem `json:"items" doc:"Items to import"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// ImportResponse reports how many items were imported.
type ImportResponse struct {
	Imported int `json:"imported" doc:"Number of items inserted"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

// AttachTagRequest is the request body for attaching a tag by name.
type AttachTagRequest struct {
	Name string `json:"name" doc:"Tag name (normalized before lookup)"`
}

// AttachTagInput wraps the attach request for Huma.
type AttachTagInput struct {
	ID   string `path:"id" doc:"Content ID"`
	Body AttachTagRequest
}

// DetachTagInput identifies the content/tag pair to detach.
type DetachTagInput struct {
	ID    string `path:"id" doc:"Content ID"`
	TagID string `query:"tagId" required:"true" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleCreateContent(ctx context.Context, input *CreateContentInput) (*ContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.Create(ctx, userID, service.CreateContentRequest{
		Title: input.Body.Title,
		Type:  input.Body.Type,
		URL:   input.Body.URL,
		Body:  input.Body.Body,
		Tags:  input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: s.contentWithTags(ctx, userID, content)}, nil
}

func (s *Server) handleListContent(ctx context.Context, input *ListContentInput) (*ContentListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	// ?id= narrows the list to a single owned item.
	if input.ID != "" {
		content, err := s.services.Content.Get(ctx, userID, input.ID)
		if err != nil {
			return nil, err
		}
		return &ContentListOutput{
			Body: ContentListResponse{
				Items: []ContentResponse{s.contentWithTags(ctx, userID, content)},
				Total: 1,
			},
		}, nil
	}

	params := store.PaginationParams{Limit: input.Limit, Offset: input.Offset}

	var result *store.PaginatedResult[*domain.Content]
	switch {
	case input.Favourites:
		result, err = s.services.Content.ListFavourites(ctx, userID, params)
	case input.Tag != "":
		result, err = s.services.Content.ListByTag(ctx, userID, input.Tag, params)
	case input.Type != "":
		result, err = s.services.Content.ListByType(ctx, userID, input.Type, params)
	default:
		result, err = s.services.Content.List(ctx, userID, params)
	}
	if err != nil {
		return nil, err
	}

	items := make([]ContentResponse, 0, len(result.Items))
	for _, content := range result.Items {
		items = append(items, mapContentResponse(content, nil))
	}

	return &ContentListOutput{
		Body: ContentListResponse{
			Items:   items,
			Total:   result.Total,
			HasMore: result.HasMore,
		},
	}, nil
}

func (s *Server) handleGetContent(ctx context.Context, input *ContentIDInput) (*ContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: s.contentWithTags(ctx, userID, content)}, nil
}

func (s *Server) handleUpdateContent(ctx context.Context, input *UpdateContentInput) (*ContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.Update(ctx, userID, input.ID, service.UpdateContentRequest{
		Title: input.Body.Title,
		Type:  input.Body.Type,
		URL:   input.Body.URL,
		Body:  input.Body.Body,
	})
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: s.contentWithTags(ctx, userID, content)}, nil
}

func (s *Server) handleDeleteContent(ctx context.Context, input *ContentIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Content.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Content deleted"}}, nil
}

func (s *Server) handleToggleFavourite(ctx context.Context, input *ContentIDInput) (*ContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.ToggleFavourite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: mapContentResponse(content, nil)}, nil
}

func (s *Server) handleToggleShare(ctx context.Context, input *ContentIDInput) (*ContentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.services.Content.ToggleShare(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ContentOutput{Body: mapContentResponse(content, nil)}, nil
}

func (s *Server) handleImportContent(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	imported, err := s.services.Content.Import(ctx, userID, input.Body.Items)
	if err != nil {
		return nil, err
	}

	return &ImportOutput{Body: ImportResponse{Imported: imported}}, nil
}

func (s *Server) handleAttachTag(ctx context.Context, input *AttachTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.GetOrCreate(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.Attach(ctx, userID, input.ID, tag.ID); err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(tag)}, nil
}

func (s *Server) handleDetachTag(ctx context.Context, input *DetachTagInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.Detach(ctx, userID, input.ID, input.TagID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag detached"}}, nil
}

// === Helpers ===

func mapContentResponse(content *domain.Content, tags []string) ContentResponse {
	return ContentResponse{
		ID:          content.ID,
		Title:       content.Title,
		Type:        string(content.Type),
		URL:         content.URL,
		Body:        content.Body,
		IsShared:    content.IsShared,
		IsFavourite: content.IsFavourite,
		ShareID:     content.ShareID,
		Tags:        tags,
		CreatedAt:   content.CreatedAt,
		UpdatedAt:   content.UpdatedAt,
	}
}

// contentWithTags resolves the item's tag names. Tag resolution failure
// degrades to an untagged response rather than failing the request.
func (s *Server) contentWithTags(ctx context.Context, userID string, content *domain.Content) ContentResponse {
	tags, err := s.services.Tag.ListForContent(ctx, userID, content.ID)
	if err != nil {
		s.logger.Warn("Failed to resolve tags for content", "content_id", content.ID, "error", err)
		return mapContentResponse(content, nil)
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return mapContentResponse(content, names)
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cerebero/cerebero-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Lists the user's tags with usage counts, most used first",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag, or returns the existing one with the same normalized name",
		Tags:          []string{"Tags"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTag",
		Method:      http.MethodPut,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes the tag and detaches it from every content item",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "topTagsWithContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top-with-content",
		Summary:     "Top tags with content",
		Description: "Returns the most used tags, each with a short page of its content",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleTopTagsWithContent)
}

// === DTOs ===

// TagResponse contains a tag in API responses.
type TagResponse struct {
	ID           string    `json:"id" doc:"Tag ID"`
	Name         string    `json:"name" doc:"Normalized tag name"`
	ContentCount int       `json:"content_count,omitempty" doc:"Number of items using this tag"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// TagListOutput wraps a tag list for Huma.
type TagListOutput struct {
	Body []TagResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" doc:"Tag name (normalized: trimmed, lowercased)"`
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// RenameTagInput wraps the rename request for Huma.
type RenameTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body CreateTagRequest
}

// TagIDInput identifies a tag by path parameter.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// TopTagsInput carries the limits for the top-tags overview.
type TopTagsInput struct {
	TagLimit     int `query:"tagLimit" doc:"How many tags to return (default 5)"`
	ContentLimit int `query:"contentLimit" doc:"How many items per tag (default 3)"`
}

// TagContentGroupResponse is a tag with a page of its content.
type TagContentGroupResponse struct {
	Tag      TagResponse       `json:"tag" doc:"The tag"`
	Contents []ContentResponse `json:"contents" doc:"Most recent items carrying the tag"`
	Total    int               `json:"total" doc:"Total items carrying the tag"`
}

// TopTagsOutput wraps the top-tags overview for Huma.
type TopTagsOutput struct {
	Body []TagContentGroupResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	body := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		body = append(body, mapTagWithCountResponse(tag))
	}

	return &TagListOutput{Body: body}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.GetOrCreate(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(tag)}, nil
}

func (s *Server) handleRenameTag(ctx context.Context, input *RenameTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Rename(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(tag)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

func (s *Server) handleTopTagsWithContent(ctx context.Context, input *TopTagsInput) (*TopTagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.services.Tag.TopTagsWithContent(ctx, userID, input.TagLimit, input.ContentLimit)
	if err != nil {
		return nil, err
	}

	body := make([]TagContentGroupResponse, 0, len(groups))
	for _, group := range groups {
		contents := make([]ContentResponse, 0, len(group.Contents))
		for i := range group.Contents {
			contents = append(contents, mapContentResponse(&group.Contents[i], nil))
		}
		body = append(body, TagContentGroupResponse{
			Tag:      mapTagResponse(&group.Tag),
			Contents: contents,
			Total:    group.Total,
		})
	}

	return &TopTagsOutput{Body: body}, nil
}

// === Helpers ===

func mapTagResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

func mapTagWithCountResponse(tag *domain.TagWithCount) TagResponse {
	resp := mapTagResponse(&tag.Tag)
	resp.ContentCount = tag.ContentCount
	return resp
}

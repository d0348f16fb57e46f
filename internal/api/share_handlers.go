package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerShareRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSharedContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/share/{shareId}",
		Summary:     "View shared content",
		Description: "Public view of a shared item. Resolvable only while the item is shared.",
		Tags:        []string{"Share"},
	}, s.handleGetSharedContent)
}

// SharedContentInput identifies a shared item by its share id.
type SharedContentInput struct {
	ShareID string `path:"shareId" doc:"Public share identifier"`
}

// SharedContentResponse is the public view of a shared item.
// It carries no owner information.
type SharedContentResponse struct {
	Title     string    `json:"title" doc:"Title"`
	Type      string    `json:"type" doc:"Content type"`
	URL       string    `json:"url,omitempty" doc:"Source URL"`
	Body      string    `json:"body,omitempty" doc:"Document body"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// SharedContentOutput wraps the shared view for Huma.
type SharedContentOutput struct {
	Body SharedContentResponse
}

func (s *Server) handleGetSharedContent(ctx context.Context, input *SharedContentInput) (*SharedContentOutput, error) {
	content, err := s.services.Content.GetShared(ctx, input.ShareID)
	if err != nil {
		return nil, err
	}

	return &SharedContentOutput{
		Body: SharedContentResponse{
			Title:     content.Title,
			Type:      string(content.Type),
			URL:       content.URL,
			Body:      content.Body,
			CreatedAt: content.CreatedAt,
			UpdatedAt: content.UpdatedAt,
		},
	}, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cerebero/cerebero-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/content/search",
		Summary:     "Search content",
		Description: "Text search over titles, bodies and tag names, or semantic search over embeddings with ai=true",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchContent)
}

// SearchInput carries the search query.
type SearchInput struct {
	Query string `query:"q" doc:"Search query"`
	AI    bool   `query:"ai" doc:"Use semantic search over embeddings"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body []service.SearchEntry
}

func (s *Server) handleSearchContent(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Search.Search(ctx, userID, input.Query, input.AI)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: entries}, nil
}

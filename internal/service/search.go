package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cerebero/cerebero-server/internal/ai"
	"github.com/cerebero/cerebero-server/internal/domain"
	domainerrors "github.com/cerebero/cerebero-server/internal/errors"
	"github.com/cerebero/cerebero-server/internal/search"
	"github.com/cerebero/cerebero-server/internal/store"
)

// resultLimit caps each arm (content, tags) of a text search.
const resultLimit = 5

// similarityThreshold is the minimum cosine similarity for an AI search hit.
const similarityThreshold = 0.65

// descriptionLimit is the maximum description length in a search result.
const descriptionLimit = 60

// ResultKind distinguishes what a search result points at.
type ResultKind string

const (
	// ResultContent is a matching content item.
	ResultContent ResultKind = "content"
	// ResultTag is a matching tag name.
	ResultTag ResultKind = "tag"
)

// SearchEntry is one merged search result.
type SearchEntry struct {
	Kind        ResultKind `json:"kind"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ContentType string     `json:"content_type,omitempty"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	Score       float64    `json:"score,omitempty"`
}

// SearchService answers user queries over saved content: full-text search
// via the Bleve index plus tag-name matching, and semantic search via
// stored embeddings.
type SearchService struct {
	store    store.Store
	index    *search.SearchIndex
	embedder ai.Embedder // nil disables AI search
	logger   *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(
	store store.Store,
	index *search.SearchIndex,
	embedder ai.Embedder,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		store:    store,
		index:    index,
		embedder: embedder,
		logger:   logger,
	}
}

// DocumentCount reports how many documents the text index holds.
func (s *SearchService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}

// Search runs a query for the user. A blank query returns an empty list
// without touching any backend. With useAI set, results come from embedding
// similarity; otherwise from text matching on content and tag names.
func (s *SearchService) Search(ctx context.Context, userID, query string, useAI bool) ([]SearchEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchEntry{}, nil
	}

	if useAI {
		return s.searchSemantic(ctx, userID, query), nil
	}

	return s.searchText(ctx, userID, query)
}

// searchText merges full-text content matches with tag-name matches,
// content entries first.
func (s *SearchService) searchText(ctx context.Context, userID, query string) ([]SearchEntry, error) {
	results := make([]SearchEntry, 0, 2*resultLimit)

	indexResult, err := s.index.Search(ctx, search.SearchParams{
		UserID:    userID,
		Query:     query,
		Limit:     resultLimit,
		Highlight: true,
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	for _, hit := range indexResult.Hits {
		entry := SearchEntry{
			Kind:        ResultContent,
			ID:          hit.ID,
			Title:       hit.Title,
			ContentType: hit.Type,
			URL:         hit.URL,
			Score:       hit.Score,
		}
		if desc, ok := hit.Highlights["body"]; ok {
			entry.Description = truncate(stripHighlightMarks(desc), descriptionLimit)
		}
		results = append(results, entry)
	}

	tagEntries, err := s.matchTags(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	return append(results, tagEntries...), nil
}

// matchTags finds the user's tags whose name contains the query,
// most used first.
func (s *SearchService) matchTags(ctx context.Context, userID, query string) ([]SearchEntry, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	needle := strings.ToLower(query)
	entries := make([]SearchEntry, 0, resultLimit)
	for _, tag := range tags {
		if !strings.Contains(tag.Name, needle) {
			continue
		}
		entries = append(entries, SearchEntry{
			Kind:        ResultTag,
			ID:          tag.ID,
			Title:       tag.Name,
			Description: fmt.Sprintf("%d items", tag.ContentCount),
		})
		if len(entries) == resultLimit {
			break
		}
	}

	return entries, nil
}

// searchSemantic ranks the user's content by embedding similarity to the
// query. Upstream failure degrades to an empty result so search stays
// available when the embedding provider is down.
func (s *SearchService) searchSemantic(ctx context.Context, userID, query string) []SearchEntry {
	if s.embedder == nil {
		return []SearchEntry{}
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("AI search embedding failed, returning empty results", "error", err)
		}
		return []SearchEntry{}
	}

	embeddings, err := s.store.ListEmbeddings(ctx, userID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("AI search could not list embeddings", "error", err)
		}
		return []SearchEntry{}
	}

	type scored struct {
		contentID  string
		similarity float64
	}

	matches := make([]scored, 0, len(embeddings))
	for _, embedding := range embeddings {
		similarity := ai.CosineSimilarity(queryVector, embedding.Vector)
		if similarity >= similarityThreshold {
			matches = append(matches, scored{contentID: embedding.ContentID, similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	entries := make([]SearchEntry, 0, len(matches))
	for _, match := range matches {
		content, err := s.store.GetContent(ctx, match.contentID)
		if err != nil {
			// Embedding outlived its content; skip
			if !domainerrors.Is(err, store.ErrNotFound) && s.logger != nil {
				s.logger.Warn("AI search could not load content", "content_id", match.contentID, "error", err)
			}
			continue
		}

		entries = append(entries, SearchEntry{
			Kind:        ResultContent,
			ID:          content.ID,
			Title:       content.Title,
			ContentType: string(content.Type),
			URL:         content.URL,
			Description: truncate(contentDescription(content), descriptionLimit),
			Score:       match.similarity,
		})
	}

	return entries
}

func contentDescription(content *domain.Content) string {
	if content.Body != "" {
		return content.Body
	}
	return content.URL
}

// truncate shortens s to at most limit runes, appending an ellipsis when
// anything was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// stripHighlightMarks removes the <mark> wrappers Bleve adds to fragments.
func stripHighlightMarks(s string) string {
	s = strings.ReplaceAll(s, "<mark>", "")
	s = strings.ReplaceAll(s, "</mark>", "")
	return s
}

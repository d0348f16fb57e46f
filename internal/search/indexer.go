package search

import (
	"context"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// StoreIndexer adapts a SearchIndex to the store's indexer callback,
// which passes a request context the underlying Bleve calls do not use.
type StoreIndexer struct {
	Index *SearchIndex
}

func (a StoreIndexer) IndexContent(_ context.Context, content *domain.Content) error {
	return a.Index.IndexContent(content)
}

func (a StoreIndexer) DeleteContent(_ context.Context, contentID string) error {
	return a.Index.DeleteContent(contentID)
}

// Package store defines the persistence interface for the Cerebero server.
package store

import (
	"context"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// Store defines the interface for all persistence operations. Two
// implementations exist: the Badger-backed store in this package and the
// SQLite store in the sqlite subpackage. Services depend only on this
// interface, so the backend is swappable via configuration.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Content
	CreateContent(ctx context.Context, content *domain.Content) error
	GetContent(ctx context.Context, id string) (*domain.Content, error)
	GetContentByShareID(ctx context.Context, shareID string) (*domain.Content, error)
	UpdateContent(ctx context.Context, content *domain.Content) error
	// DeleteContent removes the content along with its tag links and embedding.
	DeleteContent(ctx context.Context, id string) error
	ListContents(ctx context.Context, userID string, params PaginationParams) (*PaginatedResult[*domain.Content], error)
	ListContentsByType(ctx context.Context, userID string, contentType domain.ContentType, params PaginationParams) (*PaginatedResult[*domain.Content], error)
	ListFavourites(ctx context.Context, userID string, params PaginationParams) (*PaginatedResult[*domain.Content], error)
	ListContentsByTag(ctx context.Context, userID, tagID string, params PaginationParams) (*PaginatedResult[*domain.Content], error)
	// ListRecentlyTagged returns up to limit of the user's content carrying
	// the tag, ordered by when the tag was attached, newest attachment first.
	ListRecentlyTagged(ctx context.Context, userID, tagID string, limit int) ([]*domain.Content, error)
	// ImportContents inserts all items or none of them.
	ImportContents(ctx context.Context, contents []*domain.Content) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, userID, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	// DeleteTag removes the tag and all its content links.
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context, userID string) ([]*domain.TagWithCount, error)
	AttachTag(ctx context.Context, contentID, tagID string) error
	DetachTag(ctx context.Context, contentID, tagID string) error
	ListTagsForContent(ctx context.Context, contentID string) ([]*domain.Tag, error)
	ListTagIDsForContent(ctx context.Context, contentID string) ([]string, error)
	ListContentIDsForTag(ctx context.Context, tagID string) ([]string, error)

	// Todos
	CreateTodo(ctx context.Context, todo *domain.Todo) error
	GetTodo(ctx context.Context, id string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, todo *domain.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error)

	// Embeddings
	UpsertEmbedding(ctx context.Context, embedding *domain.Embedding) error
	GetEmbeddingForContent(ctx context.Context, contentID string) (*domain.Embedding, error)
	DeleteEmbeddingForContent(ctx context.Context, contentID string) error
	ListEmbeddings(ctx context.Context, userID string) ([]*domain.Embedding, error)
}

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search
// implementation details.
type SearchIndexer interface {
	IndexContent(ctx context.Context, content *domain.Content) error
	DeleteContent(ctx context.Context, contentID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexContent(context.Context, *domain.Content) error { return nil }
func (NoopSearchIndexer) DeleteContent(context.Context, string) error         { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }

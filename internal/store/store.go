package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/cerebero/cerebero-server/internal/id"
	"github.com/cerebero/cerebero-server/internal/normalize"
)

// BadgerStore implements Store on top of a Badger database. Records are kept
// in the document shape described in records.go.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	// Search indexer for keeping search in sync with store changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	users      *Entity[userRecord]
	sessions   *Entity[sessionRecord]
	contents   *Entity[contentRecord]
	tags       *Entity[tagRecord]
	links      *Entity[linkRecord]
	todos      *Entity[todoRecord]
	embeddings *Entity[embeddingRecord]
}

// Store is implemented by both backends.
var _ Store = (*BadgerStore)(nil)

// New creates a new BadgerStore with the given database path.
func New(path string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		logger: logger,
	}

	s.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// ensureID assigns a generated document id when the caller did not provide
// one. Ids are minted by the backend, so each backend keeps its native
// identifier format.
func ensureID(current *string, prefix string) error {
	if *current != "" {
		return nil
	}
	generated, err := id.Generate(prefix)
	if err != nil {
		return fmt.Errorf("generate %s id: %w", prefix, err)
	}
	*current = generated
	return nil
}

// Close gracefully closes the database connection.
func (s *BadgerStore) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies
// (store needs to exist before search service can be created).
func (s *BadgerStore) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

func (s *BadgerStore) initEntities() {
	// Case-insensitive email lookups via normalization on both write and read.
	s.users = NewEntity[userRecord](s, "user:").
		WithUniqueIndexTransform("email",
			func(u *userRecord) []string {
				return []string{normalize.Email(u.Email)}
			},
			normalize.Email,
		)

	s.sessions = NewEntity[sessionRecord](s, "session:").
		WithUniqueIndex("refresh", func(r *sessionRecord) []string {
			return []string{r.RefreshTokenHash}
		}).
		WithIndex("user", func(r *sessionRecord) []string {
			return []string{r.UserID}
		})

	// Share IDs index every content that has ever been shared; the share
	// lookup additionally checks the isShared flag before resolving.
	s.contents = NewEntity[contentRecord](s, "content:").
		WithUniqueIndex("share", func(r *contentRecord) []string {
			if r.ShareID == "" {
				return nil
			}
			return []string{r.ShareID}
		}).
		WithIndex("user", func(r *contentRecord) []string {
			return []string{r.UserID}
		})

	// Tag names are unique per user, so the index value carries both.
	s.tags = NewEntity[tagRecord](s, "tag:").
		WithUniqueIndex("name", func(r *tagRecord) []string {
			return []string{r.UserID + ":" + r.Name}
		}).
		WithIndex("user", func(r *tagRecord) []string {
			return []string{r.UserID}
		})

	s.links = NewEntity[linkRecord](s, "ctag:").
		WithIndex("content", func(r *linkRecord) []string {
			return []string{r.ContentID}
		}).
		WithIndex("tag", func(r *linkRecord) []string {
			return []string{r.TagID}
		})

	s.todos = NewEntity[todoRecord](s, "todo:").
		WithIndex("user", func(r *todoRecord) []string {
			return []string{r.UserID}
		})

	s.embeddings = NewEntity[embeddingRecord](s, "embedding:").
		WithUniqueIndex("content", func(r *embeddingRecord) []string {
			return []string{r.ContentID}
		}).
		WithIndex("user", func(r *embeddingRecord) []string {
			return []string{r.UserID}
		})
}

package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUser inserts a user row so foreign keys on dependent tables hold.
func seedUser(t *testing.T, s *Store, id, email string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		DisplayName:  "Test User",
		Provider:     domain.ProviderCredentials,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedContent(t *testing.T, s *Store, id, userID, title string) *domain.Content {
	t.Helper()
	now := time.Now()
	content := &domain.Content{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Title:  title,
		Type:   domain.ContentLink,
		URL:    "https://example.com/" + id,
	}
	require.NoError(t, s.CreateContent(context.Background(), content))
	return content
}

func seedTag(t *testing.T, s *Store, id, userID, name string) *domain.Tag {
	t.Helper()
	now := time.Now()
	tag := &domain.Tag{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Name:   name,
	}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{"users", "sessions", "contents", "tags", "content_tags", "todos", "embeddings"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := Open(dbPath, nil)
	require.NoError(t, err)
	seedUser(t, s, "user-001", "alice@example.com")
	require.NoError(t, s.Close())

	// Schema execution is idempotent and data survives reopen.
	s, err = Open(dbPath, nil)
	require.NoError(t, err)
	defer s.Close()

	user, err := s.GetUser(context.Background(), "user-001")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
}

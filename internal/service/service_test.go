package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/auth"
	"github.com/cerebero/cerebero-server/internal/domain"
	"github.com/cerebero/cerebero-server/internal/search"
	"github.com/cerebero/cerebero-server/internal/store"
)

// testKeyHex is a fixed symmetric key for token tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// stubEmbedder returns canned vectors keyed by input text, so semantic
// search tests are deterministic and offline.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Model() string { return "stub-embedder" }

// testServices bundles everything the service tests need.
type testServices struct {
	store    store.Store
	index    *search.SearchIndex
	embedder *stubEmbedder

	auth     *AuthService
	sessions *SessionService
	contents *ContentService
	tags     *TagService
	todos    *TodoService
	search   *SearchService
}

// setupServices creates the full service stack over a temporary Badger
// store with a real search index and a stub embedder.
func setupServices(t *testing.T) *testServices {
	t.Helper()

	dir := t.TempDir()

	s, err := store.New(filepath.Join(dir, "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	s.SetSearchIndexer(search.StoreIndexer{Index: index})

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{}}

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)
	tagService := NewTagService(s, nil)
	contentService := NewContentService(s, tagService, embedder, nil)
	todoService := NewTodoService(s, nil)
	searchService := NewSearchService(s, index, embedder, nil)

	return &testServices{
		store:    s,
		index:    index,
		embedder: embedder,
		auth:     authService,
		sessions: sessionService,
		contents: contentService,
		tags:     tagService,
		todos:    todoService,
		search:   searchService,
	}
}

// signupUser creates an account and returns the signed-in user.
func signupUser(t *testing.T, svc *testServices, email string) *domain.User {
	t.Helper()

	resp, err := svc.auth.Signup(context.Background(), SignupRequest{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return resp.User
}

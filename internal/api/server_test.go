package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"encoding/json/v2"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/auth"
	"github.com/cerebero/cerebero-server/internal/ratelimit"
	"github.com/cerebero/cerebero-server/internal/search"
	"github.com/cerebero/cerebero-server/internal/service"
	"github.com/cerebero/cerebero-server/internal/store"
)

// testKeyHex is a fixed symmetric key for token tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testEnvelope mirrors the response Envelope with typed data for tests.
type testEnvelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorBody `json:"error"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer builds a full server over a temporary Badger store with a
// real search index and no embedder.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()

	st, err := store.New(filepath.Join(dir, "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	st.SetSearchIndexer(search.StoreIndexer{Index: index})

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	tagService := service.NewTagService(st, logger)
	contentService := service.NewContentService(st, tagService, nil, logger)
	todoService := service.NewTodoService(st, logger)
	searchService := service.NewSearchService(st, index, nil, logger)

	services := &Services{
		Auth:    authService,
		Session: sessionService,
		Content: contentService,
		Tag:     tagService,
		Todo:    todoService,
		Search:  searchService,
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Cerebero API Test", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		api:      humaAPI,
		logger:   logger,
		// Generous limits so tests never trip the limiter.
		authLimiter: ratelimit.New(1000, 1000),
	}
	t.Cleanup(s.Close)

	s.registerRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, humaAPI),
	}
}

// signupUser creates an account and returns its access token.
func (ts *testServer) signupUser(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        email,
		"password":     "correct-horse-battery",
		"display_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "Signup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// bearer formats an Authorization header argument for humatest requests.
func bearer(token string) string {
	return "Authorization: Bearer " + token
}

// decodeEnvelope unmarshals a humatest response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

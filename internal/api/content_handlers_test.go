package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createContent(t *testing.T, token string, body map[string]any) ContentResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/content", bearer(token), body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestCreateContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	content := ts.createContent(t, token, map[string]any{
		"title": "Raft Consensus Paper",
		"type":  "document",
		"body":  "Leader election and log replication.",
		"tags":  []string{"Distributed Systems", "reading"},
	})

	assert.NotEmpty(t, content.ID)
	assert.Equal(t, "document", content.Type)
	assert.False(t, content.IsShared)
	assert.False(t, content.IsFavourite)
	assert.ElementsMatch(t, []string{"distributed systems", "reading"}, content.Tags)
}

func TestCreateContent_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	// Missing title.
	resp := ts.api.Post("/api/v1/content", bearer(token), map[string]any{
		"type": "document",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	// Unknown type.
	resp = ts.api.Post("/api/v1/content", bearer(token), map[string]any{
		"title": "Something",
		"type":  "podcast",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestCreateContent_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/content", map[string]any{
		"title": "Something",
		"type":  "document",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestGetContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{
		"title": "Kubernetes Patterns",
		"type":  "link",
		"url":   "https://example.com/k8s-patterns",
	})

	resp := ts.api.Get("/api/v1/content/"+created.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.Equal(t, created.ID, envelope.Data.ID)
	assert.Equal(t, "https://example.com/k8s-patterns", envelope.Data.URL)
}

func TestGetContent_OtherUsersItemIs404(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.signupUser(t, "owner@example.com")
	otherToken, _ := ts.signupUser(t, "other@example.com")

	created := ts.createContent(t, ownerToken, map[string]any{
		"title": "Private note",
		"type":  "document",
		"body":  "secret",
	})

	resp := ts.api.Get("/api/v1/content/"+created.ID, bearer(otherToken))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestUpdateContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{
		"title": "Draft",
		"type":  "document",
		"body":  "v1",
	})

	resp := ts.api.Put("/api/v1/content/"+created.ID, bearer(token), map[string]any{
		"title": "Final",
		"type":  "document",
		"body":  "v2",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Final", envelope.Data.Title)
	assert.Equal(t, "v2", envelope.Data.Body)
}

func TestDeleteContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{
		"title": "Ephemeral",
		"type":  "document",
	})

	resp := ts.api.Delete("/api/v1/content/"+created.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/content/"+created.ID, bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestListContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	ts.createContent(t, token, map[string]any{"title": "One", "type": "document"})
	ts.createContent(t, token, map[string]any{"title": "Two", "type": "tweet", "url": "https://x.com/s/1"})

	resp := ts.api.Get("/api/v1/content", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, envelope.Data.Total)
	assert.Len(t, envelope.Data.Items, 2)
	assert.False(t, envelope.Data.HasMore)
}

func TestListContent_EmptyIsSuccess(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	resp := ts.api.Get("/api/v1/content", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data.Items)
	assert.Empty(t, envelope.Data.Items)
}

func TestListContent_ByID(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	created := ts.createContent(t, token, map[string]any{"title": "Single", "type": "document"})
	ts.createContent(t, token, map[string]any{"title": "Other", "type": "document"})

	resp := ts.api.Get("/api/v1/content?id="+created.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, "Single", envelope.Data.Items[0].Title)

	resp = ts.api.Get("/api/v1/content?id=content-missing", bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestListContent_ByType(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	ts.createContent(t, token, map[string]any{"title": "Doc", "type": "document"})
	ts.createContent(t, token, map[string]any{"title": "Video", "type": "youtube", "url": "https://youtube.com/watch?v=1"})

	resp := ts.api.Get("/api/v1/content?type=youtube", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, "Video", envelope.Data.Items[0].Title)
}

func TestListContent_ByTag(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	ts.createContent(t, token, map[string]any{"title": "Tagged", "type": "document", "tags": []string{"work"}})
	ts.createContent(t, token, map[string]any{"title": "Untagged", "type": "document"})

	resp := ts.api.Get("/api/v1/content?tag=work", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, "Tagged", envelope.Data.Items[0].Title)

	// Unknown tag names are 404, not an empty list.
	resp = ts.api.Get("/api/v1/content?tag=nope", bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestToggleFavourite(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{"title": "Fav", "type": "document"})

	resp := ts.api.Patch("/api/v1/content/"+created.ID+"/favourite", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	envelope := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Data.IsFavourite)

	resp = ts.api.Get("/api/v1/content?favourites=true", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	require.Len(t, list.Data.Items, 1)

	// Toggle back.
	resp = ts.api.Patch("/api/v1/content/"+created.ID+"/favourite", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	envelope = decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.False(t, envelope.Data.IsFavourite)
}

func TestToggleShare_AndPublicView(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{
		"title": "Public note",
		"type":  "document",
		"body":  "hello world",
	})

	// Share mints an id.
	resp := ts.api.Patch("/api/v1/content/"+created.ID+"/share", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	shared := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	require.True(t, shared.Data.IsShared)
	require.NotEmpty(t, shared.Data.ShareID)

	// The public view requires no authentication.
	resp = ts.api.Get("/api/v1/share/" + shared.Data.ShareID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	public := decodeEnvelope[SharedContentResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Public note", public.Data.Title)
	assert.Equal(t, "hello world", public.Data.Body)

	// Unsharing keeps the id but stops resolution.
	resp = ts.api.Patch("/api/v1/content/"+created.ID+"/share", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	unshared := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.False(t, unshared.Data.IsShared)
	assert.Equal(t, shared.Data.ShareID, unshared.Data.ShareID)

	resp = ts.api.Get("/api/v1/share/" + shared.Data.ShareID)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	// Re-sharing resolves again under the same id.
	resp = ts.api.Patch("/api/v1/content/"+created.ID+"/share", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/share/" + shared.Data.ShareID)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestImportContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	resp := ts.api.Post("/api/v1/content/import", bearer(token), map[string]any{
		"items": []map[string]any{
			{"title": "First", "type": "document", "body": "a"},
			{"title": "Second", "type": "link", "url": "https://example.com"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ImportResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, envelope.Data.Imported)

	resp = ts.api.Get("/api/v1/content", bearer(token))
	list := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, list.Data.Total)
}

func TestImportContent_AllOrNothing(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	resp := ts.api.Post("/api/v1/content/import", bearer(token), map[string]any{
		"items": []map[string]any{
			{"title": "Valid", "type": "document"},
			{"title": "", "type": "document"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/content", bearer(token))
	list := decodeEnvelope[ContentListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, list.Data.Total)
}

func TestAttachAndDetachTag(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{"title": "Item", "type": "document"})

	resp := ts.api.Post("/api/v1/content/"+created.ID+"/tags", bearer(token), map[string]any{
		"name": "  Reading  ",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	tag := decodeEnvelope[TagResponse](t, resp.Body.Bytes())
	assert.Equal(t, "reading", tag.Data.Name)

	// Attaching the same tag again conflicts.
	resp = ts.api.Post("/api/v1/content/"+created.ID+"/tags", bearer(token), map[string]any{
		"name": "reading",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	// Detach, then detach again: idempotent.
	resp = ts.api.Delete("/api/v1/content/"+created.ID+"/tags?tagId="+tag.Data.ID, bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/content/"+created.ID+"/tags?tagId="+tag.Data.ID, bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

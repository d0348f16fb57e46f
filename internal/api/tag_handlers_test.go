package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createTag(t *testing.T, token, name string) TagResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", bearer(token), map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[TagResponse](t, resp.Body.Bytes())
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestCreateTag_Normalizes(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	tag := ts.createTag(t, token, "  Distributed Systems ")
	assert.Equal(t, "distributed systems", tag.Name)
	assert.NotEmpty(t, tag.ID)
}

func TestCreateTag_ExistingNameReturnsSameTag(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	first := ts.createTag(t, token, "work")
	second := ts.createTag(t, token, "  WORK ")
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateTag_Blank(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	resp := ts.api.Post("/api/v1/tags", bearer(token), map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[TagResponse](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestListTags_CountsAndOrder(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	ts.createContent(t, token, map[string]any{"title": "A", "type": "document", "tags": []string{"popular", "rare"}})
	ts.createContent(t, token, map[string]any{"title": "B", "type": "document", "tags": []string{"popular"}})

	resp := ts.api.Get("/api/v1/tags", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[[]TagResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "popular", envelope.Data[0].Name)
	assert.Equal(t, 2, envelope.Data[0].ContentCount)
	assert.Equal(t, "rare", envelope.Data[1].Name)
	assert.Equal(t, 1, envelope.Data[1].ContentCount)
}

func TestRenameTag(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	tag := ts.createTag(t, token, "wrok")

	resp := ts.api.Put("/api/v1/tags/"+tag.ID, bearer(token), map[string]any{"name": "Work"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[TagResponse](t, resp.Body.Bytes())
	assert.Equal(t, "work", envelope.Data.Name)
	assert.Equal(t, tag.ID, envelope.Data.ID)
}

func TestRenameTag_TakenNameConflicts(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	ts.createTag(t, token, "work")
	other := ts.createTag(t, token, "play")

	resp := ts.api.Put("/api/v1/tags/"+other.ID, bearer(token), map[string]any{"name": "work"})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestDeleteTag_DetachesButKeepsContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")
	content := ts.createContent(t, token, map[string]any{
		"title": "Keep me",
		"type":  "document",
		"tags":  []string{"doomed"},
	})

	resp := ts.api.Get("/api/v1/tags", bearer(token))
	tags := decodeEnvelope[[]TagResponse](t, resp.Body.Bytes())
	require.Len(t, tags.Data, 1)

	resp = ts.api.Delete("/api/v1/tags/"+tags.Data[0].ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/content/"+content.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())
	assert.Empty(t, got.Data.Tags)
}

func TestTagOwnership_Is404(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.signupUser(t, "owner@example.com")
	otherToken, _ := ts.signupUser(t, "other@example.com")
	tag := ts.createTag(t, ownerToken, "private")

	resp := ts.api.Put("/api/v1/tags/"+tag.ID, bearer(otherToken), map[string]any{"name": "stolen"})
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/tags/"+tag.ID, bearer(otherToken))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestTopTagsWithContent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "ada@example.com")

	ts.createContent(t, token, map[string]any{"title": "A", "type": "document", "tags": []string{"go"}})
	ts.createContent(t, token, map[string]any{"title": "B", "type": "document", "tags": []string{"go"}})
	ts.createContent(t, token, map[string]any{"title": "C", "type": "document", "tags": []string{"rust"}})

	resp := ts.api.Get("/api/v1/tags/top-with-content?tagLimit=1&contentLimit=1", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[[]TagContentGroupResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "go", envelope.Data[0].Tag.Name)
	assert.Equal(t, 2, envelope.Data[0].Total)
	assert.Len(t, envelope.Data[0].Contents, 1)
}

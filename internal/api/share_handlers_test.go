package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSharedContent_UnknownID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/share/no-such-share-id")
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[SharedContentResponse](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestGetSharedContent_HidesOwner(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupUser(t, "ada@example.com")
	created := ts.createContent(t, token, map[string]any{
		"title": "Public note",
		"type":  "document",
		"body":  "visible to everyone",
	})

	resp := ts.api.Patch("/api/v1/content/"+created.ID+"/share", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	shared := decodeEnvelope[ContentResponse](t, resp.Body.Bytes())

	resp = ts.api.Get("/api/v1/share/" + shared.Data.ShareID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.NotContains(t, resp.Body.String(), userID)
	assert.NotContains(t, resp.Body.String(), "ada@example.com")
}

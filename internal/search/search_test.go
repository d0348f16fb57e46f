package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerebero/cerebero-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{
		DataPath: tmpDir,
		Logger:   nil,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

func testContent(id, userID, contentType, title, body string) *domain.Content {
	now := time.Now()
	return &domain.Content{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Type:   domain.ContentType(contentType),
		Title:  title,
		Body:   body,
	}
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexContent(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	content := testContent("content-1", "user-1", "document", "Raft Consensus Notes", "leader election and log replication")

	err := index.IndexContent(content)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexContents_Batch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	contents := []*domain.Content{
		testContent("content-1", "user-1", "document", "First Note", ""),
		testContent("content-2", "user-1", "document", "Second Note", ""),
		testContent("content-3", "user-1", "link", "Third Note", ""),
	}

	err := index.IndexContents(contents)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_DeleteContent(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	err := index.IndexContent(testContent("content-1", "user-1", "document", "Disposable", ""))
	require.NoError(t, err)

	err = index.DeleteContent("content-1")
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_Basic(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	contents := []*domain.Content{
		testContent("content-1", "user-1", "document", "Raft Consensus Notes", "leader election in distributed systems"),
		testContent("content-2", "user-1", "document", "Paxos Made Simple", "another consensus algorithm"),
		testContent("content-3", "user-1", "document", "Grocery List", "milk and eggs"),
	}

	err := index.IndexContents(contents)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		UserID: "user-1",
		Query:  "consensus",
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
	assert.Len(t, result.Hits, 2)
}

func TestSearchIndex_Search_ScopedToOwner(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	contents := []*domain.Content{
		testContent("content-1", "user-1", "document", "Raft Consensus Notes", ""),
		testContent("content-2", "user-2", "document", "Raft Consensus Notes", ""),
	}

	err := index.IndexContents(contents)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		UserID: "user-1",
		Query:  "raft",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "content-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_RequiresUserID(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	_, err := index.Search(context.Background(), SearchParams{Query: "anything", Limit: 10})
	assert.Error(t, err)
}

func TestSearchIndex_Search_ByType(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	contents := []*domain.Content{
		testContent("content-1", "user-1", "document", "A Document", ""),
		testContent("content-2", "user-1", "tweet", "A Tweet", ""),
		testContent("content-3", "user-1", "youtube", "A Video", ""),
	}

	err := index.IndexContents(contents)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		UserID: "user-1",
		Query:  "",
		Types:  []string{"tweet"},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "content-2", result.Hits[0].ID)
}

func TestSearchIndex_Search_Prefix(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	err := index.IndexContent(testContent("content-1", "user-1", "document", "Kubernetes Networking", ""))
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		UserID: "user-1",
		Query:  "Kuber", // Prefix of Kubernetes
		Limit:  10,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Total, uint64(1))
}

func TestSearchIndex_Search_BodyMatch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	err := index.IndexContent(testContent("content-1", "user-1", "document", "Untitled", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		UserID: "user-1",
		Query:  "fox",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "content-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_BodyHighlight(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	err := index.IndexContent(testContent("content-1", "user-1", "document", "Untitled", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)

	result, err := index.Search(context.Background(), SearchParams{
		UserID:    "user-1",
		Query:     "fox",
		Limit:     10,
		Highlight: true,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)

	fragment, ok := result.Hits[0].Highlights["body"]
	require.True(t, ok, "expected a body fragment")
	assert.Contains(t, fragment, "fox")
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	err := index.IndexContent(testContent("content-1", "user-1", "document", "Ephemeral", ""))
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	err = index.Rebuild()
	require.NoError(t, err)

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewSearchIndex_Reopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	index, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)

	err = index.IndexContent(testContent("content-1", "user-1", "document", "Durable", ""))
	require.NoError(t, err)
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

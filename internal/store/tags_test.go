package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag_DuplicateNamePerUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))

	err := s.CreateTag(ctx, createTestTag("tag-002", "user-001", "golang"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The same name is fine for a different user.
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-003", "user-002", "golang")))
}

func TestGetTagByName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))

	tag, err := s.GetTagByName(ctx, "user-001", "golang")
	require.NoError(t, err)
	assert.Equal(t, "tag-001", tag.ID)

	_, err = s.GetTagByName(ctx, "user-002", "golang")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTag_RenameCollision(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))
	other := createTestTag("tag-002", "user-001", "rust")
	require.NoError(t, s.CreateTag(ctx, other))

	other.Name = "golang"
	err := s.UpdateTag(ctx, other)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The old name still resolves after the failed rename.
	tag, err := s.GetTagByName(ctx, "user-001", "rust")
	require.NoError(t, err)
	assert.Equal(t, "tag-002", tag.ID)
}

func TestAttachTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	content := createTestContent("content-001", "user-001", "Note")
	require.NoError(t, s.CreateContent(ctx, content))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))

	require.NoError(t, s.AttachTag(ctx, content.ID, "tag-001"))

	tags, err := s.ListTagsForContent(ctx, content.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "golang", tags[0].Name)

	contentIDs, err := s.ListContentIDsForTag(ctx, "tag-001")
	require.NoError(t, err)
	assert.Equal(t, []string{content.ID}, contentIDs)
}

func TestAttachTag_Duplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, createTestContent("content-001", "user-001", "Note")))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))

	require.NoError(t, s.AttachTag(ctx, "content-001", "tag-001"))
	err := s.AttachTag(ctx, "content-001", "tag-001")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDetachTag_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, createTestContent("content-001", "user-001", "Note")))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))
	require.NoError(t, s.AttachTag(ctx, "content-001", "tag-001"))

	require.NoError(t, s.DetachTag(ctx, "content-001", "tag-001"))
	require.NoError(t, s.DetachTag(ctx, "content-001", "tag-001"))

	tags, err := s.ListTagsForContent(ctx, "content-001")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteTag_CascadesLinks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, createTestContent("content-001", "user-001", "Note")))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))
	require.NoError(t, s.AttachTag(ctx, "content-001", "tag-001"))

	require.NoError(t, s.DeleteTag(ctx, "tag-001"))

	_, err := s.GetTag(ctx, "tag-001")
	assert.ErrorIs(t, err, ErrNotFound)

	tags, err := s.ListTagsForContent(ctx, "content-001")
	require.NoError(t, err)
	assert.Empty(t, tags)

	// Content itself is untouched.
	_, err = s.GetContent(ctx, "content-001")
	require.NoError(t, err)
}

func TestListTags_CountsAndOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateContent(ctx, createTestContent("content-001", "user-001", "A")))
	require.NoError(t, s.CreateContent(ctx, createTestContent("content-002", "user-001", "B")))

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-002", "user-001", "rust")))
	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-003", "user-001", "zig")))

	require.NoError(t, s.AttachTag(ctx, "content-001", "tag-002"))
	require.NoError(t, s.AttachTag(ctx, "content-002", "tag-002"))
	require.NoError(t, s.AttachTag(ctx, "content-001", "tag-001"))

	tags, err := s.ListTags(ctx, "user-001")
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "rust", tags[0].Name)
	assert.Equal(t, 2, tags[0].ContentCount)
	assert.Equal(t, "golang", tags[1].Name)
	assert.Equal(t, 1, tags[1].ContentCount)
	assert.Equal(t, "zig", tags[2].Name)
	assert.Equal(t, 0, tags[2].ContentCount)
}

func TestListContentsByTag_ScopedToUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mine := createTestContent("content-001", "user-001", "Mine")
	require.NoError(t, s.CreateContent(ctx, mine))
	theirs := createTestContent("content-002", "user-002", "Theirs")
	require.NoError(t, s.CreateContent(ctx, theirs))

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "golang")))
	require.NoError(t, s.AttachTag(ctx, mine.ID, "tag-001"))
	require.NoError(t, s.AttachTag(ctx, theirs.ID, "tag-001"))

	result, err := s.ListContentsByTag(ctx, "user-001", "tag-001", DefaultPaginationParams())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, mine.ID, result.Items[0].ID)
}

func TestListRecentlyTagged_OrdersByAttachTime(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// The later attachment gets the lower id so id ordering cannot stand in
	// for attachment ordering.
	first := createTestContent("content-002", "user-001", "Attached first")
	require.NoError(t, s.CreateContent(ctx, first))
	second := createTestContent("content-001", "user-001", "Attached second")
	require.NoError(t, s.CreateContent(ctx, second))

	require.NoError(t, s.CreateTag(ctx, createTestTag("tag-001", "user-001", "work")))
	require.NoError(t, s.AttachTag(ctx, first.ID, "tag-001"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.AttachTag(ctx, second.ID, "tag-001"))

	// Editing the earlier attachment must not promote it past the later one.
	first.Title = "Attached first, edited"
	first.UpdatedAt = time.Now().Add(time.Minute)
	require.NoError(t, s.UpdateContent(ctx, first))

	contents, err := s.ListRecentlyTagged(ctx, "user-001", "tag-001", 1)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, second.ID, contents[0].ID)

	contents, err = s.ListRecentlyTagged(ctx, "user-001", "tag-001", 5)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, second.ID, contents[0].ID)
	assert.Equal(t, first.ID, contents[1].ID)
}

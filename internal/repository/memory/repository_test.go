package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedapp/feedsync-client/internal/model"
	"github.com/feedapp/feedsync-client/internal/session"
)

var (
	alice = model.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	bob   = model.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}
)

func asUser(user model.User) *Repository {
	return NewRepository(session.Static{User: user})
}

func TestRepository_CreateAndList(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	first, err := repo.Create(ctx, model.CreatePostParams{Content: "first"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, model.CreatePostParams{Content: "second"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, alice, first.Author)
	assert.Empty(t, first.Likes)
	assert.Empty(t, first.Comments)
	assert.False(t, first.CreatedAt.IsZero())

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Content, "most recent first")
	assert.Equal(t, "first", posts[1].Content)
}

func TestRepository_Create_EmptyContent(t *testing.T) {
	repo := asUser(alice)

	_, err := repo.Create(context.Background(), model.CreatePostParams{Content: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRepository_Update(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "before"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, model.UpdatePostParams{PostID: created.ID, Content: "after", Image: "img"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.Equal(t, "img", updated.Image)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestRepository_Update_NotAuthor(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "mine"})
	require.NoError(t, err)

	_, err = repo.As(session.Static{User: bob}).Update(ctx, model.UpdatePostParams{PostID: created.ID, Content: "stolen"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo := asUser(alice)

	_, err := repo.Update(context.Background(), model.UpdatePostParams{PostID: "missing", Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepository_Delete_NotAuthor(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "mine"})
	require.NoError(t, err)

	err = repo.As(session.Static{User: bob}).Delete(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRepository_ToggleLike(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "likeable"})
	require.NoError(t, err)

	liked, err := repo.ToggleLike(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, liked.Likes)

	// membership decides the direction: a second toggle unlikes
	unliked, err := repo.ToggleLike(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)
}

func TestRepository_ToggleLike_NotFound(t *testing.T) {
	repo := asUser(alice)

	_, err := repo.ToggleLike(context.Background(), "missing", "u2")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepository_AddComment(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "discuss"})
	require.NoError(t, err)

	_, err = repo.AddComment(ctx, created.ID, "first")
	require.NoError(t, err)
	commented, err := repo.AddComment(ctx, created.ID, "second")
	require.NoError(t, err)

	require.Len(t, commented.Comments, 2)
	assert.Equal(t, "first", commented.Comments[0].Text)
	assert.Equal(t, "second", commented.Comments[1].Text)
	assert.Equal(t, alice, commented.Comments[1].Author)
}

func TestRepository_AddComment_EmptyText(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "discuss"})
	require.NoError(t, err)

	_, err = repo.AddComment(ctx, created.ID, "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRepository_NoSession(t *testing.T) {
	repo := asUser(model.User{})

	_, err := repo.Create(context.Background(), model.CreatePostParams{Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRepository_ReturnedPostsDoNotAliasState(t *testing.T) {
	repo := asUser(alice)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreatePostParams{Content: "isolated"})
	require.NoError(t, err)

	liked, err := repo.ToggleLike(ctx, created.ID, "u2")
	require.NoError(t, err)
	liked.Likes[0] = "tampered"

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"u2"}, posts[0].Likes)
}

package repositories

import (
	"context"
	"testing"
	"time"

	"blogplatform/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCommentRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	posts := NewBadgerPostRepository(db)
	repo := NewBadgerCommentRepository(db)

	post := newTestPost("Test Post", "Alice", "Tech", time.Now())
	other := newTestPost("Other Post", "Bob", "Tech", time.Now())
	require.NoError(t, posts.Create(ctx, post))
	require.NoError(t, posts.Create(ctx, other))

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	older := &models.Comment{PostID: post.ID, Author: "Dan", Content: "First!", CreatedAt: base}
	newer := &models.Comment{PostID: post.ID, Author: "Eve", Content: "Second", CreatedAt: base.Add(time.Minute)}
	elsewhere := &models.Comment{PostID: other.ID, Author: "Fay", Content: "Elsewhere", CreatedAt: base}

	t.Run("create and get comment", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))
		require.NoError(t, repo.Create(ctx, elsewhere))

		comment, err := repo.GetByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Eve", comment.Author)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("get missing comment", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by post newest first", func(t *testing.T) {
		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, newer.ID, comments[0].ID)
		assert.Equal(t, older.ID, comments[1].ID)

		none, err := repo.ListByPost(ctx, 12345)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update keeps owner and creation time", func(t *testing.T) {
		edited := &models.Comment{ID: older.ID, PostID: other.ID, Author: "Dan", Content: "Edited"}
		require.NoError(t, repo.Update(ctx, edited))

		stored, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", stored.Content)
		assert.Equal(t, post.ID, stored.PostID)
		assert.True(t, base.Equal(stored.CreatedAt))
	})

	t.Run("update missing comment", func(t *testing.T) {
		err := repo.Update(ctx, &models.Comment{ID: 999, Author: "x", Content: "y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete comment", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, elsewhere.ID))
		_, err := repo.GetByID(ctx, elsewhere.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, elsewhere.ID), ErrNotFound)

		comments, err := repo.ListByPost(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

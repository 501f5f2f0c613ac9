package services

import (
	"context"
	"testing"

	"blogplatform/app/models"
	"blogplatform/app/repositories"
	"blogplatform/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	service := NewCommentService(commentRepo, postRepo)

	post := &models.Post{Title: "Test Post", Content: "Test Content", Author: "Ada"}
	post.BeforeCreate()
	require.NoError(t, postRepo.Create(ctx, post))

	other := &models.Post{Title: "Other", Content: "Other", Author: "Ada"}
	other.BeforeCreate()
	require.NoError(t, postRepo.Create(ctx, other))

	comment := &models.Comment{Author: "Test Author", Content: "Test Comment Content"}

	t.Run("create comment", func(t *testing.T) {
		err := service.CreateComment(ctx, post.ID, comment)
		require.NoError(t, err)
		assert.Equal(t, int64(1), comment.ID)
		assert.Equal(t, post.ID, comment.PostID)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("create under missing post", func(t *testing.T) {
		err := service.CreateComment(ctx, 999, &models.Comment{Author: "a", Content: "c"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("create with missing fields", func(t *testing.T) {
		err := service.CreateComment(ctx, post.ID, &models.Comment{Author: "a"})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "content is required")
	})

	t.Run("list comments", func(t *testing.T) {
		comments, err := service.ListPostComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "Test Comment Content", comments[0].Content)

		comments, err = service.ListPostComments(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		_, err = service.ListPostComments(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("update comment", func(t *testing.T) {
		updated, err := service.UpdateComment(ctx, post.ID, comment.ID, models.CommentPatch{Content: strPtr("Edited")})
		require.NoError(t, err)
		assert.Equal(t, "Edited", updated.Content)
		assert.Equal(t, "Test Author", updated.Author)
		assert.Equal(t, post.ID, updated.PostID)
	})

	t.Run("update through another post id", func(t *testing.T) {
		updated, err := service.UpdateComment(ctx, other.ID, comment.ID, models.CommentPatch{Author: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Author)
		assert.Equal(t, post.ID, updated.PostID)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := service.UpdateComment(ctx, post.ID, 999, models.CommentPatch{})
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = service.UpdateComment(ctx, 999, comment.ID, models.CommentPatch{})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("delete comment", func(t *testing.T) {
		require.NoError(t, service.DeleteComment(ctx, comment.ID))

		_, err := service.GetComment(ctx, comment.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		assert.ErrorIs(t, service.DeleteComment(ctx, comment.ID), repositories.ErrNotFound)
	})
}

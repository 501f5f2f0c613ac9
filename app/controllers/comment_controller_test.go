package controllers

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"blogplatform/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentController(t *testing.T) {
	app := setupTestApp(t)
	post := app.createPost(t, "Commented", "Ada", "Tech")
	other := app.createPost(t, "Other", "Ada", "Tech")
	base := "/api/posts/" + strconv.FormatInt(post.ID, 10) + "/comments"

	var created models.Comment

	t.Run("create comment", func(t *testing.T) {
		w := app.do(http.MethodPost, base, `{"author": "Bob", "content": "Great post"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		created = decode[models.Comment](t, w)
		assert.NotZero(t, created.ID)
		assert.Equal(t, post.ID, created.PostID)
		assert.Equal(t, "Great post", created.Content)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("create under missing post", func(t *testing.T) {
		w := app.do(http.MethodPost, "/api/posts/999/comments", `{"author": "Bob", "content": "Hi"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		comments, err := app.commentRepo.ListByPost(context.Background(), 999)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("create invalid", func(t *testing.T) {
		w := app.do(http.MethodPost, base, `{"author": "Bob"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list comments", func(t *testing.T) {
		w := app.do(http.MethodGet, base, "")
		assert.Equal(t, http.StatusOK, w.Code)
		comments := decode[[]models.Comment](t, w)
		require.Len(t, comments, 1)
		assert.Equal(t, created.ID, comments[0].ID)

		w = app.do(http.MethodGet, "/api/posts/999/comments", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("post detail embeds comments", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/posts/"+strconv.FormatInt(post.ID, 10), "")
		require.Equal(t, http.StatusOK, w.Code)
		detail := decode[models.Post](t, w)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "Great post", detail.Comments[0].Content)
	})

	t.Run("patch comment", func(t *testing.T) {
		path := base + "/" + strconv.FormatInt(created.ID, 10)
		w := app.do(http.MethodPatch, path, `{"content": "Edited"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		updated := decode[models.Comment](t, w)
		assert.Equal(t, "Edited", updated.Content)
		assert.Equal(t, "Bob", updated.Author)

		w = app.do(http.MethodPatch, base+"/999", `{"content": "x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Comment not found", decode[map[string]string](t, w)["error"])
	})

	t.Run("patch is addressed by comment id", func(t *testing.T) {
		path := "/api/posts/" + strconv.FormatInt(other.ID, 10) + "/comments/" + strconv.FormatInt(created.ID, 10)
		w := app.do(http.MethodPatch, path, `{"author": "Robert"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		updated := decode[models.Comment](t, w)
		assert.Equal(t, "Robert", updated.Author)
		assert.Equal(t, post.ID, updated.PostID)
	})

	t.Run("delete comment", func(t *testing.T) {
		path := "/api/posts/999/comments/" + strconv.FormatInt(created.ID, 10)
		w := app.do(http.MethodDelete, path, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodDelete, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package routes

import (
	"net/http"
	"strconv"
	"testing"

	"blogplatform/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIRoutes(t *testing.T) {
	env := setupTestEnv(t)

	var post models.Post

	t.Run("POST /api/posts creates with zero counters", func(t *testing.T) {
		w := env.request("POST", "/api/posts", `{"title":"Hello","content":"<p>World</p>","author":"Ada","category":"Tech","likes":9}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		post = decodeBody[models.Post](t, w)
		assert.NotZero(t, post.ID)
		assert.Equal(t, 0, post.Likes)
		assert.Equal(t, 0, post.Shares)
	})

	id := func() string { return strconv.FormatInt(post.ID, 10) }

	t.Run("GET /api/posts lists", func(t *testing.T) {
		w := env.request("GET", "/api/posts", "")
		require.Equal(t, http.StatusOK, w.Code)
		posts := decodeBody[[]models.Post](t, w)
		require.Len(t, posts, 1)
		assert.Equal(t, "Hello", posts[0].Title)
	})

	t.Run("fixed segments are not treated as ids", func(t *testing.T) {
		w := env.request("GET", "/api/posts/categories", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Tech"}, decodeBody[[]string](t, w))

		w = env.request("GET", "/api/posts/search?searchTerm=ada", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]models.Post](t, w), 1)

		w = env.request("GET", "/api/posts/category/TECH", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]models.Post](t, w), 1)
	})

	t.Run("like twice then share", func(t *testing.T) {
		env.request("POST", "/api/posts/"+id()+"/like", "")
		env.request("POST", "/api/posts/"+id()+"/like", "")
		w := env.request("POST", "/api/posts/"+id()+"/share", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[models.Post](t, w)
		assert.Equal(t, 2, got.Likes)
		assert.Equal(t, 1, got.Shares)
	})

	t.Run("comment lifecycle", func(t *testing.T) {
		w := env.request("POST", "/api/posts/"+id()+"/comments", `{"author":"Bob","content":"First"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		comment := decodeBody[models.Comment](t, w)

		w = env.request("PATCH", "/api/posts/"+id()+"/comments/"+strconv.FormatInt(comment.ID, 10), `{"content":"Edited"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Edited", decodeBody[models.Comment](t, w).Content)

		w = env.request("GET", "/api/posts/"+id(), "")
		require.Equal(t, http.StatusOK, w.Code)
		detail := decodeBody[models.Post](t, w)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "Edited", detail.Comments[0].Content)

		w = env.request("POST", "/api/posts/999/comments", `{"author":"Bob","content":"Lost"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PATCH /api/posts/{id} is sparse", func(t *testing.T) {
		w := env.request("PATCH", "/api/posts/"+id(), `{"author":"Grace"}`)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[models.Post](t, w)
		assert.Equal(t, "Grace", got.Author)
		assert.Equal(t, "Hello", got.Title)
		assert.Equal(t, 2, got.Likes)
	})

	t.Run("DELETE cascades to comments", func(t *testing.T) {
		w := env.request("DELETE", "/api/posts/"+id(), "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.request("GET", "/api/posts/"+id()+"/comments", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.request("DELETE", "/api/posts/"+id(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown api path is JSON 404", func(t *testing.T) {
		w := env.request("GET", "/api/nothing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found", decodeBody[map[string]string](t, w)["error"])
	})

	t.Run("wrong method is JSON 405", func(t *testing.T) {
		tests := []struct {
			method string
			path   string
		}{
			{"PUT", "/api/posts/1"},
			{"PUT", "/api/posts"},
			{"GET", "/api/posts/1/like"},
			{"PUT", "/api/posts/1/comments"},
			{"GET", "/api/posts/1/comments/2"},
			{"GET", "/api/subscribe"},
			{"GET", "/api/files/upload"},
		}
		for _, tt := range tests {
			w := env.request(tt.method, tt.path, `{}`)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, "Method not allowed", decodeBody[map[string]string](t, w)["error"], "%s %s", tt.method, tt.path)
		}
	})
}

func TestSubscriptionRoutes(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request("POST", "/api/subscribe", `{"email":"reader@example.com","firstName":"Rea"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request("POST", "/api/subscribe", `{"email":"reader@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request("POST", "/api/posts", `{"title":"Broadcast","content":"Body","author":"Ada"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	post := decodeBody[models.Post](t, w)

	require.Len(t, env.mail.messages, 1)
	assert.Equal(t, "reader@example.com", env.mail.messages[0].To)
	assert.Contains(t, env.mail.messages[0].Body, "Hi Rea,")

	w = env.request("POST", "/api/send-post-email", `{"email":"friend@example.com","postId":`+strconv.FormatInt(post.ID, 10)+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mail.messages, 2)
	assert.Equal(t, "Blog Post: Broadcast", env.mail.messages[1].Subject)

	w = env.request("POST", "/api/unsubscribe", `{"email":"reader@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBody[map[string]interface{}](t, w)["success"].(bool))

	w = env.request("POST", "/api/posts", `{"title":"Quiet","content":"Body","author":"Ada"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, env.mail.messages, 2)
}

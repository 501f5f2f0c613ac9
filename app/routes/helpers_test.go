package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogplatform/app/database"
	"blogplatform/app/mailer"
	"blogplatform/app/models"
	"blogplatform/app/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler   http.Handler
	store     *database.Store
	mail      *outbox
	uploadDir string
	staticDir string
}

type outbox struct {
	messages []mailer.Message
}

func (o *outbox) Send(ctx context.Context, msg mailer.Message) error {
	o.messages = append(o.messages, msg)
	return nil
}

func setupTestStatic(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>Blog</body></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body { background: #f0f0f0; }"), 0o644))
	return dir
}

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewBadgerStore(setupTestDB(t), "badger://memory", logger)

	env := &testEnv{
		store:     store,
		mail:      &outbox{},
		uploadDir: filepath.Join(t.TempDir(), "uploads"),
		staticDir: setupTestStatic(t),
	}

	notifications := services.NewNotificationService(store.Subscribers, store.Posts, env.mail, "https://blog.example.com/", logger)
	env.handler = NewHandler(Deps{
		Posts:          services.NewPostService(store.Posts, store.Comments, notifications, logger),
		Comments:       services.NewCommentService(store.Comments, store.Posts),
		Subscribers:    services.NewSubscriberService(store.Subscribers),
		Notifications:  notifications,
		Uploads:        services.NewUploadService(env.uploadDir, logger),
		Store:          store,
		StaticDir:      env.staticDir,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	return env
}

func (e *testEnv) request(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedPost(t *testing.T, title, author, category string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "Content for " + title, Author: author, Category: category}
	post.BeforeCreate()
	require.NoError(t, e.store.Posts.Create(context.Background(), post))
	return post
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

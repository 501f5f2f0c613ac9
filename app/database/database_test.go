package database

import (
	"context"
	"path/filepath"
	"testing"

	"blogplatform/app/config"
	"blogplatform/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBadgerStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "badger")

	store, err := Open(ctx, config.Database{Driver: config.DriverBadger, Path: path, Redacted: "badger://" + path}, true, nil)
	require.NoError(t, err)

	assert.NoError(t, store.Ping(ctx))
	assert.Equal(t, "Badger", store.Info().Database)
	assert.Equal(t, "badger://"+path, store.Info().URL)
	assert.NotNil(t, store.Badger())
	assert.Nil(t, store.SQL())

	post := &models.Post{Title: "Persisted", Content: "c", Author: "a"}
	post.BeforeCreate()
	require.NoError(t, store.Posts.Create(ctx, post))

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(ctx))

	reopened, err := Open(ctx, config.Database{Driver: config.DriverBadger, Path: path}, false, nil)
	require.NoError(t, err)
	defer reopened.Close()

	stored, err := reopened.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", stored.Title)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Database{Driver: "oracle"}, false, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenPostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, config.Database{Driver: config.DriverPostgres, DSN: "postgres://u:p@127.0.0.1:1/blog?sslmode=disable&connect_timeout=1"}, false, nil)
	assert.Error(t, err)
}

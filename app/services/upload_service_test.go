package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// fileHeader builds a parsed multipart part the way net/http would.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestUploadService(t *testing.T) {
	ctx := context.Background()

	t.Run("stores allowed file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		service := NewUploadService(dir, nil)

		content := append([]byte{}, pngHeader...)
		uploaded, err := service.Save(ctx, fileHeader(t, "photo.png", "image/png", content))
		require.NoError(t, err)

		assert.Equal(t, "photo.png", uploaded.Filename)
		assert.Equal(t, int64(len(content)), uploaded.Size)
		assert.Equal(t, "image/png", uploaded.Type)
		assert.True(t, strings.HasPrefix(uploaded.URL, UploadURLPrefix))
		assert.True(t, strings.HasSuffix(uploaded.URL, ".png"))

		sum := sha3.Sum256(content)
		assert.Equal(t, hex.EncodeToString(sum[:]), uploaded.Checksum)

		stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(uploaded.URL, UploadURLPrefix)))
		require.NoError(t, err)
		assert.Equal(t, content, stored)
	})

	t.Run("names are unique", func(t *testing.T) {
		service := NewUploadService(t.TempDir(), nil)
		first, err := service.Save(ctx, fileHeader(t, "a.png", "image/png", pngHeader))
		require.NoError(t, err)
		second, err := service.Save(ctx, fileHeader(t, "a.png", "image/png", pngHeader))
		require.NoError(t, err)
		assert.NotEqual(t, first.URL, second.URL)
	})

	t.Run("detects type when undeclared", func(t *testing.T) {
		service := NewUploadService(t.TempDir(), nil)
		uploaded, err := service.Save(ctx, fileHeader(t, "noext", "application/octet-stream", pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "image/png", uploaded.Type)
		assert.True(t, strings.HasSuffix(uploaded.URL, ".png"))
	})

	t.Run("rejections write nothing", func(t *testing.T) {
		tests := []struct {
			name        string
			filename    string
			contentType string
			content     []byte
			msg         string
		}{
			{"empty file", "a.png", "image/png", nil, "Please select a file"},
			{"pdf", "doc.pdf", "application/pdf", []byte("%PDF-1.4 test"), "File type not allowed"},
			{"oversized", "big.png", "image/png", bytes.Repeat([]byte{0}, MaxFileSize+1), "File size exceeds 10MB limit"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := filepath.Join(t.TempDir(), "uploads")
				service := NewUploadService(dir, nil)

				_, err := service.Save(ctx, fileHeader(t, tt.filename, tt.contentType, tt.content))
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				assert.Equal(t, tt.msg, err.Error())
				assert.Empty(t, dirEntries(t, dir))
			})
		}
	})

	t.Run("nil header", func(t *testing.T) {
		_, err := NewUploadService(t.TempDir(), nil).Save(ctx, nil)
		assert.True(t, IsValidation(err))
	})

	t.Run("unwritable directory", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		_, err := NewUploadService(filepath.Join(blocker, "uploads"), nil).Save(ctx, fileHeader(t, "a.png", "image/png", pngHeader))
		require.Error(t, err)
		assert.False(t, IsValidation(err))
	})
}

func TestAllowedType(t *testing.T) {
	assert.True(t, AllowedType("image/jpeg"))
	assert.True(t, AllowedType("VIDEO/MP4"))
	assert.True(t, AllowedType("video/webm; codecs=vp9"))
	assert.False(t, AllowedType("application/pdf"))
	assert.False(t, AllowedType(""))
}

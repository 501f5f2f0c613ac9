package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"blogplatform/app/models"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize = 10 << 20

// UploadURLPrefix is the public path uploaded files are served under.
const UploadURLPrefix = "/uploads/"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
	"video/ogg":  true,
}

// AllowedType reports whether uploads of the MIME type are accepted.
func AllowedType(contentType string) bool {
	return allowedTypes[baseType(contentType)]
}

func baseType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// UploadService stores media files on local disk.
type UploadService struct {
	dir    string
	logger *slog.Logger
}

func NewUploadService(dir string, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{dir: dir, logger: logger}
}

// Dir returns the directory files are written to.
func (s *UploadService) Dir() string {
	return s.dir
}

// Save validates the uploaded part and writes it under a random name.
// Validation failures are ValidationErrors; anything else is an I/O failure.
func (s *UploadService) Save(ctx context.Context, header *multipart.FileHeader) (*models.UploadedFile, error) {
	if header == nil || header.Size == 0 {
		return nil, invalid("Please select a file")
	}
	if header.Size > MaxFileSize {
		return nil, invalid("File size exceeds 10MB limit")
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType := baseType(header.Header.Get("Content-Type"))
	ext := filepath.Ext(header.Filename)
	if contentType == "" || contentType == "application/octet-stream" || ext == "" {
		detected, err := mimetype.DetectReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to detect file type: %w", err)
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind upload: %w", err)
		}
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = baseType(detected.String())
		}
		if ext == "" {
			ext = detected.Extension()
		}
	}
	if !allowedTypes[contentType] {
		return nil, invalid("File type not allowed")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	hash := sha3.New256()
	written, err := io.Copy(io.MultiWriter(dst, hash), src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.InfoContext(ctx, "file uploaded", "name", name, "original", header.Filename, "size", written, "type", contentType)

	return &models.UploadedFile{
		URL:      path.Join(UploadURLPrefix, name),
		Filename: header.Filename,
		Size:     written,
		Type:     contentType,
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

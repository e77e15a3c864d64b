// Package storage keeps uploaded payment and journal screenshots either on
// local disk or in an S3-compatible bucket.
package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/config"
	"servicedesk-backend/internal/models"

	"github.com/google/uuid"
)

// FileStore persists an upload and returns where it can be fetched.
type FileStore interface {
	Store(ctx context.Context, upload *Upload) (*models.StoredFile, error)
}

// Upload is a single file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
	// Prefix groups objects, e.g. "payments" or "journals".
	Prefix string
}

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// PrepareImage checks the upload is a JPG/JPEG/PNG no larger than maxBytes
// and returns its MIME type. Body is replaced by a reader that still yields
// the sniffed bytes.
func PrepareImage(u *Upload, maxBytes int64) (string, error) {
	if maxBytes > 0 && u.Size > maxBytes {
		return "", apperrors.Validation(fmt.Sprintf("File size exceeds %dMB limit", maxBytes/(1024*1024)))
	}

	wantType, ok := allowedImageTypes[strings.ToLower(filepath.Ext(u.Filename))]
	if !ok {
		return "", apperrors.Validation("Only image files (JPG, JPEG, PNG) are allowed")
	}

	br := bufio.NewReaderSize(u.Body, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", apperrors.Internal("Failed to read upload", err)
	}
	u.Body = br

	if sniffed := http.DetectContentType(head); sniffed != wantType {
		return "", apperrors.Validation("Only image files (JPG, JPEG, PNG) are allowed")
	}
	return wantType, nil
}

// objectKey names a stored file uniquely while keeping its extension.
func objectKey(prefix, filename string) string {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// New builds the FileStore selected by configuration.
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	if cfg.UsesS3() {
		return NewS3Store(ctx, cfg)
	}
	return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
}

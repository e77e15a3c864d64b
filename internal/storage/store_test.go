package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"servicedesk-backend/internal/apperrors"
)

// minimal PNG signature plus IHDR start, enough for content sniffing
var pngBytes = append([]byte("\x89PNG\x0d\x0a\x1a\x0a"), bytes.Repeat([]byte{0}, 64)...)

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 64)...)

func TestPrepareImage(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		size     int64
		wantMime string
		wantMsg  string
	}{
		{"png", "shot.PNG", pngBytes, int64(len(pngBytes)), "image/png", ""},
		{"jpeg", "shot.jpeg", jpegBytes, int64(len(jpegBytes)), "image/jpeg", ""},
		{"jpg", "shot.jpg", jpegBytes, int64(len(jpegBytes)), "image/jpeg", ""},
		{"too large", "shot.png", pngBytes, 6 * 1024 * 1024, "", "File size exceeds 5MB limit"},
		{"pdf extension", "doc.pdf", pngBytes, 10, "", "Only image files (JPG, JPEG, PNG) are allowed"},
		{"text disguised as png", "fake.png", []byte("hello world"), 11, "", "Only image files (JPG, JPEG, PNG) are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &Upload{Filename: tt.filename, Size: tt.size, Body: bytes.NewReader(tt.body)}
			mime, err := PrepareImage(u, 5*1024*1024)
			if tt.wantMsg != "" {
				if err == nil {
					t.Fatalf("expected error %q", tt.wantMsg)
				}
				if !apperrors.Is(err, apperrors.KindValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				if got := apperrors.PublicMessage(err); got != tt.wantMsg {
					t.Errorf("message = %q, want %q", got, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mime != tt.wantMime {
				t.Errorf("mime = %q, want %q", mime, tt.wantMime)
			}
		})
	}
}

func TestLocalStore_Store(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	file, err := store.Store(context.Background(), &Upload{
		Filename: "evidence.png",
		Size:     int64(len(pngBytes)),
		Body:     bytes.NewReader(pngBytes),
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	if !strings.HasPrefix(file.URL, "/uploads/") || !strings.HasSuffix(file.URL, ".png") {
		t.Errorf("unexpected url %q", file.URL)
	}
	if file.MimeType != "image/png" {
		t.Errorf("mime = %q", file.MimeType)
	}

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(file.URL, "/uploads/")))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(written, pngBytes) {
		t.Error("stored bytes differ from upload")
	}
}

func TestLocalStore_PrefixCreatesSubdir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	file, err := store.Store(context.Background(), &Upload{
		Filename: "a.jpg",
		Body:     bytes.NewReader(jpegBytes),
		Prefix:   "journals",
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(file.URL, "/uploads/journals/") {
		t.Errorf("url = %q", file.URL)
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/logger"
	"servicedesk-backend/internal/middleware"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/storage"
	"servicedesk-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// writeError maps err to its status and {"error": msg}. Unexpected errors
// are logged with their cause; the client only sees the public message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log := logger.WithComponent("http")
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	utils.Error(w, status, apperrors.PublicMessage(err))
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("Invalid " + name)
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

// currentUser is set by the auth middleware on every protected route.
func currentUser(r *http.Request) *models.User {
	user, _ := middleware.GetUserFromContext(r.Context())
	return user
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// multipartMemory is how much of a form is held in memory before spilling
// to temp files.
const multipartMemory = 8 << 20

// readUpload returns the image in form field, or nil when none was sent.
// The file is read fully so it outlives the request's temp files.
func readUpload(r *http.Request, field string, maxBytes int64) (*storage.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Validation("Invalid file upload")
	}
	defer file.Close()

	u := &storage.Upload{Filename: header.Filename, Size: header.Size, Body: file}
	if _, err := storage.PrepareImage(u, maxBytes); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return nil, apperrors.Internal("Failed to read upload", err)
	}
	u.Body = bytes.NewReader(data)
	return u, nil
}

// formValue returns a pointer to a submitted multipart field, or nil when
// the field was not sent.
func formValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func formFloat(r *http.Request, name string) (*float64, error) {
	raw := formValue(r, name)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("%s must be a number", name))
	}
	return &f, nil
}

// parseMultipart caps the body at the upload limit plus room for the text
// fields.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.Validation(fmt.Sprintf("File size exceeds %dMB limit", maxBytes/(1024*1024)))
		}
		return apperrors.Validation("Invalid form data")
	}
	return nil
}

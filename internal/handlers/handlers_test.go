package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/middleware"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/services"
	"servicedesk-backend/internal/storage"

	"github.com/gorilla/mux"
)

var pngBytes = append([]byte("\x89PNG\x0d\x0a\x1a\x0a"), bytes.Repeat([]byte{0}, 64)...)

const maxUpload = 5 * 1024 * 1024

func TestWriteError(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{apperrors.Validation("Invalid status"), http.StatusBadRequest, "Invalid status"},
		{apperrors.Forbidden("Access denied"), http.StatusForbidden, "Access denied"},
		{apperrors.NotFound("Payment not found"), http.StatusNotFound, "Payment not found"},
		{apperrors.Internal("Failed to list payments", errors.New("conn reset")), http.StatusInternalServerError, "Failed to list payments"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.code || body["error"] != tt.msg {
				t.Errorf("got %d %q, want %d %q", rec.Code, body["error"], tt.code, tt.msg)
			}
		})
	}
}

// multipartRequest builds a form with fields and an optional file.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReadUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		wantNil  bool
		wantErr  string
	}{
		{"png accepted", "proof.png", pngBytes, false, ""},
		{"no file", "", nil, true, ""},
		{"pdf rejected", "proof.pdf", pngBytes, false, "Only image files (JPG, JPEG, PNG) are allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := ""
			if tt.filename != "" {
				field = "paymentScreenshot"
			}
			req := multipartRequest(t, http.MethodPatch, "/", map[string]string{"status": "paid"}, field, tt.filename, tt.body)
			if err := parseMultipart(httptest.NewRecorder(), req, maxUpload); err != nil {
				t.Fatal(err)
			}

			u, err := readUpload(req, "paymentScreenshot", maxUpload)
			if tt.wantErr != "" {
				if apperrors.PublicMessage(err) != tt.wantErr {
					t.Fatalf("got %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if (u == nil) != tt.wantNil {
				t.Fatalf("upload = %v, wantNil %v", u, tt.wantNil)
			}
			if u != nil {
				data, _ := io.ReadAll(u.Body)
				if !bytes.Equal(data, tt.body) {
					t.Error("upload body altered")
				}
			}
		})
	}
}

type memPayments struct {
	byID map[int]*models.Payment
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) error {
	p.ID = len(m.byID) + 1
	m.byID[p.ID] = p
	return nil
}

func (m *memPayments) Get(_ context.Context, id int) (*models.Payment, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPayments) List(context.Context, models.PaymentFilter) ([]*models.Payment, error) {
	return nil, nil
}

func (m *memPayments) Aggregate(context.Context, models.PaymentFilter) (models.PaymentAggregate, error) {
	return models.PaymentAggregate{}, nil
}

func (m *memPayments) UpdateStatus(_ context.Context, id int, status string, remarks *string, date *time.Time, shot *models.StoredFile) error {
	p, ok := m.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Status, p.PaymentDate = status, date
	if remarks != nil {
		p.Remarks = *remarks
	}
	if shot != nil {
		p.ScreenshotURL, p.ScreenshotFileType = shot.URL, shot.MimeType
	}
	return nil
}

func (m *memPayments) DeleteWithStatus(context.Context, int, string) (bool, error) { return false, nil }

func (m *memPayments) ExportRows(context.Context, *int) ([]*models.PaymentExportRow, error) {
	return nil, nil
}

type memFiles struct{}

func (memFiles) Store(_ context.Context, u *storage.Upload) (*models.StoredFile, error) {
	return &models.StoredFile{URL: "/uploads/" + u.Prefix + "/" + u.Filename, MimeType: "image/png"}, nil
}

func servePaymentStatus(t *testing.T, h *PaymentHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/payments/{id:[0-9]+}/status", h.UpdateStatus).Methods("PATCH")
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1, Role: models.RoleAdmin}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPaymentStatusMultipart(t *testing.T) {
	store := &memPayments{byID: map[int]*models.Payment{
		1: {ID: 1, TransactionID: "TX-1", Status: models.PaymentApproved},
	}}
	h := NewPaymentHandler(services.NewPaymentService(store, memFiles{}), maxUpload)

	req := multipartRequest(t, http.MethodPatch, "/api/payments/1/status",
		map[string]string{"status": "paid", "adminRemarks": "cleared"},
		"paymentScreenshot", "proof.png", pngBytes)
	rec := servePaymentStatus(t, h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "paid" || got["adminRemarks"] != "cleared" || got["screenshotURL"] != "/uploads/payments/proof.png" {
		t.Errorf("unexpected payment %v", got)
	}
	if got["paymentDate"] == nil {
		t.Error("paymentDate not set")
	}
}

func TestPaymentStatusJSON(t *testing.T) {
	store := &memPayments{byID: map[int]*models.Payment{
		1: {ID: 1, TransactionID: "TX-1", Status: models.PaymentPending},
	}}
	h := NewPaymentHandler(services.NewPaymentService(store, memFiles{}), maxUpload)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"approve", "/api/payments/1/status", `{"status":"approved"}`, http.StatusOK},
		{"bad status", "/api/payments/1/status", `{"status":"done"}`, http.StatusBadRequest},
		{"missing", "/api/payments/9/status", `{"status":"approved"}`, http.StatusNotFound},
		{"bad json", "/api/payments/1/status", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if rec := servePaymentStatus(t, h, req); rec.Code != tt.code {
				t.Errorf("status %d, want %d: %s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

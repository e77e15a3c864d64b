package handlers

import (
	"net/http"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/services"
	"servicedesk-backend/internal/storage"
	"servicedesk-backend/internal/timeutil"
	"servicedesk-backend/pkg/utils"
)

type PaymentHandler struct {
	Service        *services.PaymentService
	MaxUploadBytes int64
}

func NewPaymentHandler(s *services.PaymentService, maxUploadBytes int64) *PaymentHandler {
	return &PaymentHandler{Service: s, MaxUploadBytes: maxUploadBytes}
}

// CreatePayment handles POST /api/payments (agents only)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.Service.CreatePayment(r.Context(), currentUser(r), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, payment)
}

// ListPayments handles GET /api/payments with paging, search, status,
// type and date range filters. A bare endDate covers that whole day.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.PaymentFilter{
		Page:            queryInt(r, "page"),
		Limit:           queryInt(r, "limit"),
		Search:          q.Get("search"),
		Status:          q.Get("status"),
		TransactionType: q.Get("transactionType"),
	}
	if v := q.Get("startDate"); v != "" {
		t, err := timeutil.ParseDateParam(v, false)
		if err != nil {
			writeError(w, r, apperrors.Validation("Invalid startDate"))
			return
		}
		f.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := timeutil.ParseDateParam(v, true)
		if err != nil {
			writeError(w, r, apperrors.Validation("Invalid endDate"))
			return
		}
		f.EndDate = &t
	}

	res, err := h.Service.ListPayments(r.Context(), currentUser(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// ExportPayments handles GET /api/payments/export?format=csv|xlsx
func (h *PaymentHandler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.ExportPayments(r.Context(), currentUser(r), r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Attachment(w, file.ContentType, file.Filename, file.Data)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.Service.GetPayment(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

type paymentStatusBody struct {
	Status       string  `json:"status"`
	AdminRemarks *string `json:"adminRemarks"`
}

// UpdateStatus handles PATCH /api/payments/{id}/status. The body is either
// JSON or a multipart form carrying a paymentScreenshot image.
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body paymentStatusBody
	var screenshot *storage.Upload
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
			writeError(w, r, err)
			return
		}
		if v := formValue(r, "status"); v != nil {
			body.Status = *v
		}
		body.AdminRemarks = formValue(r, "adminRemarks")
		if screenshot, err = readUpload(r, "paymentScreenshot", h.MaxUploadBytes); err != nil {
			writeError(w, r, err)
			return
		}
	} else if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.Service.UpdateStatus(r.Context(), id, body.Status, body.AdminRemarks, screenshot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.Service.DeletePayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

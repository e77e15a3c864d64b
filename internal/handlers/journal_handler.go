package handlers

import (
	"net/http"
	"strings"

	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/services"
	"servicedesk-backend/internal/storage"
	"servicedesk-backend/pkg/utils"
)

// journalEvidenceField is the multipart field holding the screenshot.
const journalEvidenceField = "paymentEvidence"

type JournalHandler struct {
	Service        *services.JournalService
	MaxUploadBytes int64
}

func NewJournalHandler(s *services.JournalService, maxUploadBytes int64) *JournalHandler {
	return &JournalHandler{Service: s, MaxUploadBytes: maxUploadBytes}
}

// readJournalForm parses either body flavour into a patch plus optional
// upload. Create uses the same fields as an update.
func (h *JournalHandler) readJournalForm(w http.ResponseWriter, r *http.Request) (*models.JournalPatch, *storage.Upload, error) {
	var patch models.JournalPatch
	if !isMultipart(r) {
		if err := decodeJSON(r, &patch); err != nil {
			return nil, nil, err
		}
		return &patch, nil, nil
	}

	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		return nil, nil, err
	}
	amount, err := formFloat(r, "amount")
	if err != nil {
		return nil, nil, err
	}
	patch.Amount = amount
	patch.Name = formValue(r, "name")
	patch.Mode = formValue(r, "mode")
	patch.Narration = formValue(r, "narration")
	if v := formValue(r, "screenshotUrl"); v != nil && strings.TrimSpace(*v) != "" {
		patch.ScreenshotURL = v
	}

	upload, err := readUpload(r, journalEvidenceField, h.MaxUploadBytes)
	if err != nil {
		return nil, nil, err
	}
	return &patch, upload, nil
}

func (h *JournalHandler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	patch, upload, err := h.readJournalForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := models.JournalInput{
		Name:          deref(patch.Name),
		Mode:          deref(patch.Mode),
		Narration:     deref(patch.Narration),
		ScreenshotURL: deref(patch.ScreenshotURL),
	}
	if patch.Amount != nil {
		in.Amount = *patch.Amount
	}

	journal, err := h.Service.CreateJournal(r.Context(), currentUser(r), &in, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, journal)
}

func (h *JournalHandler) ListJournals(w http.ResponseWriter, r *http.Request) {
	journals, err := h.Service.ListJournals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, journals)
}

func (h *JournalHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	journal, err := h.Service.GetJournal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, journal)
}

func (h *JournalHandler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, upload, err := h.readJournalForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	journal, err := h.Service.UpdateJournal(r.Context(), id, patch, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, journal)
}

func (h *JournalHandler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	journal, err := h.Service.DeleteJournal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, journal)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

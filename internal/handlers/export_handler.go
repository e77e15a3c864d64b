package handlers

import (
	"net/http"

	"servicedesk-backend/internal/services"
	"servicedesk-backend/pkg/utils"
)

type ExportHandler struct {
	Service *services.ExportService
}

func NewExportHandler(s *services.ExportService) *ExportHandler {
	return &ExportHandler{Service: s}
}

// DatabaseExport streams the full CSV dump as a zip. The archive is built
// before the first byte is written, so failures still get a JSON error.
func (h *ExportHandler) DatabaseExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.DatabaseZip(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Attachment(w, "application/zip", services.DatabaseExportFilename, data)
}

package handlers

import (
	"net/http"

	"servicedesk-backend/internal/services"
	"servicedesk-backend/pkg/utils"
)

type AnalyticsHandler struct {
	Service *services.AnalyticsService
}

func NewAnalyticsHandler(s *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: s}
}

// respond writes v or the error from the analytics call that produced it.
func respond[T any](w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Summary(r.Context())
	respond(w, r, v, err)
}

func (h *AnalyticsHandler) PaymentStats(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.PaymentStats(r.Context())
	respond(w, r, v, err)
}

func (h *AnalyticsHandler) PaymentTrend(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.PaymentTrend(r.Context())
	respond(w, r, v, err)
}

func (h *AnalyticsHandler) CompanyGrowth(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.CompanyGrowth(r.Context())
	respond(w, r, v, err)
}

func (h *AnalyticsHandler) JournalActivity(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.JournalActivity(r.Context())
	respond(w, r, v, err)
}

// AgentStats reports on the calling agent's own payments
func (h *AnalyticsHandler) AgentStats(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.AgentStats(r.Context(), currentUser(r).ID)
	respond(w, r, v, err)
}

func (h *AnalyticsHandler) AgentTrend(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.AgentTrend(r.Context(), currentUser(r).ID)
	respond(w, r, v, err)
}

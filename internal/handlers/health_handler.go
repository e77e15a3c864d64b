package handlers

import (
	"net/http"

	"servicedesk-backend/internal/health"
	"servicedesk-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health - for load balancer and readiness probes
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic(r.Context())
	utils.JSON(w, statusCode(status), status)
}

// DetailedHealth - for the monitoring dashboard
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckDetailed(r.Context())
	utils.JSON(w, statusCode(status), status)
}

// statusCode keeps a degraded instance in rotation; only a lost database
// takes it out.
func statusCode(status health.HealthStatus) int {
	if status.Status == "unhealthy" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/pdie/internal/portfolio"
	"github.com/wonny/pdie/pkg/database"
)

// HealthChecker is implemented by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// HealthHandler reports process and feed health
type HealthHandler struct {
	service *portfolio.Service
	db      HealthChecker
}

// NewHealthHandler creates the handler; db is nil unless the Postgres feed is active
func NewHealthHandler(service *portfolio.Service, db HealthChecker) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health returns 200 while the process is up, 503 when the feed database is down
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":      "ok",
		"service":     "pdie-api",
		"engine_id":   h.service.Analyzer().Config().Meta.EngineID,
		"config_hash": h.service.Analyzer().ConfigHash(),
	}
	if at := h.service.RefreshedAt(); !at.IsZero() {
		body["refreshed_at"] = at.UTC().Format(time.RFC3339)
	}

	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus, err := h.db.HealthCheck(ctx)
		body["database"] = dbStatus
		if err != nil {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, status, body)
}

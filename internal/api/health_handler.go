package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/promoterhq/promoter-api/internal/api/shared"
	"github.com/promoterhq/promoter-api/internal/platform/postgres"
	"github.com/promoterhq/promoter-api/internal/redact"
)

// DatabaseHealth is the pool surface the health endpoint needs.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats() postgres.PoolStats
}

// HealthHandler serves GET /health/db.
type HealthHandler struct {
	db     DatabaseHealth
	logger *slog.Logger
}

const healthPingTimeout = 5 * time.Second

// NewHealthHandler creates a handler reporting database liveness.
func NewHealthHandler(db DatabaseHealth, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, logger: logger}
}

// CheckDatabase handles GET /health/db. A round trip to the database decides
// the verdict; pool occupancy counters are reported either way.
func (h *HealthHandler) CheckDatabase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		PoolStats: h.db.Stats(),
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database health check failed",
			slog.String("trace_id", shared.GetTraceID(r.Context())),
			slog.String("error", redact.Error(err)))
		resp.Status = "unhealthy"
		resp.Error = "database unreachable"
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

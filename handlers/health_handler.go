package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	responder
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{responder: responder{logger: logger}, db: db, version: version}
}

// Healthcheck godoc
// @Summary Service and database status
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthcheck [get]
func (h *HealthHandler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database ping failed", slog.Any("error", err))
		status, code = "degraded", http.StatusServiceUnavailable
	}

	if err := writeJSON(w, code, jsonResponse{"status": status, "version": h.version}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

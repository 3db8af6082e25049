// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/middleware"
	"github.com/danielhkuo/calorie-tracker/models"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	log   *zap.Logger
	now   func() time.Time
}

func NewHealthHandler(store Pinger, log *zap.Logger, now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{store: store, log: log.Named("health"), now: now}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "OK", Timestamp: h.now().UTC().Format(isoTimeLayout)}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store unreachable", zap.Error(err))
		resp.Status = "DEGRADED"
		middleware.JSONResponse(w, http.StatusServiceUnavailable, resp)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

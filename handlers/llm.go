// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/auth"
	"github.com/danielhkuo/calorie-tracker/llm"
	"github.com/danielhkuo/calorie-tracker/middleware"
	"github.com/danielhkuo/calorie-tracker/models"
)

const (
	msgMissingEstimateFields = "Missing required fields: description and apiKey are required"
	msgEmptyDescription      = "Description cannot be empty"
)

//go:generate mockgen -destination=mock_estimator_test.go -package=handlers . Estimator

// Estimator produces a nutrition estimate. *llm.Gateway satisfies it.
type Estimator interface {
	Estimate(ctx context.Context, req llm.Request) (*models.Estimate, error)
}

type LLMHandler struct {
	estimator Estimator
	serverKey string
	log       *zap.Logger
}

// NewLLMHandler builds the estimation endpoints. serverKey is used when a
// request carries no credential of its own and may be empty.
func NewLLMHandler(estimator Estimator, serverKey string, log *zap.Logger) *LLMHandler {
	return &LLMHandler{estimator: estimator, serverKey: serverKey, log: log.Named("llm-api")}
}

// EstimateCalories handles POST /api/llm/estimate-calories
func (h *LLMHandler) EstimateCalories(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MsgInvalidJSON)
		return
	}

	if req.Description == nil || *req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgMissingEstimateFields)
		return
	}

	apiKey, source, err := auth.ResolveAPIKey(r, req.APIKey, h.serverKey)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgMissingEstimateFields)
		return
	}

	if strings.TrimSpace(*req.Description) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgEmptyDescription)
		return
	}

	h.log.Debug("estimating calories",
		zap.String("model", req.Model),
		zap.String("credential_source", string(source)),
		zap.String("api_key", auth.Redact(apiKey)),
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
	)

	est, err := h.estimator.Estimate(r.Context(), llm.Request{
		Description: *req.Description,
		APIKey:      apiKey,
		Model:       req.Model,
	})
	if err != nil {
		h.writeEstimateError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, est)
}

// ListModels handles GET /api/llm/models
func (h *LLMHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, llm.Models())
}

func (h *LLMHandler) writeEstimateError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *llm.UpstreamError
	switch {
	case errors.Is(err, llm.ErrEmptyDescription):
		middleware.ErrorResponse(w, http.StatusBadRequest, msgEmptyDescription)
	case errors.Is(err, llm.ErrMissingAPIKey):
		middleware.ErrorResponse(w, http.StatusBadRequest, msgMissingEstimateFields)
	case errors.Is(err, llm.ErrUnparseable):
		middleware.ErrorResponse(w, http.StatusInternalServerError, llm.ErrUnparseable.Error())
	case errors.As(err, &upErr):
		h.log.Warn("upstream estimation failed",
			zap.Stringer("kind", upErr.Kind),
			zap.Int("upstream_status", upErr.StatusCode),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeUpstreamError(w, upErr)
	default:
		h.log.Error("estimation failed", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeUpstreamError(w http.ResponseWriter, upErr *llm.UpstreamError) {
	var details any
	if upErr.Message != "" {
		details = upErr.Message
	}

	switch upErr.Kind {
	case llm.KindCredential:
		middleware.ErrorWithDetails(w, http.StatusUnauthorized, "Invalid API key for LLM provider", details)
	case llm.KindThrottled:
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
	case llm.KindBadRequest:
		middleware.ErrorWithDetails(w, http.StatusBadRequest, "Invalid request to LLM provider", details)
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/middleware"
	"github.com/danielhkuo/calorie-tracker/models"
)

const msgInternal = "Internal server error"

// MealStore is the persistence the meal endpoints need. *db.Store satisfies it.
type MealStore interface {
	AddMeal(ctx context.Context, meal models.NewMeal) (int64, error)
	GetMealByID(ctx context.Context, id int64) (*models.Meal, error)
	GetMealsByDate(ctx context.Context, date string) ([]models.Meal, error)
	GetAllMeals(ctx context.Context) ([]models.Meal, error)
	UpdateMeal(ctx context.Context, id int64, patch models.MealPatch) error
	DeleteMeal(ctx context.Context, id int64) error
	GetDailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error)
	GetAllTimeDailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error)
	GetAllDailyTotals(ctx context.Context) ([]models.DailyTotal, error)
}

type MealHandler struct {
	store MealStore
	log   *zap.Logger
	now   func() time.Time
}

func NewMealHandler(store MealStore, log *zap.Logger, now func() time.Time) *MealHandler {
	if now == nil {
		now = time.Now
	}
	return &MealHandler{store: store, log: log.Named("meals"), now: now}
}

// GetMealsByDate handles GET /api/meals/{date}
func (h *MealHandler) GetMealsByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !models.ValidDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MsgInvalidDate)
		return
	}

	meals, err := h.store.GetMealsByDate(r.Context(), date)
	if err != nil {
		h.log.Error("failed to fetch meals", zap.String("date", date), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, meals)
}

// GetDailyTotals handles GET /api/meals/totals/{startDate}/{endDate}
func (h *MealHandler) GetDailyTotals(w http.ResponseWriter, r *http.Request) {
	start, end := r.PathValue("startDate"), r.PathValue("endDate")
	if !models.ValidDate(start) || !models.ValidDate(end) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MsgInvalidDate)
		return
	}

	totals, err := h.store.GetDailyTotals(r.Context(), start, end)
	if err != nil {
		h.log.Error("failed to fetch daily totals", zap.String("start", start), zap.String("end", end), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, totals)
}

// GetStats handles GET /api/meals/stats?startDate=&endDate=
// Either bound may be omitted.
func (h *MealHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("startDate"), q.Get("endDate")

	if start != "" && !models.ValidDate(start) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid startDate format. Use YYYY-MM-DD")
		return
	}
	if end != "" && !models.ValidDate(end) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid endDate format. Use YYYY-MM-DD")
		return
	}

	totals, err := h.store.GetAllTimeDailyTotals(r.Context(), start, end)
	if err != nil {
		h.log.Error("failed to fetch stats", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, totals)
}

// CreateMeal handles POST /api/meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	meal, err := models.DecodeCreateMeal(r.Body)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	id, err := h.store.AddMeal(r.Context(), meal)
	if err != nil {
		h.log.Error("failed to add meal", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	created, err := h.store.GetMealByID(r.Context(), id)
	if err != nil || created == nil {
		h.log.Error("failed to read back meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.log.Info("meal created", zap.Int64("meal_id", id), zap.String("date", created.Date))
	middleware.JSONResponse(w, http.StatusCreated, created)
}

// UpdateMeal handles PUT /api/meals/{id}
func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, ok := parseMealID(w, r)
	if !ok {
		return
	}

	patch, err := models.DecodeUpdateMeal(r.Body)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	existing, err := h.store.GetMealByID(r.Context(), id)
	if err != nil {
		h.log.Error("failed to look up meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if existing == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meal not found")
		return
	}

	if err := h.store.UpdateMeal(r.Context(), id, patch); err != nil {
		h.log.Error("failed to update meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	updated, err := h.store.GetMealByID(r.Context(), id)
	if err != nil || updated == nil {
		h.log.Error("failed to read back meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.log.Info("meal updated", zap.Int64("meal_id", id))
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteMeal handles DELETE /api/meals/{id}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMealID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.GetMealByID(r.Context(), id)
	if err != nil {
		h.log.Error("failed to look up meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if existing == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meal not found")
		return
	}

	if err := h.store.DeleteMeal(r.Context(), id); err != nil {
		h.log.Error("failed to delete meal", zap.Int64("meal_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.log.Info("meal deleted", zap.Int64("meal_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func parseMealID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid meal ID")
		return 0, false
	}
	return id, true
}

func (h *MealHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Message)
		return
	}
	h.log.Error("failed to validate meal", zap.Error(err))
	middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
}

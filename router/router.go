// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/cliparse"
	"github.com/danielhkuo/calorie-tracker/handlers"
	"github.com/danielhkuo/calorie-tracker/middleware"
)

// Store is everything the routes need from persistence. *db.Store satisfies it.
type Store interface {
	handlers.MealStore
	handlers.Pinger
}

// Messages for requests no route accepts
const (
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

// NewRouter registers every endpoint. Requests no route matches get the same
// JSON error shape as handler errors instead of the mux's plain-text pages.
func NewRouter(store Store, estimator handlers.Estimator, cfg cliparse.Config, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	httpLog := log.Named("http")
	logged := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(httpLog, h)
	}

	// Initialize handlers
	mealHandler := handlers.NewMealHandler(store, log, time.Now)
	llmHandler := handlers.NewLLMHandler(estimator, cfg.LLMAPIKey, log)
	healthHandler := handlers.NewHealthHandler(store, log, time.Now)

	// Health check
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	// Meals. Literal segments (stats, export, totals) are more specific
	// than {date}, so the mux never hands them to GetMealsByDate.
	mux.HandleFunc("GET /api/meals/stats", logged(mealHandler.GetStats))
	mux.HandleFunc("GET /api/meals/export", logged(mealHandler.Export))
	mux.HandleFunc("GET /api/meals/totals/{startDate}/{endDate}", logged(mealHandler.GetDailyTotals))
	mux.HandleFunc("GET /api/meals/{date}", logged(mealHandler.GetMealsByDate))
	mux.HandleFunc("POST /api/meals", logged(mealHandler.CreateMeal))
	mux.HandleFunc("PUT /api/meals/{id}", logged(mealHandler.UpdateMeal))
	mux.HandleFunc("DELETE /api/meals/{id}", logged(mealHandler.DeleteMeal))

	// Estimation
	mux.HandleFunc("POST /api/llm/estimate-calories", logged(llmHandler.EstimateCalories))
	mux.HandleFunc("GET /api/llm/models", logged(llmHandler.ListModels))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("calorie-tracker API v1"))
	})

	unmatched := logged(func(w http.ResponseWriter, r *http.Request) {
		h, _ := mux.Handler(r)
		h.ServeHTTP(&jsonErrorWriter{ResponseWriter: w}, r)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			unmatched(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// jsonErrorWriter rewrites the mux's 404 and 405 replies as JSON errors.
// Headers the mux set first, such as Allow, are kept. Other statuses
// (path-cleaning redirects) pass through untouched.
type jsonErrorWriter struct {
	http.ResponseWriter
	replaced bool
}

func (w *jsonErrorWriter) WriteHeader(code int) {
	switch code {
	case http.StatusNotFound:
		w.replaced = true
		middleware.ErrorResponse(w.ResponseWriter, code, msgNotFound)
	case http.StatusMethodNotAllowed:
		w.replaced = true
		middleware.ErrorResponse(w.ResponseWriter, code, msgMethodNotAllowed)
	default:
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *jsonErrorWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

// Wrap applies the middleware every route shares, outermost first:
// CORS, request IDs, then panic recovery.
func Wrap(mux http.Handler, log *zap.Logger) http.Handler {
	return middleware.CORS(middleware.RequestID(middleware.Recover(log.Named("http"), mux)))
}

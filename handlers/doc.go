// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the calorie tracker API.

# Handler Types

Each handler is a struct built from its dependencies:

  - MealHandler: meal CRUD, daily totals, stats and export (needs a MealStore)
  - LLMHandler: nutrition estimation and the model catalogue (needs an Estimator)
  - HealthHandler: liveness plus a store ping (needs a Pinger)

	meals := handlers.NewMealHandler(store, log, time.Now)
	llmAPI := handlers.NewLLMHandler(gateway, cfg.LLMAPIKey, log)

# Meals

	GET    /api/meals/{date}                       → GetMealsByDate
	GET    /api/meals/totals/{startDate}/{endDate} → GetDailyTotals
	GET    /api/meals/stats?startDate=&endDate=    → GetStats
	GET    /api/meals/export?format=json|csv       → Export
	POST   /api/meals                              → CreateMeal (201)
	PUT    /api/meals/{id}                         → UpdateMeal
	DELETE /api/meals/{id}                         → DeleteMeal (204)

Request bodies are decoded and validated in one step by the models
package; a validation failure is answered with 400 before the store is
touched. Storage faults are logged and answered with a generic 500.

# Estimation

	POST /api/llm/estimate-calories → EstimateCalories
	GET  /api/llm/models            → ListModels

Upstream failures map to 401 (rejected key), 429 (rate limited), 400
(other 4xx) or 500. The provider's own message is passed back as
"details" where it helps the caller fix the request.
*/
package handlers

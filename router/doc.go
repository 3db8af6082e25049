// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the calorie tracker API.

# Route Registration

NewRouter creates an http.Handler over a ServeMux with all endpoints, and
Wrap adds the shared middleware:

	mux := router.NewRouter(store, gateway, cfg, log)
	server := http.Server{Handler: router.Wrap(mux, log)}

# Endpoints

Health:

	GET /api/health

Meals:

	GET    /api/meals/{date}                       - Meals logged on a date
	GET    /api/meals/totals/{startDate}/{endDate} - Daily totals, inclusive range
	GET    /api/meals/stats                        - Daily totals, optional bounds
	GET    /api/meals/export                       - Full dump as JSON or CSV
	POST   /api/meals                              - Log a meal
	PUT    /api/meals/{id}                         - Partial update
	DELETE /api/meals/{id}                         - Delete

Estimation:

	POST /api/llm/estimate-calories - Nutrition estimate from a description
	GET  /api/llm/models            - Selectable models

# Precedence

"stats" and "export" are registered as literal segments. ServeMux always
prefers the more specific pattern, so GET /api/meals/stats is never read
as a date regardless of registration order.

Unknown paths and wrong methods answer {"error":"Not found"} (404) and
{"error":"Method not allowed"} (405, with Allow) instead of plain text.
*/
package router

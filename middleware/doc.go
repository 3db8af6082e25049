// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/health", middleware.WithLogging(log, handler))

Each request produces one "request completed" entry with method, path,
status, duration_ms, remote and request_id.

# Request IDs and Recovery

RequestID assigns a UUID to every request (an incoming valid X-Request-ID
is kept) and echoes it on the response. Recover converts a panic into a
500 JSON error after logging the stack.

	handler := middleware.CORS(middleware.RequestID(middleware.Recover(log, mux)))

# CORS Middleware

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization and X-Request-ID. Content-Disposition is
exposed so browsers can read export filenames.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid meal ID")
	middleware.ErrorWithDetails(w, http.StatusBadRequest, "Invalid request to LLM provider", details)

Error bodies are always {"error": "..."} with an optional "details".
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the calorie tracker API server.

The server stores logged meals, reports per-day calorie and macronutrient
totals, exports the full history, and proxies free-text food descriptions
to a chat-completion model for nutrition estimates.

# Starting the Server

With no configuration it serves on :3002 from a local SQLite file:

	go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..."

A .env file in the working directory is loaded first; real environment
variables win over it and flags win over both.

# Configuration

  - PORT (-p): Server port (default: 3002)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): SQLite path or PostgreSQL URL
  - OPENROUTER_BASE_URL, OPENROUTER_MODEL, OPENROUTER_API_KEY: estimation provider
  - LLM_TIMEOUT: upstream timeout (default: 8s)
  - LOG_LEVEL: debug, info, warn or error

# Architecture

  - handlers: HTTP request handlers (meals, export, estimation, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request IDs, recovery, logging, JSON helpers
  - models: Domain types and request validation
  - db: Meal store and daily totals over SQLite or PostgreSQL
  - llm: Prompting, provider client and response parsing
  - auth: Provider credential resolution
  - logging: zap logger setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

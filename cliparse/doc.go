// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

	_ = cliparse.LoadEnvFile(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile copies a .env file into the environment (existing variables
win). ParseFlags then resolves each setting as flag, then environment,
then default.

# Settings

	Flag          Env                  Default
	-p            PORT                 3002
	-t            DATABASE_TYPE        sqlite
	-d            DATABASE_URL         calorie_tracker.db (required for postgres)
	-llm-url      OPENROUTER_BASE_URL  https://openrouter.ai/api/v1
	-llm-model    OPENROUTER_MODEL     deepseek/deepseek-chat-v3.1:free
	-llm-key      OPENROUTER_API_KEY   (none)
	-llm-timeout  LLM_TIMEOUT          8s
	-log-level    LOG_LEVEL            info
	              APP_REFERER          (none)
	              APP_TITLE            Calorie Tracker

OPENROUTER_API_KEY is only a fallback; callers normally send their own
provider key with each estimate request.

# Validation

ParseFlags returns an error for a malformed or out-of-range port, an
unknown database type, postgres without a URL, a non-positive timeout,
or an unknown log level.
*/
package cliparse

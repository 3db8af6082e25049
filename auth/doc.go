// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves the provider credential used for nutrition estimates.

The API has no users of its own. The only secret in play is the caller's
key for the upstream chat-completion provider, which may arrive three ways:

	{"description": "...", "apiKey": "sk-..."}   // request body
	Authorization: Bearer sk-...                  // header
	OPENROUTER_API_KEY=sk-...                     // server default

ResolveAPIKey applies that precedence and reports which source won.
Keys are never logged in full; use Redact.
*/
package auth

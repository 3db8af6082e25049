// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"net/http"
	"strings"
)

var ErrNoCredential = errors.New("no api key provided")

// Source says where a provider credential came from
type Source string

const (
	SourceBody   Source = "body"
	SourceHeader Source = "header"
	SourceServer Source = "server"
)

// BearerToken extracts the token from an Authorization: Bearer header
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// ResolveAPIKey picks the upstream credential for a request.
// Precedence: request body, then bearer header, then the server default.
func ResolveAPIKey(r *http.Request, bodyKey, serverKey string) (string, Source, error) {
	if k := strings.TrimSpace(bodyKey); k != "" {
		return k, SourceBody, nil
	}
	if k := BearerToken(r); k != "" {
		return k, SourceHeader, nil
	}
	if k := strings.TrimSpace(serverKey); k != "" {
		return k, SourceServer, nil
	}
	return "", "", ErrNoCredential
}

// Redact hides all but the last four characters of a key for logging
func Redact(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

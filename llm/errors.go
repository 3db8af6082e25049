// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrMissingAPIKey    = errors.New("api key is required")
	ErrUnparseable      = errors.New("failed to parse calorie estimation from LLM response")
)

// Kind classifies an upstream failure by what the caller should do next
type Kind int

const (
	// KindServer covers 5xx, timeouts, network faults, and malformed envelopes
	KindServer Kind = iota
	// KindCredential means the provider rejected the API key (401)
	KindCredential
	// KindThrottled means the provider is rate limiting (429)
	KindThrottled
	// KindBadRequest is any other 4xx
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindThrottled:
		return "throttled"
	case KindBadRequest:
		return "bad_request"
	default:
		return "server"
	}
}

// UpstreamError is a failed call to the chat-completion provider
type UpstreamError struct {
	Kind       Kind
	StatusCode int
	// Message is the provider's own error message, if it sent one
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("llm upstream %s error: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("llm upstream %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("llm upstream %s error (status %d)", e.Kind, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classify maps a provider HTTP status to a Kind
func classify(status int) Kind {
	switch {
	case status == 401:
		return KindCredential
	case status == 429:
		return KindThrottled
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindServer
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubCompleter struct {
	content string
	err     error

	calls  int
	apiKey string
	model  string
	prompt string
}

func (s *stubCompleter) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	s.calls++
	s.apiKey, s.model, s.prompt = apiKey, model, prompt
	return s.content, s.err
}

func TestGatewayEstimate_Valid(t *testing.T) {
	stub := &stubCompleter{content: `{"calories":95,"protein":0.5,"carbs":25,"fat":0.3,"confidence":"high"}`}
	gw := NewGateway(stub, "", zap.NewNop())

	est, err := gw.Estimate(context.Background(), Request{Description: "1 medium apple", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.Calories != 95 || est.Confidence != "high" {
		t.Errorf("Estimate = %+v", est)
	}
	if stub.model != DefaultModel {
		t.Errorf("model = %q, want default", stub.model)
	}
	if stub.apiKey != "sk-test" {
		t.Errorf("apiKey = %q", stub.apiKey)
	}
	if !strings.Contains(stub.prompt, "1 medium apple") {
		t.Error("Expected description in prompt")
	}
}

func TestGatewayEstimate_ModelSelection(t *testing.T) {
	stub := &stubCompleter{content: `{"calories":1,"protein":0,"carbs":0,"fat":0,"confidence":"low"}`}

	NewGateway(stub, "openai/gpt-4o", zap.NewNop()).Estimate(context.Background(), Request{Description: "x", APIKey: "k"})
	if stub.model != "openai/gpt-4o" {
		t.Errorf("model = %q, want configured default", stub.model)
	}

	NewGateway(stub, "openai/gpt-4o", zap.NewNop()).Estimate(context.Background(), Request{Description: "x", APIKey: "k", Model: "google/gemini-pro"})
	if stub.model != "google/gemini-pro" {
		t.Errorf("model = %q, want request model", stub.model)
	}
}

func TestGatewayEstimate_Fallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stub := &stubCompleter{content: "The apple contains approximately 95 calories"}
	gw := NewGateway(stub, "", zap.New(core))

	est, err := gw.Estimate(context.Background(), Request{Description: "apple", APIKey: "k"})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.Calories != 95 || est.Protein != 0 || est.Confidence != "low" || est.Reasoning != FallbackReasoning {
		t.Errorf("Estimate = %+v", est)
	}
	if logs.Len() != 1 {
		t.Errorf("Expected 1 warning, got %d", logs.Len())
	}
}

func TestGatewayEstimate_Errors(t *testing.T) {
	upstream := &UpstreamError{Kind: KindCredential, StatusCode: 401}

	tests := []struct {
		name      string
		req       Request
		stub      *stubCompleter
		wantErr   error
		wantCalls int
	}{
		{"blank description", Request{Description: "   ", APIKey: "k"}, &stubCompleter{}, ErrEmptyDescription, 0},
		{"missing key", Request{Description: "apple"}, &stubCompleter{}, ErrMissingAPIKey, 0},
		{"upstream failure", Request{Description: "apple", APIKey: "k"}, &stubCompleter{err: upstream}, upstream, 1},
		{"unparseable", Request{Description: "apple", APIKey: "k"}, &stubCompleter{content: "no idea"}, ErrUnparseable, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewGateway(tt.stub, "", zap.NewNop())

			est, err := gw.Estimate(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if est != nil {
				t.Errorf("Expected nil estimate, got %+v", est)
			}
			if tt.stub.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tt.stub.calls, tt.wantCalls)
			}
		})
	}
}

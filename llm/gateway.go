// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/models"
)

// Request is one estimation call. APIKey is the caller's provider credential.
type Request struct {
	Description string
	APIKey      string
	Model       string
}

// Completer is the provider call the gateway depends on
type Completer interface {
	Complete(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// Gateway turns food descriptions into nutrition estimates. It keeps no
// state between calls.
type Gateway struct {
	completer    Completer
	defaultModel string
	log          *zap.Logger
}

func NewGateway(completer Completer, defaultModel string, log *zap.Logger) *Gateway {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &Gateway{
		completer:    completer,
		defaultModel: defaultModel,
		log:          log.Named("llm"),
	}
}

// Estimate calls the provider once and parses its answer. Errors are
// ErrEmptyDescription, ErrMissingAPIKey, *UpstreamError, or ErrUnparseable.
func (g *Gateway) Estimate(ctx context.Context, req Request) (*models.Estimate, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	content, err := g.completer.Complete(ctx, req.APIKey, model, BuildPrompt(req.Description))
	if err != nil {
		return nil, err
	}

	result := ParseContent(content)
	switch result.Outcome {
	case OutcomeValid:
		g.log.Debug("estimate parsed", zap.String("model", model), zap.Float64("calories", result.Estimate.Calories))
		return &result.Estimate, nil
	case OutcomeFallback:
		g.log.Warn("estimate salvaged from unstructured response",
			zap.String("model", model),
			zap.String("raw", content),
		)
		return &result.Estimate, nil
	default:
		g.log.Error("unparseable estimate response",
			zap.String("model", model),
			zap.String("raw", content),
		)
		return nil, ErrUnparseable
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 8 * time.Second

	// maxErrorBody caps how much of a failed response is read for its message
	maxErrorBody = 64 << 10
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ClientConfig holds the connection settings for the provider
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// Referer and Title are attribution headers some providers display
	Referer string
	Title   string
}

// Client calls an OpenAI-compatible /chat/completions endpoint once per
// request, without streaming or retries.
type Client struct {
	baseURL string
	referer string
	title   string
	client  *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		referer: cfg.Referer,
		title:   cfg.Title,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends a single user message and returns the first choice's content.
// Every failure is an *UpstreamError.
func (c *Client) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:          model,
		Messages:       []Message{{Role: "user", Content: prompt}},
		Temperature:    0.5,
		MaxTokens:      300,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &UpstreamError{Kind: KindServer, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", &UpstreamError{Kind: KindServer, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Kind: KindServer, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &UpstreamError{
			Kind:       classify(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    providerMessage(body),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &UpstreamError{Kind: KindServer, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &UpstreamError{Kind: KindServer, StatusCode: resp.StatusCode, Err: errors.New("no response choices returned")}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// providerMessage pulls error.message out of a provider error body
func providerMessage(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil && pe.Error.Message != "" {
		return pe.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}

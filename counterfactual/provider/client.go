// Package provider wraps the OpenAI-compatible chat completions API as a
// single-attempt text completion client.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	defaultTemperature = 0.5
	defaultMaxTokens   = 4096
	defaultTimeout     = 60 * time.Second
)

// TransportError wraps a network-level failure: the request never produced a
// service response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("completion transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// APIStatusError is a non-2xx response reported by the completion service.
type APIStatusError struct {
	StatusCode int
	Message    string
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("completion service returned %d: %s", e.StatusCode, e.Message)
}

// EnvelopeError is a 2xx response whose body lacks the expected structure
// (no choices, or empty message content).
type EnvelopeError struct {
	Detail string
}

func (e *EnvelopeError) Error() string { return "malformed completion envelope: " + e.Detail }

// Config configures a Client. APIKey is required; everything else has a
// default. BaseURL exists so tests can point the client at a fake endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client sends single-turn chat completion requests. One attempt per call:
// the SDK's built-in retries are disabled, and the caller decides whether to
// degrade or give up.
type Client struct {
	api   openai.Client
	model string
}

// NewClient builds a completion client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("provider: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:   openai.NewClient(opts...),
		model: cfg.Model,
	}, nil
}

// Complete sends prompt as a single user turn and returns the raw text of
// the first choice. Failures are classified as *TransportError,
// *APIStatusError, or *EnvelopeError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(defaultTemperature),
		MaxTokens:   openai.Int(defaultMaxTokens),
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", &APIStatusError{StatusCode: apierr.StatusCode, Message: apierr.Message}
		}
		return "", &TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &EnvelopeError{Detail: "response has no choices"}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &EnvelopeError{Detail: "first choice has empty content"}
	}
	return text, nil
}

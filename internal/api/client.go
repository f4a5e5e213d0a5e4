// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the studio backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnavailable
	ErrTypeTimeout
	ErrTypeModelUnavailable
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable      = &ClientError{Type: ErrTypeUnavailable, Message: "backend is not reachable"}
	ErrTimeout          = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelUnavailable = &ClientError{Type: ErrTypeModelUnavailable, Message: "model not available"}
)

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnavailable checks if an error indicates the backend is unreachable.
func IsUnavailable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnavailable
	}
	return errors.Is(err, ErrUnavailable)
}

// IsModelUnavailable checks if an error indicates the selected model is gone.
func IsModelUnavailable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeModelUnavailable
	}
	return errors.Is(err, ErrModelUnavailable)
}

// UserMessage translates a client error into the in-band assistant message
// shown in the conversation. Failures read like ordinary replies with
// remediation guidance, never as dialogs or stack traces.
func UserMessage(err error) string {
	switch {
	case IsTimeout(err):
		return "That request took too long and timed out. Try breaking it into smaller parts, or switch to a faster model."
	case IsModelUnavailable(err):
		return "The selected model isn't available right now. Pick a different model with /models and try again."
	case IsUnavailable(err):
		return "I couldn't reach the studio backend. Check that it's running and that the configured URL is correct."
	default:
		return "Something went wrong handling that request: " + err.Error() + ". Please try again, or rephrase with a shorter prompt."
	}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL of the studio backend (default: http://127.0.0.1:8780)
	BaseURL string

	// ChatTimeout bounds POST /chat calls (default: 90s)
	ChatTimeout time.Duration

	// ToolTimeout bounds POST /tools/* calls (default: 60s)
	ToolTimeout time.Duration

	// DefaultModel to use if none specified (default: "studio-chat-small")
	DefaultModel string

	// RequestsPerSecond caps outbound request rate (default: 4)
	RequestsPerSecond float64

	// APIKey is sent as a bearer token when non-empty.
	APIKey string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8780",
		ChatTimeout:       90 * time.Second,
		ToolTimeout:       60 * time.Second,
		DefaultModel:      "studio-chat-small",
		RequestsPerSecond: 4,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the studio backend API.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	resp, err := client.Chat(ctx, history, "studio-chat-small")
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8780"
	}
	if config.ChatTimeout == 0 {
		config.ChatTimeout = 90 * time.Second
	}
	if config.ToolTimeout == 0 {
		config.ToolTimeout = 60 * time.Second
	}
	if config.DefaultModel == "" {
		config.DefaultModel = "studio-chat-small"
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 4
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 2),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// DefaultModel returns the configured default model.
func (c *Client) DefaultModel() string {
	return c.config.DefaultModel
}

// =============================================================================
// CHAT
// =============================================================================

// Chat forwards the full message history to the text-generation endpoint
// and returns the reply. Applies ChatTimeout unless ctx already carries a
// deadline.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, model string) (*ChatResponse, error) {
	if model == "" {
		model = c.config.DefaultModel
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ChatTimeout)
		defer cancel()
	}

	body, err := json.Marshal(ChatRequest{Messages: messages, Model: model})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/chat", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp.Body)
		return nil, ErrModelUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serverError("chat request failed", resp)
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if len(result.Choices) == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "backend returned no choices"}
	}

	return &result, nil
}

// =============================================================================
// TOOL ENDPOINTS
// =============================================================================

// InvokeTool POSTs the parameter mapping to /tools/{slug} and returns the
// opaque analysis payload. Applies ToolTimeout unless ctx already carries
// a deadline.
func (c *Client) InvokeTool(ctx context.Context, slug string, params ToolRequest) (*ToolResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ToolTimeout)
		defer cancel()
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/tools/"+slug, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError("tool request failed", resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}
	if !json.Valid(payload) {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "tool endpoint returned invalid JSON"}
	}

	return &ToolResponse{Payload: payload}, nil
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ListModels fetches the available model identifiers. The endpoint returns
// either a list of id strings or a map of id to details; any other shape
// yields an empty list and no error so callers keep their previous
// defaults.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ErrTimeout
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError("failed to list models", resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	return parseModelList(raw), nil
}

// parseModelList accepts the two known shapes of the /models payload.
// Malformed payloads decode to nil rather than an error.
func parseModelList(raw []byte) []string {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return ids
	}

	var details map[string]json.RawMessage
	if err := json.Unmarshal(raw, &details); err == nil {
		ids = make([]string, 0, len(details))
		for id := range details {
			ids = append(ids, id)
		}
		return ids
	}

	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do issues one JSON request against the backend, translating transport
// failures into the client error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ErrTimeout
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, ErrUnavailable
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
}

// serverError builds a ClientError from a non-2xx response, preferring the
// backend's own error message when one is present.
func serverError(prefix string, resp *http.Response) *ClientError {
	var be backendError
	if err := json.NewDecoder(resp.Body).Decode(&be); err == nil && be.Error != "" {
		return &ClientError{Type: ErrTypeServer, Message: be.Error}
	}
	return &ClientError{Type: ErrTypeServer, Message: prefix + ": " + resp.Status}
}

// drain discards a response body so the connection can be reused.
func drain(r io.Reader) {
	io.Copy(io.Discard, r)
}

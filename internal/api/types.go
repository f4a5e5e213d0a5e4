// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "encoding/json"

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatMessage is one role/content pair in a chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model"`
}

// ChatChoice wraps one candidate completion.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse is the body of a successful POST /chat reply.
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
	Model   string       `json:"model"`
}

// Content returns the text of the first choice, or "" when the backend
// returned no choices.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// =============================================================================
// TOOL TYPES
// =============================================================================

// ToolRequest is the body of POST /tools/{slug}. Parameters are flat
// string key/value pairs.
type ToolRequest map[string]string

// ToolResponse carries the opaque analysis payload of a tool endpoint.
// The core never assigns it a schema.
type ToolResponse struct {
	Payload json.RawMessage
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// backendError is the error envelope some endpoints return on non-2xx.
type backendError struct {
	Error string `json:"error"`
}

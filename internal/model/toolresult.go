// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TOOL RESULT TYPE
// =============================================================================

// ToolResult is the durable record of one successful tool invocation.
// Content is an opaque payload whose shape depends on the tool; the core
// never interprets it beyond summary synthesis.
type ToolResult struct {
	ID        string          `json:"id"`
	ToolName  string          `json:"tool_name"`
	URL       string          `json:"url,omitempty"`
	Content   json.RawMessage `json:"content"`
	Summary   string          `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
	ShareURL  string          `json:"share_url,omitempty"`
}

// NewToolResult creates a result record for a completed invocation.
func NewToolResult(toolName string, content json.RawMessage, summary string) *ToolResult {
	return &ToolResult{
		ID:        uuid.NewString(),
		ToolName:  toolName,
		Content:   content,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// CODE ARTIFACT TYPE
// =============================================================================

// CodeArtifact is a code snippet the user explicitly saved from an
// assistant message.
type CodeArtifact struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Preview     string    `json:"preview,omitempty"`
}

// NewCodeArtifact creates an artifact from a saved code block.
func NewCodeArtifact(code, language, title string) *CodeArtifact {
	return &CodeArtifact{
		ID:        uuid.NewString(),
		Code:      code,
		Language:  language,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for threads, messages, tool
// results, and code artifacts.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Studio"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a thread. Messages are append-only:
// once created they are never mutated, except that a missing ID is attached
// retroactively when a thread loads from disk (EnsureID).
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Reasoning holds a step-by-step justification segment extracted from a
	// model response. Assistant messages only; shown collapsed by default.
	Reasoning string `json:"reasoning,omitempty"`

	// ModelID identifies the backend model that produced an assistant
	// message. Never set on user messages.
	ModelID string `json:"model_id,omitempty"`

	// ToolResultID references the ToolResult this message reports, when the
	// message is the outcome of a tool invocation.
	ToolResultID string `json:"tool_result_id,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message attributed to a model.
func NewAssistantMessage(content, modelID string) *Message {
	m := NewMessage(RoleAssistant, content)
	m.ModelID = modelID
	return m
}

// EnsureID attaches a generated ID if the message was stored without one.
// The only permitted post-creation mutation.
func (m *Message) EnsureID() {
	if m.ID == "" {
		m.ID = generateID()
	}
}

// Preview returns a truncated preview of the message content, safe for
// multi-byte text.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.Content, maxLen)
}

// IsEmpty reports whether the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}

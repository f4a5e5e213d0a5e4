// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view and its state machine.
package chat

import (
	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/model"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ChatResponseMsg carries the outcome of a conversational backend call.
// Exactly one of Response or Err is set.
type ChatResponseMsg struct {
	ThreadID string
	Response *api.ChatResponse
	ModelID  string
	Err      error
}

// ToolCompletedMsg carries the outcome of a tool invocation. Result is nil
// when Err is set; either way the busy state must clear.
type ToolCompletedMsg struct {
	ThreadID string
	ToolName string
	Result   *model.ToolResult
	Err      error
}

// ModelsLoadedMsg carries the backend's model inventory.
type ModelsLoadedMsg struct {
	Models []string
	Err    error
}

// =============================================================================
// STORAGE MESSAGES
// =============================================================================

// ThreadsChangedMsg signals that thread files changed on disk, typically
// from another running instance. The receiver reloads the store.
type ThreadsChangedMsg struct{}

// ArtifactSavedMsg confirms a code artifact was persisted to the library.
type ArtifactSavedMsg struct {
	Artifact *model.CodeArtifact
	Err      error
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// ErrorMsg surfaces a recoverable error in a dismissable notice above
// the input line.
type ErrorMsg struct {
	Title   string
	Message string
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// THREAD TYPE
// =============================================================================

// DefaultThreadName is used until the first user message names the thread.
const DefaultThreadName = "New Chat"

// threadNameMaxRunes limits auto-derived thread names.
const threadNameMaxRunes = 50

// Thread is one independent conversation: an ordered, append-only message
// history with a human-readable name. Insertion order is conversation order.
type Thread struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Messages    []*Message `json:"messages"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`
}

// NewThread creates an empty thread with a generated ID.
func NewThread() *Thread {
	now := time.Now()
	return &Thread{
		ID:          generateThreadID(),
		Name:        DefaultThreadName,
		Messages:    []*Message{},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// Append adds a message to the end of the thread and refreshes LastUpdated.
// The first user message names the thread if it still carries the default.
func (t *Thread) Append(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.LastUpdated = time.Now()
	t.deriveName()
}

// Rename sets an explicit name. Explicit names are never overwritten by
// the auto-derivation in Append.
func (t *Thread) Rename(name string) {
	t.Name = name
	t.LastUpdated = time.Now()
}

// MessageCount returns the number of messages in the thread.
func (t *Thread) MessageCount() int {
	return len(t.Messages)
}

// LastMessage returns the most recent message, or nil for an empty thread.
func (t *Thread) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// deriveName sets the thread name from the first user message when the
// thread is still unnamed.
func (t *Thread) deriveName() {
	if t.Name != DefaultThreadName && t.Name != "" {
		return
	}
	for _, msg := range t.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			t.Name = util.TruncateRunes(msg.Content, threadNameMaxRunes)
			return
		}
	}
}

// generateThreadID creates a unique thread ID.
func generateThreadID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "thr_" + hex.EncodeToString(bytes)
}

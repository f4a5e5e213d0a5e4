// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/ui/styles"
)

func TestMessageBubble_User(t *testing.T) {
	msg := model.NewUserMessage("hello studio")
	bubble := NewMessageBubble(msg, styles.NewTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "hello studio") {
		t.Error("bubble missing message content")
	}
	if !strings.Contains(out, "you") {
		t.Error("bubble missing role indicator")
	}
}

func TestMessageBubble_AssistantWithReasoning(t *testing.T) {
	msg := model.NewAssistantMessage("The answer is 4.", "studio-chat-small")
	msg.Reasoning = "First I considered the operands."

	bubble := NewMessageBubble(msg, styles.NewTheme())
	bubble.SetWidth(80)

	// Collapsed by default: hint visible, reasoning text hidden.
	out := bubble.View()
	if strings.Contains(out, "considered the operands") {
		t.Error("reasoning should be collapsed by default")
	}
	if !strings.Contains(out, "reasoning hidden") {
		t.Error("collapsed reasoning should show a hint")
	}

	bubble.SetShowReasoning(true)
	out = bubble.View()
	if !strings.Contains(out, "considered the operands") {
		t.Error("expanded reasoning should be visible")
	}
	if !strings.Contains(out, "The answer is 4.") {
		t.Error("answer content missing")
	}
}

func TestMessageBubble_NilMessage(t *testing.T) {
	bubble := NewMessageBubble(nil, styles.NewTheme())
	// Must not panic.
	_ = bubble.View()
}

func TestToolResultCard(t *testing.T) {
	result := model.NewToolResult("Website Intelligence", []byte(`{"ok":true}`),
		"Scan complete: found 3 content categories and 12 links.")
	result.URL = "https://acme.io"

	card := NewToolResultCard(result, styles.NewTheme())
	out := card.View()

	if !strings.Contains(out, "Website Intelligence") {
		t.Error("card missing tool name")
	}
	if !strings.Contains(out, "https://acme.io") {
		t.Error("card missing URL")
	}
	if !strings.Contains(out, "[OK]") {
		t.Error("success card missing [OK] indicator")
	}

	card.Failed = true
	if !strings.Contains(card.View(), "[X]") {
		t.Error("failed card missing [X] indicator")
	}
}

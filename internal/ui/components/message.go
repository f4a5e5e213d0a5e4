// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the studio TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message as a styled bubble.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowReasoning bool
	theme         *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleAssistant}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetShowReasoning expands the reasoning section instead of collapsing it.
func (b *MessageBubble) SetShowReasoning(show bool) {
	b.ShowReasoning = show
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

// ==========================================================================
// USER BUBBLE - Teal tones, right-aligned feel
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render(strings.ToLower(b.Message.Role.DisplayName()))
	if b.ShowTimestamp {
		header += " " + b.renderTimestamp()
	}

	// Right-align the bubble with left margin
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - Indigo tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	// Fenced code blocks are highlighted before prose wrapping so their
	// lines keep their own formatting.
	content = ParseCodeBlocks(content, maxContentWidth)
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	var sections []string

	// Reasoning renders above the answer so the response itself stays clean.
	if b.Message.Reasoning != "" {
		sections = append(sections, b.renderReasoning(maxContentWidth))
	}

	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(wrapped)

	header := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render(strings.ToLower(b.Message.Role.DisplayName()))
	if b.Message.ModelID != "" {
		header += " " + b.theme.ThreadMeta.Render("("+b.Message.ModelID+")")
	}
	if b.ShowTimestamp {
		header += " " + b.renderTimestamp()
	}

	sections = append(sections, header, bubble)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderReasoning renders the extracted reasoning, collapsed to a hint
// unless expanded.
func (b *MessageBubble) renderReasoning(width int) string {
	if !b.ShowReasoning {
		return b.theme.ReasoningLabel.Render("[reasoning hidden - ctrl+r to show]")
	}

	label := b.theme.ReasoningLabel.Render("reasoning")
	body := b.theme.Reasoning.Render(wordWrap(b.Message.Reasoning, width))
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}

func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(styles.TextMuted)
	if time.Since(ts) < 24*time.Hour {
		return style.Render(ts.Format("15:04"))
	}
	return style.Render(ts.Format("Jan 2 15:04"))
}

// =============================================================================
// TOOL RESULT CARD
// =============================================================================

// ToolResultCard renders a saved tool result as a bordered card.
type ToolResultCard struct {
	Result *model.ToolResult
	Width  int
	Failed bool
	theme  *styles.Theme
}

// NewToolResultCard creates a card for a tool result.
func NewToolResultCard(result *model.ToolResult, theme *styles.Theme) *ToolResultCard {
	return &ToolResultCard{
		Result: result,
		Width:  80,
		theme:  theme,
	}
}

// View renders the tool result card.
func (c *ToolResultCard) View() string {
	if c.Result == nil {
		return ""
	}

	style := c.theme.ToolSuccess
	indicator := styles.StatusIndicators.Success
	if c.Failed {
		style = c.theme.ToolError
		indicator = styles.StatusIndicators.Error
	}

	var lines []string
	lines = append(lines, indicator+" "+c.Result.ToolName)
	if c.Result.URL != "" {
		lines = append(lines, c.Result.URL)
	}
	if c.Result.Summary != "" {
		width := c.Width - 8
		if width < 20 {
			width = 20
		}
		lines = append(lines, wordWrap(c.Result.Summary, width))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brightfold/studio-tui/internal/ui/styles"
	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom status line: thread name, model, activity
// state, and keyboard shortcuts.
type StatusBar struct {
	ThreadName string
	ModelID    string
	Activity   string
	Width      int
	theme      *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// shortcuts shown on the right side of the bar.
var statusShortcuts = []struct {
	key  string
	desc string
}{
	{"ctrl+n", "new"},
	{"ctrl+t", "threads"},
	{"ctrl+c", "quit"},
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left []string

	if s.ThreadName != "" {
		left = append(left, s.theme.HeaderTitle.Render(util.TruncateWidth(s.ThreadName, 30)))
	}
	if s.ModelID != "" {
		left = append(left, s.theme.ThreadMeta.Render(s.ModelID))
	}
	if s.Activity != "" {
		left = append(left, s.theme.StatusBusy.Render(s.Activity))
	} else {
		left = append(left, s.theme.StatusIdle.Render("ready"))
	}

	var right []string
	for _, sc := range statusShortcuts {
		right = append(right,
			s.theme.ShortcutKey.Render(sc.key)+" "+s.theme.ShortcutDesc.Render(sc.desc))
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(right, "  ")

	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).Render(
		leftStr + strings.Repeat(" ", gap) + rightStr)
}

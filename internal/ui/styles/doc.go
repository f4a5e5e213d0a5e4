// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the studio TUI.

This package defines the color palette and style tokens used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic light/dark
terminal detection.

# Color System (colors.go)

  - Indigo - Primary accent for assistant messages and selections
  - Teal - Brand color for info, commands, and user highlights
  - Emerald - Success states and completed tool runs
  - Amber - Warnings and pending parameter prompts
  - Rose - Errors and critical warnings

Message bubbles, tool result cards, reasoning sections, and form elements use
semantic color tokens (UserBubbleBg, ToolSuccessFg, ReasoningFg, ...).

# Theme (theme.go)

Theme bundles every lipgloss.Style the views need, configured once at startup
by NewTheme. Views never construct ad hoc styles; they pull from the Theme so
palette changes stay in one place.

# Accessibility

Status indicators pair shapes with colors ([OK], [X], [!], [i]) so state
remains legible for colorblind users, and high-contrast variants back every
semantic color.
*/
package styles

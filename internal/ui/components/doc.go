// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the studio TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually consistent with the studio design language.

# Display Components

MessageBubble (message.go) - Styled chat bubbles for user and assistant
messages, including collapsible reasoning sections.

ToolResultCard (message.go) - Bordered card summarizing a completed tool run.

CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma, with
clipboard copy and markdown fence extraction.

StatusBar (statusbar.go) - Bottom status bar with thread name, model,
activity state, and shortcuts.

# Input Components

ParamForm (paramform.go) - Step-by-step collection of missing tool
parameters, with free-text and option-cycling fields.

# Progress and Feedback

Spinner (spinner.go) - ASCII-safe animated spinner with an elapsed timer.
*/
package components

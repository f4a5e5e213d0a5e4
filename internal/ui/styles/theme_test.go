// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Styles must be initialized, not zero values.
	if theme.UserBubble.GetPaddingLeft() == 0 {
		t.Error("UserBubble style not initialized")
	}
	if !theme.HeaderTitle.GetBold() {
		t.Error("HeaderTitle should be bold")
	}
	if !theme.Reasoning.GetItalic() {
		t.Error("Reasoning should be italic")
	}
}

func TestTheme_SetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize() = %dx%d", theme.Width, theme.Height)
	}
}

func TestTheme_BubbleWidth(t *testing.T) {
	theme := NewTheme()

	// Unsized theme falls back to a sane default.
	if w := theme.BubbleWidth(); w != 76 {
		t.Errorf("default BubbleWidth() = %d, want 76", w)
	}

	theme.SetSize(100, 30)
	if w := theme.BubbleWidth(); w != 92 {
		t.Errorf("BubbleWidth() = %d, want 92", w)
	}

	// Narrow terminals clamp to a readable minimum.
	theme.SetSize(10, 30)
	if w := theme.BubbleWidth(); w != 20 {
		t.Errorf("narrow BubbleWidth() = %d, want 20", w)
	}
}

func TestStatusIndicators_ASCIIOnly(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
	}

	for _, ind := range indicators {
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpers_IncludeIndicator(t *testing.T) {
	if out := RenderSuccess("done"); !strings.Contains(out, "[OK]") {
		t.Error("RenderSuccess() missing [OK] indicator")
	}
	if out := RenderError("failed"); !strings.Contains(out, "[X]") {
		t.Error("RenderError() missing [X] indicator")
	}
	if out := RenderWarning("careful"); !strings.Contains(out, "[!]") {
		t.Error("RenderWarning() missing [!] indicator")
	}
}

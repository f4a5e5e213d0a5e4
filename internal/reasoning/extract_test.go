// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reasoning

import (
	"strings"
	"testing"
)

// =============================================================================
// TIER 1: DELIMITED BLOCKS
// =============================================================================

func TestExtract_ThinkingBlock(t *testing.T) {
	in := "<thinking>The URL points at a React app, so scanning makes sense.</thinking>\nHere is the scan plan."
	ext := Extract(in)

	if ext.Reasoning != "The URL points at a React app, so scanning makes sense." {
		t.Errorf("Unexpected reasoning: %q", ext.Reasoning)
	}
	if ext.Content != "Here is the scan plan." {
		t.Errorf("Unexpected content: %q", ext.Content)
	}
}

func TestExtract_ThinkBlockShortForm(t *testing.T) {
	in := "Intro.\n<think>weigh both options</think>\nFinal answer."
	ext := Extract(in)

	if ext.Reasoning != "weigh both options" {
		t.Errorf("Unexpected reasoning: %q", ext.Reasoning)
	}
	if !strings.Contains(ext.Content, "Intro.") || !strings.Contains(ext.Content, "Final answer.") {
		t.Errorf("Content lost surrounding text: %q", ext.Content)
	}
}

func TestExtract_UnclosedThinkingBlock_Ignored(t *testing.T) {
	in := "<thinking>never closed\nplain answer"
	ext := Extract(in)
	if ext.Reasoning != "" {
		t.Errorf("Expected no extraction, got %q", ext.Reasoning)
	}
	if ext.Content != in {
		t.Errorf("Content changed: %q", ext.Content)
	}
}

// =============================================================================
// TIER 2: PHRASE BOUNDARIES
// =============================================================================

func TestExtract_PhraseBounded(t *testing.T) {
	in := "Let me think about this.\nThe homepage loads slowly and has no meta tags.\nTherefore, start with on-page SEO fixes."
	ext := Extract(in)

	if !strings.HasPrefix(ext.Reasoning, "Let me think") {
		t.Errorf("Unexpected reasoning start: %q", ext.Reasoning)
	}
	if !strings.Contains(ext.Reasoning, "no meta tags") {
		t.Errorf("Reasoning missing middle: %q", ext.Reasoning)
	}
	if !strings.HasPrefix(ext.Content, "Therefore") {
		t.Errorf("Content should begin at the conclusion: %q", ext.Content)
	}
}

func TestExtract_StepOneOpening(t *testing.T) {
	in := "Step 1: review the audience data.\nStep 2: compare segments.\nIn conclusion, target mid-market buyers."
	ext := Extract(in)

	if !strings.Contains(ext.Reasoning, "Step 2") {
		t.Errorf("Unexpected reasoning: %q", ext.Reasoning)
	}
	if !strings.HasPrefix(ext.Content, "In conclusion") {
		t.Errorf("Unexpected content: %q", ext.Content)
	}
}

func TestExtract_StartWithoutEnd_Ignored(t *testing.T) {
	in := "Let me think about this.\nStill thinking with no conclusion marker."
	ext := Extract(in)
	if ext.Reasoning != "" {
		t.Errorf("Expected no extraction without an end phrase, got %q", ext.Reasoning)
	}
	if ext.Content != in {
		t.Errorf("Content changed: %q", ext.Content)
	}
}

// =============================================================================
// TIER 3: LENGTH HEURISTIC
// =============================================================================

func TestExtract_LeadingHeuristic(t *testing.T) {
	head := []string{
		"We should analyze the traffic sources before anything else.",
		"Each step of the funnel loses visitors somewhere.",
		"Consider how the paid channels compare to organic.",
		"The approach has to account for seasonality.",
	}
	tail := make([]string, 8)
	for i := range tail {
		tail[i] = "Recommendation line for the campaign plan."
	}
	in := strings.Join(append(head, tail...), "\n")

	ext := Extract(in)
	if ext.Reasoning == "" {
		t.Fatal("Expected heuristic extraction on long reasoning-flavored response")
	}
	if !strings.Contains(ext.Reasoning, "analyze the traffic") {
		t.Errorf("Unexpected reasoning: %q", ext.Reasoning)
	}
	if strings.Contains(ext.Content, "analyze the traffic") {
		t.Errorf("Reasoning leaked into content: %q", ext.Content)
	}
}

func TestExtract_LongWithoutVocabulary_Unchanged(t *testing.T) {
	lines := make([]string, 15)
	for i := range lines {
		lines[i] = "Plain marketing copy about the product."
	}
	in := strings.Join(lines, "\n")

	ext := Extract(in)
	if ext.Reasoning != "" {
		t.Errorf("Expected no extraction, got %q", ext.Reasoning)
	}
	if ext.Content != in {
		t.Error("Content changed for vocabulary-free response")
	}
}

func TestExtract_ShortResponse_Unchanged(t *testing.T) {
	in := "Consider the audience. Analyze the funnel."
	ext := Extract(in)
	if ext.Reasoning != "" {
		t.Errorf("Short responses must not trigger the heuristic, got %q", ext.Reasoning)
	}
	if ext.Content != in {
		t.Errorf("Content changed: %q", ext.Content)
	}
}

// =============================================================================
// IDEMPOTENCY
// =============================================================================

func TestExtract_IdempotentWithoutSignal(t *testing.T) {
	fixtures := []string{
		"What a sunny day.",
		"The weather today is mild with light wind.",
		"Line one.\nLine two.\nLine three.",
	}
	for _, in := range fixtures {
		first := Extract(in)
		second := Extract(first.Content)
		if first.Reasoning != "" {
			t.Errorf("Unexpected reasoning for %q: %q", in, first.Reasoning)
		}
		if second != first {
			t.Errorf("Extraction not idempotent for %q: %+v vs %+v", in, first, second)
		}
	}
}

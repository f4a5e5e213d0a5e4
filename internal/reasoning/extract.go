// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reasoning extracts step-by-step justification segments from raw
// model responses.
//
// Extraction is best effort and runs through an ordered fallback chain:
// explicit delimiters, phrase-boundary patterns, then a length heuristic.
// When no tier fires the response passes through unchanged, so extraction
// is idempotent on content without reasoning signal.
package reasoning

import (
	"regexp"
	"strings"
)

// Extraction is the result of splitting a response into an optional
// reasoning segment and the displayed content.
type Extraction struct {
	// Reasoning is the extracted justification, empty when none was found.
	Reasoning string
	// Content is the remainder of the response, shown to the user.
	Content string
}

// =============================================================================
// PATTERNS
// =============================================================================

// PERFORMANCE: Pre-compiled regex patterns (compiled once at startup)
var (
	// Tier 1: explicit delimited reasoning block.
	thinkBlockPattern = regexp.MustCompile(`(?is)<think(?:ing)?>\s*(.*?)\s*</think(?:ing)?>`)

	// Tier 2: phrase boundaries that open a reasoning passage.
	reasoningStartPattern = regexp.MustCompile(`(?im)^\s*(?:let me think|let's think|let me work through|thinking through|step 1:|first,? i(?:'ll| will))`)

	// Tier 2: phrase boundaries that close a reasoning passage and begin the
	// final answer.
	reasoningEndPattern = regexp.MustCompile(`(?im)^\s*(?:therefore|in conclusion|in summary|to summarize|so,)`)
)

// reasoningVocabulary gates the length heuristic. A leading segment is only
// treated as reasoning when it actually talks like reasoning.
var reasoningVocabulary = []string{
	"step",
	"analyze",
	"consider",
	"approach",
	"because",
	"first",
	"therefore",
}

// minLinesForHeuristic is the response length below which the first-third
// heuristic never fires.
const minLinesForHeuristic = 12

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract splits a raw model response into a reasoning segment and the
// displayed content. Pure function with no side effects.
func Extract(response string) Extraction {
	// Tier 1: explicit <thinking> delimiters.
	if ext, ok := extractDelimited(response); ok {
		return ext
	}

	// Tier 2: phrase-boundary patterns.
	if ext, ok := extractPhraseBounded(response); ok {
		return ext
	}

	// Tier 3: long responses whose opening reads like reasoning.
	if ext, ok := extractLeadingHeuristic(response); ok {
		return ext
	}

	return Extraction{Content: response}
}

// extractDelimited handles explicit <thinking>...</thinking> blocks. The
// block is removed from the content wherever it appears.
func extractDelimited(response string) (Extraction, bool) {
	m := thinkBlockPattern.FindStringSubmatchIndex(response)
	if m == nil {
		return Extraction{}, false
	}

	reasoning := strings.TrimSpace(response[m[2]:m[3]])
	content := strings.TrimSpace(response[:m[0]] + response[m[1]:])
	return Extraction{Reasoning: reasoning, Content: content}, true
}

// extractPhraseBounded recognizes a passage opened by a reasoning phrase
// and closed by a conclusion phrase. Both boundaries must be present; an
// unterminated passage is left alone rather than guessed at.
func extractPhraseBounded(response string) (Extraction, bool) {
	start := reasoningStartPattern.FindStringIndex(response)
	if start == nil {
		return Extraction{}, false
	}

	rest := response[start[0]:]
	end := reasoningEndPattern.FindStringIndex(rest)
	if end == nil || end[0] == 0 {
		return Extraction{}, false
	}

	reasoning := strings.TrimSpace(rest[:end[0]])
	content := strings.TrimSpace(response[:start[0]] + rest[end[0]:])
	return Extraction{Reasoning: reasoning, Content: content}, true
}

// extractLeadingHeuristic treats roughly the first third of a long response
// as reasoning, but only when that segment contains reasoning vocabulary.
func extractLeadingHeuristic(response string) (Extraction, bool) {
	lines := strings.Split(response, "\n")
	if len(lines) < minLinesForHeuristic {
		return Extraction{}, false
	}

	cut := len(lines) / 3
	head := strings.Join(lines[:cut], "\n")
	if !containsReasoningVocabulary(head) {
		return Extraction{}, false
	}

	reasoning := strings.TrimSpace(head)
	content := strings.TrimSpace(strings.Join(lines[cut:], "\n"))
	return Extraction{Reasoning: reasoning, Content: content}, true
}

// containsReasoningVocabulary reports whether s uses at least two distinct
// reasoning-indicative words. Requiring two keeps ordinary prose that
// happens to say "first" from being misread as reasoning.
func containsReasoningVocabulary(s string) bool {
	lower := strings.ToLower(s)
	hits := 0
	for _, word := range reasoningVocabulary {
		if strings.Contains(lower, word) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

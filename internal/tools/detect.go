// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"regexp"
	"strings"

	"github.com/brightfold/studio-tui/internal/util"
)

// =============================================================================
// DETECTION
// =============================================================================

// Match is a detected tool invocation. Params holds whatever the trigger
// pattern could extract; missing required parameters are collected later.
type Match struct {
	Tool            *Tool
	Params          map[string]string
	OriginalMessage string
}

// trigger pairs a pattern with its parameter extractor. Triggers run in
// fixed priority order and the first match wins.
type trigger struct {
	toolName string
	pattern  *regexp.Regexp
	extract  func(groups []string) map[string]string
}

// PERFORMANCE: Pre-compiled regex patterns (compiled once at startup)
var (
	scanWithURLPattern = regexp.MustCompile(`(?i)(?:analyze|scan|audit)(?:\s+(?:my|the|this))?\s+(?:website|site|page)[:\s]+\s*(\S+)`)
	scanBarePattern    = regexp.MustCompile(`(?i)\b(?:analyze|scan|audit)(?:\s+(?:my|the|this))?\s+(?:website|site)\b`)
	bareURLPattern     = regexp.MustCompile(`(?i)^(https?://\S+|[\w-]+\.[a-z]{2,}(?:/\S*)?)$`)

	personaFullPattern = regexp.MustCompile(`(?i)create\s+(?:an?\s+)?executive\s+persona\s+for\s+(?:an?\s+)?(.+?)\s+in\s+(?:the\s+)?(.+?)\s*$`)
	personaBarePattern = regexp.MustCompile(`(?i)\bexecutive\s+persona\b`)

	brandFullPattern = regexp.MustCompile(`(?i)(?:build|create|generate)\s+(?:a\s+)?brand\s+foundation\s+for\s+(.+?)\s*$`)
	brandBarePattern = regexp.MustCompile(`(?i)\bbrand\s+foundation\b`)

	icpFullPattern = regexp.MustCompile(`(?i)(?:build|create)\s+(?:an?\s+)?(?:icp|ideal\s+customer\s+profile)\s+for\s+(.+?)\s*$`)
	icpBarePattern = regexp.MustCompile(`(?i)\b(?:icp|ideal\s+customer\s+profile)\b`)
)

// Detector classifies utterances against the catalog's trigger patterns.
// Pure pattern matching; "no match" is an outcome, not an error.
type Detector struct {
	catalog  *Catalog
	triggers []trigger
}

// NewDetector builds the trigger list for the given catalog. Full-extraction
// patterns precede their bare fallbacks so a URL-carrying utterance never
// degrades into a parameter form.
func NewDetector(catalog *Catalog) *Detector {
	d := &Detector{catalog: catalog}

	d.triggers = []trigger{
		{
			toolName: "Website Intelligence",
			pattern:  scanWithURLPattern,
			extract: func(groups []string) map[string]string {
				return map[string]string{"url": normalizeURL(groups[1])}
			},
		},
		{
			toolName: "Website Intelligence",
			pattern:  scanBarePattern,
			extract:  func([]string) map[string]string { return map[string]string{} },
		},
		{
			toolName: "Executive Persona",
			pattern:  personaFullPattern,
			extract: func(groups []string) map[string]string {
				return map[string]string{
					"role":     strings.TrimSpace(groups[1]),
					"industry": strings.TrimSpace(groups[2]),
				}
			},
		},
		{
			toolName: "Executive Persona",
			pattern:  personaBarePattern,
			extract:  func([]string) map[string]string { return map[string]string{} },
		},
		{
			toolName: "Brand Foundation",
			pattern:  brandFullPattern,
			extract: func(groups []string) map[string]string {
				return map[string]string{"company": strings.TrimSpace(groups[1])}
			},
		},
		{
			toolName: "Brand Foundation",
			pattern:  brandBarePattern,
			extract:  func([]string) map[string]string { return map[string]string{} },
		},
		{
			toolName: "ICP Builder",
			pattern:  icpFullPattern,
			extract: func(groups []string) map[string]string {
				return map[string]string{"product": strings.TrimSpace(groups[1])}
			},
		},
		{
			toolName: "ICP Builder",
			pattern:  icpBarePattern,
			extract:  func([]string) map[string]string { return map[string]string{} },
		},
	}

	return d
}

// Detect classifies an utterance. Returns the first matching trigger's
// tool and extracted parameters, or false when nothing matched and the
// caller should fall back to conversation.
func (d *Detector) Detect(utterance string) (*Match, bool) {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return nil, false
	}

	// A bare URL on its own reads as a scan request. Matching runs on the
	// raw trimmed form so the path keeps its case.
	if groups := bareURLPattern.FindStringSubmatch(trimmed); groups != nil {
		tool, _ := d.catalog.Get("Website Intelligence")
		return &Match{
			Tool:            tool,
			Params:          map[string]string{"url": normalizeURL(groups[1])},
			OriginalMessage: utterance,
		}, true
	}

	// Triggers first see the raw trimmed form so extracted values keep
	// their casing, then the normalized form so decomposed Unicode and
	// irregular whitespace still match.
	normalized := util.NormalizeUtterance(trimmed)
	for _, trg := range d.triggers {
		groups := trg.pattern.FindStringSubmatch(trimmed)
		if groups == nil {
			groups = trg.pattern.FindStringSubmatch(normalized)
		}
		if groups == nil {
			continue
		}
		tool, ok := d.catalog.Get(trg.toolName)
		if !ok {
			continue
		}
		return &Match{
			Tool:            tool,
			Params:          trg.extract(groups),
			OriginalMessage: utterance,
		}, true
	}

	return nil, false
}

// normalizeURL strips trailing punctuation and defaults the scheme so the
// scanner endpoint always receives an absolute URL.
func normalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), ".,;:!?)")
	if u == "" {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

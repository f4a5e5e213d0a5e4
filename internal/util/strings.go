// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// TruncateRunes shortens s to at most maxRunes runes, appending "..." when
// anything was cut. Safe for multi-byte text.
func TruncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateWidth shortens s to the given display width, accounting for
// wide characters. Used when fitting text into terminal columns.
func TruncateWidth(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// NormalizeUtterance canonicalizes user input before pattern matching:
// NFC normalization, whitespace collapse, and lowercasing. Matching on the
// normalized form keeps trigger phrases stable across composed and
// decomposed Unicode input.
func NormalizeUtterance(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

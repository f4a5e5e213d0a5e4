// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"testing"
)

func TestPendingRequest_PrefillsExtracted(t *testing.T) {
	match, ok := newTestDetector().Detect("build a brand foundation for Acme")
	if !ok {
		t.Fatal("Expected a match")
	}

	pending := NewPendingRequest(match)
	if pending.Params["company"] != "Acme" {
		t.Errorf("Extracted value not carried over: %v", pending.Params)
	}
	if pending.Complete() {
		t.Error("Expected pending request to be incomplete")
	}

	missing := pending.Missing()
	if len(missing) != 1 || missing[0].Name != "industry" {
		t.Errorf("Expected industry missing, got %v", missing)
	}
	if missing[0].Type != ParamSelect {
		t.Errorf("Expected select parameter, got %s", missing[0].Type)
	}
}

func TestPendingRequest_MergeCompletes(t *testing.T) {
	match, _ := newTestDetector().Detect("analyze website")
	pending := NewPendingRequest(match)

	pending.Merge(map[string]string{"url": "https://acme.test"})
	if !pending.Complete() {
		t.Error("Expected complete after merge")
	}
	if pending.Params["url"] != "https://acme.test" {
		t.Errorf("Unexpected url: %q", pending.Params["url"])
	}
}

func TestPendingRequest_EmptyValueDoesNotOverwrite(t *testing.T) {
	match, _ := newTestDetector().Detect("analyze website: https://example.com")
	pending := NewPendingRequest(match)

	pending.Merge(map[string]string{"url": ""})
	if pending.Params["url"] != "https://example.com" {
		t.Errorf("Empty form value clobbered extraction: %q", pending.Params["url"])
	}
}

func TestPendingRequest_CopiesParams(t *testing.T) {
	match, _ := newTestDetector().Detect("analyze website: https://example.com")
	pending := NewPendingRequest(match)

	pending.Params["url"] = "https://other.test"
	if match.Params["url"] != "https://example.com" {
		t.Error("Pending request must not alias the match's params")
	}
}

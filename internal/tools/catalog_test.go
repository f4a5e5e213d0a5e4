// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import "testing"

func TestCatalog_GetAndAll(t *testing.T) {
	c := NewCatalog()
	if len(c.All()) != 4 {
		t.Fatalf("Expected 4 tools, got %d", len(c.All()))
	}
	if _, ok := c.Get("Website Intelligence"); !ok {
		t.Error("Website Intelligence missing")
	}
	if _, ok := c.Get("Time Machine"); ok {
		t.Error("Unexpected tool found")
	}
}

func TestTool_RequiredParameters_Order(t *testing.T) {
	c := NewCatalog()
	tool, _ := c.Get("Executive Persona")
	required := tool.RequiredParameters()
	if len(required) != 2 || required[0].Name != "role" || required[1].Name != "industry" {
		t.Errorf("Unexpected required parameters: %v", required)
	}
}

func TestTool_RequestDescription(t *testing.T) {
	c := NewCatalog()
	tool, _ := c.Get("Website Intelligence")
	got := tool.RequestDescription(map[string]string{"url": "https://example.com"})
	if got != "Analyze website: https://example.com" {
		t.Errorf("Unexpected description: %q", got)
	}
}

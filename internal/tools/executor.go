// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/model"
)

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor performs a tool's actual work against the backend and builds
// the durable result record. Failures return an error and no result; the
// caller reports the failure in the conversation and never retries.
type Executor struct {
	catalog *Catalog
	client  *api.Client
}

// NewExecutor creates an executor over the given catalog and backend client.
func NewExecutor(catalog *Catalog, client *api.Client) *Executor {
	return &Executor{catalog: catalog, client: client}
}

// Execute invokes the named tool with a complete parameter mapping.
//
// An unknown tool name or an incomplete mapping is a logic error in the
// caller, surfaced loudly rather than swallowed. Network and backend
// failures come back as api.ClientError values.
func (e *Executor) Execute(ctx context.Context, toolName string, params map[string]string) (*model.ToolResult, error) {
	tool, ok := e.catalog.Get(toolName)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
	if missing := tool.MissingParameters(params); len(missing) > 0 {
		return nil, fmt.Errorf("tool %s invoked without required parameter %q", tool.Name, missing[0].Name)
	}

	resp, err := e.client.InvokeTool(ctx, tool.Slug, api.ToolRequest(params))
	if err != nil {
		return nil, err
	}

	result := model.NewToolResult(tool.Name, resp.Payload, synthesizeSummary(tool, resp.Payload))
	result.URL = params["url"]
	result.ShareURL = "studio://results/" + result.ID
	return result, nil
}

// =============================================================================
// SUMMARY SYNTHESIS
// =============================================================================

// scanOverview is the slice of a scanner payload the summary fallback
// reads. Everything else in the payload stays opaque.
type scanOverview struct {
	Summary    string            `json:"summary"`
	Categories []json.RawMessage `json:"categories"`
	Links      []json.RawMessage `json:"links"`
}

// synthesizeSummary produces the one-paragraph synopsis embedded in the
// conversation. The backend's own summary wins when present; the scanner
// payload gets a count-based fallback; anything else gets a generic line.
func synthesizeSummary(tool *Tool, payload json.RawMessage) string {
	var overview scanOverview
	if err := json.Unmarshal(payload, &overview); err == nil && overview.Summary != "" {
		return overview.Summary
	}

	if tool.Slug == SlugWebsiteScanner {
		return fmt.Sprintf("Scan complete: found %d content categories and %d links.",
			len(overview.Categories), len(overview.Links))
	}

	return tool.Name + " finished. The full result is saved in your library."
}

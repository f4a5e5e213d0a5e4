// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the studio CLI.
//
// Handles "studio ask", which sends one question through the same
// detection pipeline as the TUI and prints the reply to stdout.
//
// Examples:
//   studio ask "what makes a strong value proposition?"
//   studio ask "analyze website: https://example.com"
//   studio ask --json "create an ICP for our analytics platform"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/reasoning"
	"github.com/brightfold/studio-tui/internal/tools"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders assistant output for a TTY, falling back to the
// raw text for pipes or renderer failures.
func renderMarkdown(text string) string {
	if !IsStdoutTTY() {
		return text
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// askOutput is the --json envelope for one-shot queries.
type askOutput struct {
	Kind      string          `json:"kind"`
	Model     string          `json:"model,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Content   string          `json:"content,omitempty"`
	Reasoning string          `json:"reasoning,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// HandleAsk runs a single question and prints the reply. A tool-style
// question runs the tool when its parameters are fully extractable;
// otherwise it falls back to the conversational backend, since there is
// no form to collect the rest.
func HandleAsk(cfg *config.Config, args Args) int {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: studio ask \"question\"")
		return 1
	}

	client := newClient(cfg, args.Model)
	catalog := tools.NewCatalog()

	if match, ok := tools.NewDetector(catalog).Detect(args.Query); ok {
		pending := tools.NewPendingRequest(match)
		if pending.Complete() {
			return runToolOnce(client, catalog, pending, args)
		}
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "Note: %s needs more details; answering conversationally. Run `studio` for the guided form.\n", match.Tool.Name)
		}
	}

	return runChatOnce(client, cfg, args)
}

func runChatOnce(client *api.Client, cfg *config.Config, args Args) int {
	modelID := args.Model
	if modelID == "" {
		modelID = cfg.DefaultModel
	}

	history := []api.ChatMessage{{Role: "user", Content: args.Query}}
	resp, err := client.Chat(context.Background(), history, modelID)
	if err != nil {
		fmt.Fprintln(os.Stderr, api.UserMessage(err))
		return 1
	}

	ext := reasoning.Extract(resp.Content())
	if args.JSON {
		return printJSON(askOutput{
			Kind:      "chat",
			Model:     resp.Model,
			Content:   ext.Content,
			Reasoning: ext.Reasoning,
		})
	}

	if args.Verbose && ext.Reasoning != "" {
		fmt.Fprintln(os.Stderr, "--- reasoning ---")
		fmt.Fprintln(os.Stderr, ext.Reasoning)
		fmt.Fprintln(os.Stderr, "-----------------")
	}
	fmt.Print(renderMarkdown(ext.Content))
	return 0
}

func runToolOnce(client *api.Client, catalog *tools.Catalog, pending *tools.PendingRequest, args Args) int {
	executor := tools.NewExecutor(catalog, client)

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, pending.Tool.RequestDescription(pending.Params))
	}

	result, err := executor.Execute(context.Background(), pending.Tool.Name, pending.Params)
	if err != nil {
		fmt.Fprintln(os.Stderr, api.UserMessage(err))
		return 1
	}

	if args.JSON {
		return printJSON(askOutput{
			Kind:    "tool",
			Tool:    result.ToolName,
			Content: result.Summary,
			Result:  result.Content,
		})
	}

	fmt.Println(result.Summary)
	if args.Verbose {
		var pretty json.RawMessage = result.Content
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Println(string(out))
		}
	}
	return 0
}

// =============================================================================
// HELPERS
// =============================================================================

// newClient builds a backend client from the loaded configuration, with
// an optional model override.
func newClient(cfg *config.Config, modelOverride string) *api.Client {
	clientCfg := &api.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		APIKey:            cfg.Backend.APIKey,
		DefaultModel:      cfg.DefaultModel,
		ChatTimeout:       cfg.ChatTimeout(),
		ToolTimeout:       cfg.ToolTimeout(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	}
	if modelOverride != "" {
		clientCfg.DefaultModel = modelOverride
	}
	return api.NewClientWithConfig(clientCfg)
}

func printJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to encode output:", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

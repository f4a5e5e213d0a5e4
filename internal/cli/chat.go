// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL command handler for the studio CLI.
//
// Handles "studio chat", a line-oriented alternative to the full TUI for
// environments where a full-screen interface is unwanted. The REPL runs
// the same detection pipeline as the TUI; partially-specified tool
// requests are completed through line prompts instead of a form.
//
// Interactive commands:
//   /help           Show available commands
//   /model [name]   Show or switch the active model
//   /tools          List available tools
//   /history        Show the conversation so far
//   /clear          Clear the conversation history
//   /quit           Exit (also Ctrl+D)
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/reasoning"
	"github.com/brightfold/studio-tui/internal/tools"
)

// historyFileName stores REPL input history under the config directory.
const historyFileName = "repl_history"

// =============================================================================
// SESSION
// =============================================================================

// replSession holds the state of one REPL run.
type replSession struct {
	client   *api.Client
	catalog  *tools.Catalog
	detector *tools.Detector
	executor *tools.Executor
	line     *liner.State
	history  []api.ChatMessage
	modelID  string
	quiet    bool
}

// HandleChat runs the interactive REPL until EOF or /quit.
func HandleChat(cfg *config.Config, args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "studio chat needs an interactive terminal; use `studio ask` for pipes.")
		return 1
	}

	client := newClient(cfg, args.Model)
	catalog := tools.NewCatalog()

	modelID := args.Model
	if modelID == "" {
		modelID = cfg.DefaultModel
	}

	s := &replSession{
		client:   client,
		catalog:  catalog,
		detector: tools.NewDetector(catalog),
		executor: tools.NewExecutor(catalog, client),
		line:     liner.NewLiner(),
		modelID:  modelID,
		quiet:    args.Quiet,
	}
	defer s.close()

	s.line.SetCtrlCAborts(true)
	s.loadHistory()

	if !args.Quiet {
		fmt.Println("studio chat (" + s.modelID + "). Type /help for commands, /quit to exit.")
	}

	for {
		input, err := s.line.Prompt("you> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Input error:", err)
			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := s.runCommand(input); quit {
				return 0
			}
			continue
		}

		s.handleUtterance(input)
	}
}

// =============================================================================
// TURN HANDLING
// =============================================================================

func (s *replSession) handleUtterance(input string) {
	if match, ok := s.detector.Detect(input); ok {
		pending := tools.NewPendingRequest(match)
		if !s.collectParams(pending) {
			fmt.Println("Cancelled.")
			return
		}
		s.runTool(pending)
		return
	}

	s.history = append(s.history, api.ChatMessage{Role: "user", Content: input})
	resp, err := s.client.Chat(context.Background(), s.history, s.modelID)
	if err != nil {
		// Failed turns come back out of the history so a retry does not
		// carry a dangling user message.
		s.history = s.history[:len(s.history)-1]
		fmt.Println(api.UserMessage(err))
		return
	}

	ext := reasoning.Extract(resp.Content())
	s.history = append(s.history, api.ChatMessage{Role: "assistant", Content: ext.Content})
	fmt.Print(renderMarkdown(ext.Content))
}

// collectParams prompts for each missing required parameter. Returns
// false when the user aborts.
func (s *replSession) collectParams(pending *tools.PendingRequest) bool {
	for _, param := range pending.Missing() {
		prompt := param.Label
		if param.Type == tools.ParamSelect && len(param.Options) > 0 {
			prompt += " (" + strings.Join(param.Options, ", ") + ")"
		}

		value, err := s.line.Prompt(prompt + ": ")
		if err != nil {
			return false
		}
		value = strings.TrimSpace(value)
		if value == "" && param.Required {
			return false
		}
		pending.Merge(map[string]string{param.Name: value})
	}
	return pending.Complete()
}

func (s *replSession) runTool(pending *tools.PendingRequest) {
	description := pending.Tool.RequestDescription(pending.Params)
	if !s.quiet {
		fmt.Println(description)
	}

	result, err := s.executor.Execute(context.Background(), pending.Tool.Name, pending.Params)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return
	}

	// Tool turns stay in the history so follow-up questions have context.
	s.history = append(s.history,
		api.ChatMessage{Role: "user", Content: description},
		api.ChatMessage{Role: "assistant", Content: result.Summary})
	fmt.Println(result.Summary)
}

// =============================================================================
// REPL COMMANDS
// =============================================================================

// runCommand handles a slash command. Returns true when the session
// should end.
func (s *replSession) runCommand(input string) bool {
	word, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(word) {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println("Commands: /model [name], /tools, /history, /clear, /quit")

	case "/model":
		if args == "" {
			fmt.Println("Active model: " + s.modelID)
		} else {
			s.modelID = args
			fmt.Println("Switched to " + s.modelID)
		}

	case "/tools":
		for _, tool := range s.catalog.All() {
			fmt.Println(tool.Name + ": " + tool.Description)
		}

	case "/history":
		for _, msg := range s.history {
			fmt.Println(msg.Role + ": " + msg.Content)
		}

	case "/clear":
		s.history = nil
		fmt.Println("History cleared.")

	default:
		fmt.Println("Unknown command: " + word)
	}
	return false
}

// =============================================================================
// HISTORY PERSISTENCE
// =============================================================================

func (s *replSession) historyPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFileName), nil
}

func (s *replSession) loadHistory() {
	path, err := s.historyPath()
	if err != nil {
		return
	}
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		s.line.ReadHistory(f)
	}
}

// close saves input history and restores the terminal.
func (s *replSession) close() {
	if path, err := s.historyPath(); err == nil {
		if f, err := os.Create(path); err == nil {
			defer f.Close()
			s.line.WriteHistory(f)
		}
	}
	s.line.Close()
}

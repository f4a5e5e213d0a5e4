// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/reasoning"
	"github.com/brightfold/studio-tui/internal/tools"
	"github.com/brightfold/studio-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update is the Bubble Tea update loop for the conversation view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ChatResponseMsg:
		return m.handleChatResponse(msg)

	case ToolCompletedMsg:
		return m.handleToolCompleted(msg)

	case ModelsLoadedMsg:
		// Malformed or failed inventory keeps the previous defaults.
		if msg.Err == nil && len(msg.Models) > 0 {
			m.models = msg.Models
		}
		return m, nil

	case ThreadsChangedMsg:
		// Another instance rewrote the thread directory.
		if err := m.store.Load(); err == nil {
			m.refreshViewport()
		}
		return m, nil

	case ArtifactSavedMsg:
		if msg.Err != nil {
			m.lastError = &ErrorMsg{Title: "Save failed", Message: msg.Err.Error()}
		} else {
			m.statusText = "Saved code artifact: " + msg.Artifact.Title
		}
		return m, nil

	case ErrorMsg:
		m.lastError = &msg
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	m.statusText = ""
	m.lastError = nil

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showThreads {
		return m.handleThreadListKey(msg)
	}
	if m.state == StateCollectingParams {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.NewThread):
		return m.newThread()

	case key.Matches(msg, m.keyMap.Threads):
		m.openThreadList("")
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleReasoning):
		m.showReasoning = !m.showReasoning
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleFormKey routes keys to the parameter form and reacts to its
// terminal states.
func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.Cancelled() {
		// Discarded: no message is appended, nothing executes.
		m.pending = nil
		m.form = nil
		m.state = StateIdle
		m.input.Focus()
		return m, cmd
	}
	if m.form.Done() {
		m.pending.Merge(m.form.Values())
		m.form = nil
		if m.pending.Complete() {
			return m.startExecution(m.pending)
		}
		// Submission left a required field empty. Re-open the form for
		// what is still missing.
		m.form = components.NewParamForm(m.pending, m.theme)
		m.form.SetWidth(m.width)
		return m, cmd
	}
	return m, cmd
}

func (m Model) handleThreadListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+t":
		m.showThreads = false
	case "up", "k":
		if m.threadIndex > 0 {
			m.threadIndex--
		}
	case "down", "j":
		if m.threadIndex < len(m.threadList)-1 {
			m.threadIndex++
		}
	case "enter":
		if m.threadIndex < len(m.threadList) {
			if err := m.store.SetActive(m.threadList[m.threadIndex].ID); err != nil {
				m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
			}
		}
		m.showThreads = false
		m.refreshViewport()
	}
	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

// submit handles an Enter press on the input line. Runs detection and
// routes to the parameter form, the tool executor, or the responder.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	// One in-flight action per thread. The input stays visible but sends
	// are rejected until the outstanding call resolves.
	if m.Busy() {
		m.statusText = "Still working on the previous request."
		return m, nil
	}

	m.input.Reset()

	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	if match, ok := m.detector.Detect(text); ok {
		pending := tools.NewPendingRequest(match)
		if pending.Complete() {
			return m.startExecution(pending)
		}
		m.pending = pending
		m.form = components.NewParamForm(pending, m.theme)
		m.form.SetWidth(m.width)
		m.state = StateCollectingParams
		m.input.Blur()
		return m, nil
	}

	// No tool matched: optimistic append, then the conversational backend.
	m.appendMessage(model.NewUserMessage(text))
	m.state = StateResponding
	m.input.Blur()
	cmd := m.spin.Start("Thinking")
	return m, tea.Batch(cmd, chatCmd(m.client, m.store.ActiveID(), m.historyForBackend(), m.modelID()))
}

// startExecution appends the synthesized request description and fires
// the tool invocation.
func (m Model) startExecution(pending *tools.PendingRequest) (Model, tea.Cmd) {
	m.pending = nil
	m.appendMessage(model.NewUserMessage(pending.Tool.RequestDescription(pending.Params)))
	m.state = StateExecuting
	m.input.Blur()
	cmd := m.spin.Start("Running " + pending.Tool.Name)
	return m, tea.Batch(cmd, executeToolCmd(m.executor, m.store.ActiveID(), pending.Tool.Name, pending.Params))
}

// modelID returns the model the responder should use.
func (m Model) modelID() string {
	if m.cfg != nil && m.cfg.DefaultModel != "" {
		return m.cfg.DefaultModel
	}
	return m.client.DefaultModel()
}

// =============================================================================
// COMPLETION HANDLING
// =============================================================================

// handleChatResponse reconciles a responder outcome into the thread.
// Failures become ordinary assistant messages; the view never stays stuck
// in a loading state.
func (m Model) handleChatResponse(msg ChatResponseMsg) (Model, tea.Cmd) {
	m.state = StateIdle
	m.spin.Stop()
	m.input.Focus()

	if msg.Err != nil {
		m.appendMessageTo(msg.ThreadID, model.NewAssistantMessage(api.UserMessage(msg.Err), msg.ModelID))
		return m, nil
	}

	ext := reasoning.Extract(msg.Response.Content())
	reply := model.NewAssistantMessage(ext.Content, msg.Response.Model)
	reply.Reasoning = ext.Reasoning
	m.appendMessageTo(msg.ThreadID, reply)

	// The most recent fenced code block becomes the active preview, but
	// only when the reply belongs to the thread on screen. /save and /copy
	// act on what the user is looking at.
	if msg.ThreadID == "" || msg.ThreadID == m.store.ActiveID() {
		if blocks := components.ExtractCodeBlocks(ext.Content); len(blocks) > 0 {
			last := blocks[len(blocks)-1]
			m.activePreview = &last
		}
	}
	return m, nil
}

// handleToolCompleted reconciles a tool outcome into the thread. Success
// persists the result to the library and links the summary message to it.
func (m Model) handleToolCompleted(msg ToolCompletedMsg) (Model, tea.Cmd) {
	m.state = StateIdle
	m.spin.Stop()
	m.input.Focus()

	if msg.Err != nil {
		m.appendMessageTo(msg.ThreadID, model.NewAssistantMessage(api.UserMessage(msg.Err), ""))
		return m, nil
	}

	result := msg.Result
	if m.library != nil {
		if err := m.library.SaveResult(result); err != nil {
			m.lastError = &ErrorMsg{Title: "Library error", Message: err.Error()}
		}
	}

	summary := model.NewAssistantMessage(result.Summary+"\n\nFull result: "+result.ShareURL, "")
	summary.ToolResultID = result.ID
	m.appendMessageTo(msg.ThreadID, summary)
	return m, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// chatCmd issues one conversational backend call. The client applies its
// own timeout; timeouts surface through Err like any other failure.
func chatCmd(client *api.Client, threadID string, history []api.ChatMessage, modelID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Chat(context.Background(), history, modelID)
		return ChatResponseMsg{ThreadID: threadID, Response: resp, ModelID: modelID, Err: err}
	}
}

// executeToolCmd issues one tool invocation.
func executeToolCmd(executor *tools.Executor, threadID, toolName string, params map[string]string) tea.Cmd {
	return func() tea.Msg {
		result, err := executor.Execute(context.Background(), toolName, params)
		return ToolCompletedMsg{ThreadID: threadID, ToolName: toolName, Result: result, Err: err}
	}
}

// loadModelsCmd fetches the backend's model inventory once at startup.
func loadModelsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), modelListTimeout)
		defer cancel()
		models, err := client.ListModels(ctx)
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

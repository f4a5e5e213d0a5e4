// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/ui/components"
	"github.com/brightfold/studio-tui/internal/util"
)

// modelListTimeout bounds the startup GET /models call.
const modelListTimeout = 10 * time.Second

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// commandHandler executes one slash command. args is the remainder of the
// line after the command word, already trimmed.
type commandHandler func(m Model, args string) (Model, tea.Cmd)

// commandHandlers maps command words to their handlers.
var commandHandlers = map[string]commandHandler{
	"/new":     (Model).cmdNew,
	"/threads": (Model).cmdThreads,
	"/rename":  (Model).cmdRename,
	"/delete":  (Model).cmdDelete,
	"/export":  (Model).cmdExport,
	"/models":  (Model).cmdModels,
	"/tools":   (Model).cmdTools,
	"/results": (Model).cmdResults,
	"/save":    (Model).cmdSave,
	"/copy":    (Model).cmdCopy,
	"/help":    (Model).cmdHelp,
}

// runCommand dispatches a slash command line.
func (m Model) runCommand(line string) (Model, tea.Cmd) {
	word, args, _ := strings.Cut(line, " ")
	handler, ok := commandHandlers[strings.ToLower(word)]
	if !ok {
		m.statusText = "Unknown command: " + word + " (try /help)"
		return m, nil
	}
	return handler(m, strings.TrimSpace(args))
}

// =============================================================================
// THREAD COMMANDS
// =============================================================================

func (m Model) cmdNew(string) (Model, tea.Cmd) {
	return m.newThread()
}

func (m Model) newThread() (Model, tea.Cmd) {
	if _, err := m.store.CreateThread(); err != nil {
		m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
		return m, nil
	}
	m.refreshViewport()
	m.statusText = "Started a new thread."
	return m, nil
}

// cmdThreads opens the thread list, filtered when a query is given.
func (m Model) cmdThreads(args string) (Model, tea.Cmd) {
	m.openThreadList(args)
	return m, nil
}

func (m *Model) openThreadList(query string) {
	if query != "" {
		m.threadList = m.store.Search(query)
	} else {
		m.threadList = m.store.List()
	}
	m.threadIndex = 0
	activeID := m.store.ActiveID()
	for i, meta := range m.threadList {
		if meta.ID == activeID {
			m.threadIndex = i
			break
		}
	}
	m.showThreads = true
}

func (m Model) cmdRename(args string) (Model, tea.Cmd) {
	if args == "" {
		m.statusText = "Usage: /rename <new name>"
		return m, nil
	}
	if err := m.store.Rename(m.store.ActiveID(), args); err != nil {
		m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
		return m, nil
	}
	m.statusText = "Thread renamed to " + args
	return m, nil
}

func (m Model) cmdDelete(string) (Model, tea.Cmd) {
	id := m.store.ActiveID()
	if id == "" {
		m.statusText = "No active thread to delete."
		return m, nil
	}
	if err := m.store.DeleteThread(id); err != nil {
		m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
		return m, nil
	}
	m.refreshViewport()
	m.statusText = "Thread deleted."
	return m, nil
}

func (m Model) cmdExport(args string) (Model, tea.Cmd) {
	id := m.store.ActiveID()
	if id == "" {
		m.statusText = "No active thread to export."
		return m, nil
	}

	var (
		data []byte
		path string
		err  error
	)
	if strings.EqualFold(args, "json") {
		data, err = m.store.ExportJSON(id)
		path = "thread-" + id + ".json"
	} else {
		var md string
		md, err = m.store.ExportMarkdown(id)
		data = []byte(md)
		path = "thread-" + id + ".md"
	}
	if err != nil {
		m.lastError = &ErrorMsg{Title: "Export failed", Message: err.Error()}
		return m, nil
	}
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		m.lastError = &ErrorMsg{Title: "Export failed", Message: err.Error()}
		return m, nil
	}
	m.statusText = "Exported to " + path
	return m, nil
}

// =============================================================================
// INFO COMMANDS
// =============================================================================

func (m Model) cmdModels(string) (Model, tea.Cmd) {
	if len(m.models) == 0 {
		m.statusText = "No models loaded; using " + m.modelID()
		return m, tea.Batch(loadModelsCmd(m.client))
	}
	var sb strings.Builder
	sb.WriteString("Available models:\n")
	for _, id := range m.models {
		marker := "  "
		if id == m.modelID() {
			marker = "* "
		}
		sb.WriteString("\n" + marker + id)
	}
	m.appendLocalNote(sb.String())
	return m, nil
}

func (m Model) cmdTools(string) (Model, tea.Cmd) {
	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, tool := range m.catalog.All() {
		sb.WriteString("\n" + tool.Name + ": " + tool.Description)
	}
	m.appendLocalNote(sb.String())
	return m, nil
}

func (m Model) cmdResults(string) (Model, tea.Cmd) {
	if m.library == nil {
		m.statusText = "No library configured."
		return m, nil
	}
	results, err := m.library.ListResults()
	if err != nil {
		m.lastError = &ErrorMsg{Title: "Library error", Message: err.Error()}
		return m, nil
	}
	if len(results) == 0 {
		m.statusText = "The results library is empty."
		return m, nil
	}
	var sb strings.Builder
	sb.WriteString("Saved results:\n")
	for _, res := range results {
		sb.WriteString("\n" + res.CreatedAt.Format("Jan 2 15:04") + "  " + res.ToolName + "  " + res.ShareURL)
	}
	m.appendLocalNote(sb.String())
	return m, nil
}

func (m Model) cmdSave(args string) (Model, tea.Cmd) {
	if m.activePreview == nil {
		m.statusText = "No code block to save yet."
		return m, nil
	}
	if m.library == nil {
		m.statusText = "No library configured."
		return m, nil
	}

	title := args
	if title == "" {
		title = "Snippet (" + m.activePreview.Language + ")"
	}
	artifact := model.NewCodeArtifact(m.activePreview.Code, m.activePreview.Language, title)
	artifact.Preview = "studio://artifacts/" + artifact.ID

	library := m.library
	return m, func() tea.Msg {
		err := library.SaveArtifact(artifact)
		return ArtifactSavedMsg{Artifact: artifact, Err: err}
	}
}

func (m Model) cmdCopy(string) (Model, tea.Cmd) {
	if m.activePreview == nil {
		m.statusText = "No code block to copy yet."
		return m, nil
	}
	block := components.CodeBlock{Language: m.activePreview.Language, Code: m.activePreview.Code}
	if err := block.CopyToClipboard(); err != nil {
		m.lastError = &ErrorMsg{Title: "Copy failed", Message: err.Error()}
		return m, nil
	}
	m.statusText = "Copied code block to clipboard."
	return m, nil
}

func (m Model) cmdHelp(string) (Model, tea.Cmd) {
	m.showHelp = true
	return m, nil
}

// appendLocalNote appends a locally-generated assistant message. These
// carry no model ID and never trigger a backend call.
func (m *Model) appendLocalNote(content string) {
	m.appendMessage(model.NewAssistantMessage(content, ""))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightfold/studio-tui/internal/api"
	"github.com/brightfold/studio-tui/internal/config"
	"github.com/brightfold/studio-tui/internal/model"
	"github.com/brightfold/studio-tui/internal/storage"
	"github.com/brightfold/studio-tui/internal/tools"
	"github.com/brightfold/studio-tui/internal/ui/components"
	"github.com/brightfold/studio-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation's activity state. Detection runs synchronously
// inside submit, so only the states that span an async boundary appear here.
type State int

const (
	// StateIdle accepts input.
	StateIdle State = iota
	// StateCollectingParams shows the parameter form for a pending tool.
	StateCollectingParams
	// StateExecuting waits on a tool invocation.
	StateExecuting
	// StateResponding waits on a conversational backend reply.
	StateResponding
)

// String returns the status-bar label for a state.
func (s State) String() string {
	switch s {
	case StateCollectingParams:
		return "collecting parameters"
	case StateExecuting:
		return "running tool"
	case StateResponding:
		return "thinking"
	default:
		return ""
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view. It owns the
// thread store, the tool pipeline, and every visible component.
type Model struct {
	state State

	cfg   *config.Config
	theme *styles.Theme

	// Backend and tool pipeline
	client   *api.Client
	catalog  *tools.Catalog
	detector *tools.Detector
	executor *tools.Executor

	// Persistence
	store   *storage.ThreadStore
	library *storage.Library

	// Components
	viewport  viewport.Model
	input     textinput.Model
	spin      components.Spinner
	statusBar *components.StatusBar
	form      *components.ParamForm

	// Pending tool request, non-nil only in StateCollectingParams.
	pending *tools.PendingRequest

	// Last fenced code block received in an assistant reply. Saved to the
	// library by /save.
	activePreview *components.ExtractedBlock

	keyMap KeyMap

	// Thread list overlay
	showThreads bool
	threadIndex int
	threadList  []storage.ThreadMeta

	showHelp      bool
	showReasoning bool

	// Models known to the backend, loaded at startup.
	models []string

	lastError  *ErrorMsg
	statusText string

	width  int
	height int
	ready  bool
}

// Deps carries everything the view needs from the entrypoint.
type Deps struct {
	Config  *config.Config
	Client  *api.Client
	Catalog *tools.Catalog
	Store   *storage.ThreadStore
	Library *storage.Library
}

// NewModel assembles the conversation view. The catalog drives both
// detection and execution; the store must already be loaded.
func NewModel(deps Deps) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask anything, or describe a task (scan a website, build a persona...)"
	input.CharLimit = 4000
	input.Focus()

	m := Model{
		state:         StateIdle,
		cfg:           deps.Config,
		theme:         theme,
		client:        deps.Client,
		catalog:       deps.Catalog,
		detector:      tools.NewDetector(deps.Catalog),
		executor:      tools.NewExecutor(deps.Catalog, deps.Client),
		store:         deps.Store,
		library:       deps.Library,
		input:         input,
		spin:          components.NewSpinner(theme),
		statusBar:     components.NewStatusBar(theme),
		keyMap:        DefaultKeyMap(),
		showReasoning: deps.Config != nil && deps.Config.UI.ShowReasoning,
	}
	if deps.Config != nil {
		m.statusBar.ModelID = deps.Config.DefaultModel
	}
	return m
}

// Init loads the model inventory in the background.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadModelsCmd(m.client))
}

// Busy reports whether an action is in flight. Input is rejected while
// busy; one action per thread at a time.
func (m Model) Busy() bool {
	return m.state != StateIdle
}

// State returns the current activity state.
func (m Model) State() State {
	return m.state
}

// =============================================================================
// LAYOUT
// =============================================================================

// chromeHeight is the fixed vertical space around the viewport: header,
// input box, and status bar.
const chromeHeight = 7

// SetSize resizes the view and all of its components.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.statusBar.SetWidth(width)
	m.input.Width = width - 6

	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	if m.form != nil {
		m.form.SetWidth(width)
	}
	m.refreshViewport()
}

// =============================================================================
// RENDER STATE
// =============================================================================

// refreshViewport re-renders the active thread into the viewport and
// scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
}

// renderThread renders every message of the active thread.
func (m *Model) renderThread() string {
	thread := m.store.Active()
	if thread == nil || len(thread.Messages) == 0 {
		return m.renderWelcome()
	}

	var parts []string
	for _, msg := range thread.Messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.width)
		bubble.SetShowReasoning(m.showReasoning)
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}

// historyForBackend converts the active thread into the wire format. Tool
// summaries travel as assistant turns like any other reply.
func (m *Model) historyForBackend() []api.ChatMessage {
	thread := m.store.Active()
	if thread == nil {
		return nil
	}
	history := make([]api.ChatMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		history = append(history, api.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return history
}

// appendMessage persists a message to the active thread and re-renders.
func (m *Model) appendMessage(msg *model.Message) {
	id := m.store.ActiveID()
	if id == "" {
		thread, err := m.store.CreateThread()
		if err != nil {
			m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
			return
		}
		id = thread.ID
	}
	if err := m.store.Append(id, msg); err != nil {
		m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
	}
	m.refreshViewport()
}

// appendMessageTo persists a completion message to the thread that issued
// the request. The user may have created or switched threads while the
// call was in flight; the reply still lands in its origin thread. If the
// origin was deleted the message falls back to the active thread.
func (m *Model) appendMessageTo(threadID string, msg *model.Message) {
	if threadID != "" {
		if _, ok := m.store.Get(threadID); ok {
			if err := m.store.Append(threadID, msg); err != nil {
				m.lastError = &ErrorMsg{Title: "Storage error", Message: err.Error()}
			}
			m.refreshViewport()
			return
		}
	}
	m.appendMessage(msg)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brightfold/studio-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full conversation screen.
// Layout: header, viewport, optional spinner line, input box, status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.showThreads {
		return m.renderThreadList()
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	body := m.viewport.View()
	if m.state == StateCollectingParams && m.form != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.form.View())
	}
	sections = append(sections, body)

	if m.spin.Active() {
		sections = append(sections, m.spin.View())
	}
	if m.lastError != nil {
		sections = append(sections, m.renderError())
	}

	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderStatusBar())

	return strings.Join(sections, "\n")
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	name := "Brightfold Studio"
	if thread := m.store.Active(); thread != nil {
		name = thread.Name
	}
	title := m.theme.HeaderTitle.Render(name)
	sub := m.theme.HeaderSubtitle.Render(m.modelID())
	return m.theme.Header.Width(m.width).Render(title + "  " + sub)
}

func (m Model) renderInput() string {
	if m.Busy() {
		return m.theme.InputDisabled.Width(m.width - 2).Render("Waiting for the current request to finish...")
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(
		m.theme.InputPrompt.Render("> ") + m.input.View())
}

func (m Model) renderStatusBar() string {
	if thread := m.store.Active(); thread != nil {
		m.statusBar.ThreadName = thread.Name
	} else {
		m.statusBar.ThreadName = ""
	}
	m.statusBar.ModelID = m.modelID()
	if m.statusText != "" {
		m.statusBar.Activity = m.statusText
	} else {
		m.statusBar.Activity = m.state.String()
	}
	return m.statusBar.View()
}

func (m Model) renderError() string {
	title := m.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + m.lastError.Title)
	detail := m.theme.ErrorMessage.Render(m.lastError.Message)
	return m.theme.ErrorBox.Render(title + "\n" + detail)
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderThreadList() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Threads"))
	sb.WriteString("\n\n")

	if len(m.threadList) == 0 {
		sb.WriteString(m.theme.ThreadMeta.Render("No threads yet. Press Esc and start typing."))
	}
	for i, meta := range m.threadList {
		style := m.theme.ThreadItem
		if i == m.threadIndex {
			style = m.theme.ThreadItemSelected
		}
		line := meta.Name + "  " + m.theme.ThreadMeta.Render(
			strconv.Itoa(meta.MessageCount)+" messages, "+meta.LastUpdated.Format("Jan 2 15:04"))
		sb.WriteString(style.Render(line) + "\n")
		if meta.Preview != "" {
			sb.WriteString(m.theme.ThreadMeta.Render("  "+meta.Preview) + "\n")
		}
	}

	sb.WriteString("\n" + m.theme.ShortcutDesc.Render("enter select, esc close, j/k move"))
	return m.theme.ThreadList.Width(m.width - 2).Render(sb.String())
}

func (m Model) renderHelpOverlay() string {
	rows := []struct{ key, desc string }{
		{"Enter", "send message"},
		{"Esc", "cancel form / close overlay"},
		{"C-n", "new thread"},
		{"C-t", "thread list"},
		{"C-r", "show or hide reasoning"},
		{"PgUp/PgDn", "scroll history"},
		{"C-c", "quit"},
	}
	commands := []struct{ cmd, desc string }{
		{"/new", "start a new thread"},
		{"/threads [query]", "open or search the thread list"},
		{"/rename <name>", "rename the active thread"},
		{"/delete", "delete the active thread"},
		{"/export [json]", "export the thread to a file"},
		{"/models", "list backend models"},
		{"/tools", "list available tools"},
		{"/results", "list saved tool results"},
		{"/save [title]", "save the last code block"},
		{"/copy", "copy the last code block"},
	}

	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Keyboard"))
	sb.WriteString("\n\n")
	for _, r := range rows {
		sb.WriteString(m.theme.ShortcutKey.Render(r.key) + "  " + m.theme.ShortcutDesc.Render(r.desc) + "\n")
	}
	sb.WriteString("\n" + m.theme.HeaderTitle.Render("Commands"))
	sb.WriteString("\n\n")
	for _, c := range commands {
		sb.WriteString(m.theme.ShortcutKey.Render(c.cmd) + "  " + m.theme.ShortcutDesc.Render(c.desc) + "\n")
	}
	sb.WriteString("\n" + m.theme.ShortcutDesc.Render("press any key to close"))

	return m.theme.WelcomeBox.Render(sb.String())
}

func (m Model) renderWelcome() string {
	logo := m.theme.WelcomeLogo.Render("Brightfold Studio")
	info := m.theme.WelcomeInfo.Render(
		"Chat with the studio, or describe a task:\n\n" +
			"  analyze website: https://example.com\n" +
			"  create an executive persona for a CMO in logistics\n" +
			"  build a brand foundation for Acme\n\n" +
			"Type /help for commands.")
	return m.theme.WelcomeBox.Render(logo + "\n\n" + info)
}

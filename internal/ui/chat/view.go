// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
)

const (
	inputRows  = 3 // bordered single line
	statusRows = 1
	tabRows    = 1
)

// =============================================================================
// LAYOUT
// =============================================================================

// columns splits the width between the chat and the editor panel.
func (m *Model) columns() (chatW, editorW int) {
	if !m.EditorVisible() {
		return m.width, 0
	}
	editorW = m.width / 3
	return m.width - editorW, editorW
}

// layout sizes every child for the current window and refreshes the
// transcript.
func (m *Model) layout() {
	w, h := max(20, m.width), max(10, m.height)
	m.theme.SetSize(w, h)

	top := 0
	if m.rain != nil {
		m.rain.SetSize(w, rainBandHeight)
		top += rainBandHeight
	}
	m.header.SetWidth(w)
	top += m.header.Height()

	chatW, editorW := m.columns()
	m.status.SetWidth(w)
	m.upload.SetWidth(chatW - 2)
	m.input.Width = max(10, chatW-lipgloss.Width(m.buttons())-8)

	bottom := inputRows + statusRows
	if m.showUpload {
		bottom += lipgloss.Height(m.upload.View(m.session.PendingFiles))
	}

	m.viewport.Width = chatW
	m.viewport.Height = max(3, h-top-bottom)

	if editorW > 0 {
		panelH := max(4, h-top-statusRows-2-tabRows)
		m.editor.SetSize(editorW-2, panelH)
		m.output.SetSize(editorW-2, panelH)
	}

	m.updateStatus()
	m.refresh()
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) updateStatus() {
	s := m.status
	switch {
	case m.session.IsLoading && m.sendingFiles:
		s.Status = components.StatusIngesting
	case m.session.IsLoading:
		s.Status = components.StatusThinking
	case m.speech.State() == components.SpeechListening:
		s.Status = components.StatusListening
	default:
		s.Status = components.StatusReady
	}
	s.Pending = len(m.session.PendingFiles)
	s.Focus = "focus: " + m.focus.String()

	hints := helpLine(m.keys.ShortHelp())
	if m.focus == FocusEditor {
		hints = m.activeEditor().HelpLine()
	}
	s.Hints = hints
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *Model) renderMessages(width int) string {
	blocks := make([]string, 0, len(m.views)+1)
	for i, v := range m.views {
		v.SetLatest(m.session.IsLatestReply(i))
		blocks = append(blocks, v.View(width-1))
	}
	if m.session.IsLoading {
		blocks = append(blocks, m.theme.LoadingBubble.Render(m.loading.View()))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) buttons() string {
	t := m.theme
	attach := t.Button
	if m.showUpload {
		attach = t.ButtonActive
	}
	send := t.Button
	if !m.session.CanSend() {
		send = t.ButtonDisabled
	}
	mic := m.speech.View()
	if m.session.IsLoading {
		mic = t.ButtonDisabled.Render("mic")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		attach.Render("attach"), " ", mic, " ", send.Render("send"))
}

func (m Model) renderInput(width int) string {
	box := m.theme.InputBox
	if m.focus != FocusInput {
		box = box.BorderForeground(m.theme.Muted.GetForeground())
	}
	if m.session.IsLoading {
		box = m.theme.InputDisabled
	}
	buttons := m.buttons()
	field := box.Width(max(10, width-lipgloss.Width(buttons)-3)).Render(m.input.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", buttons)
}

func (m Model) renderEditorPanel(width, height int) string {
	t := m.theme
	editorTab, outputTab := t.TabInactive, t.TabInactive
	if m.tab == TabOutput {
		outputTab = t.TabActive
	} else {
		editorTab = t.TabActive
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Bottom, editorTab.Render("Editor"), outputTab.Render("Output"))

	panel := t.Panel
	if m.focus == FocusEditor {
		panel = t.PanelFocused
	}
	body := lipgloss.JoinVertical(lipgloss.Left, tabs, m.activeEditor().View())
	return panel.Width(width - 2).Height(max(1, height-2)).Render(body)
}

// View renders the whole chat screen.
func (m Model) View() string {
	chatW, editorW := m.columns()

	var top []string
	if m.rain != nil {
		top = append(top, m.rain.View())
	}
	top = append(top, m.header.View())

	left := []string{m.viewport.View()}
	if m.showUpload {
		left = append(left, m.upload.View(m.session.PendingFiles))
	}
	left = append(left, m.renderInput(chatW))
	chatCol := lipgloss.NewStyle().Width(chatW).Render(lipgloss.JoinVertical(lipgloss.Left, left...))

	middle := chatCol
	if editorW > 0 {
		middle = lipgloss.JoinHorizontal(lipgloss.Top, chatCol,
			m.renderEditorPanel(editorW, lipgloss.Height(chatCol)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(top, "\n"),
		middle,
		m.status.View(),
	)
}

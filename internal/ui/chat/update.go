// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
	"github.com/Hughclaw18/redpill-interface/internal/upload"
)

// Update handles all chat messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.layout()
		return m, cmd

	case components.DecodeTickMsg:
		for _, v := range m.views {
			if cmd, changed := v.Update(msg); changed {
				cmds = append(cmds, cmd)
				m.refresh()
				break
			}
		}
		return m, tea.Batch(cmds...)

	case components.RainTickMsg:
		if m.rain != nil {
			return m, m.rain.Update(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.IsLoading {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}
		cmds = append(cmds, m.speech.Update(msg))
		return m, tea.Batch(cmds...)

	case SendResultMsg:
		cmd := m.handleSendResult(msg)
		m.layout()
		return m, cmd

	case components.FilesAddedMsg:
		m.session.AddPendingFiles(msg.Files...)
		m.layout()
		return m, nil

	case components.FileRemovedMsg:
		m.session.RemovePendingFile(msg.Index)
		m.layout()
		return m, nil

	case components.DropMsg:
		m.showUpload = true
		cmds = append(cmds,
			m.upload.Update(msg, m.session.PendingFiles),
			components.WaitForDrop(m.watcher),
		)
		m.layout()
		return m, tea.Batch(cmds...)

	case components.TranscriptMsg:
		m.session.InputText = m.input.Value()
		m.session.AppendTranscript(msg.Text)
		m.input.SetValue(m.session.InputText)
		m.input.CursorEnd()
		m.layout()
		return m, nil
	}

	// Everything else belongs to a child: speech results, validation
	// results, file picker reads, cursor blinks.
	cmds = append(cmds,
		m.speech.Update(msg),
		m.upload.Update(msg, m.session.PendingFiles),
	)
	if m.focus == FocusEditor {
		cmds = append(cmds, m.activeEditor().Update(msg))
	} else {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.layout()
	return m, tea.Batch(cmds...)
}

func (m *Model) activeEditor() *components.EditorModel {
	if m.tab == TabOutput {
		return m.output
	}
	return m.editor
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.FocusNext):
		return m.cycleFocus()

	case key.Matches(msg, m.keys.Attach):
		m.showUpload = !m.showUpload
		if m.showUpload {
			return m.setFocus(FocusUpload)
		}
		return m.setFocus(FocusInput)

	case key.Matches(msg, m.keys.Mic):
		if m.session.IsLoading {
			return nil
		}
		return m.speech.Toggle()

	case key.Matches(msg, m.keys.ToggleEditor):
		m.showEditor = !m.showEditor
		if !m.showEditor && m.focus == FocusEditor {
			return m.setFocus(FocusInput)
		}
		return nil

	case key.Matches(msg, m.keys.EditorTab):
		return m.setTab(TabEditor)

	case key.Matches(msg, m.keys.OutputTab):
		return m.setTab(TabOutput)

	case key.Matches(msg, m.keys.SkipDecode):
		for _, v := range m.views {
			v.Skip()
		}
		return nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		m.follow = m.viewport.AtBottom()
		return nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		m.follow = m.viewport.AtBottom()
		return nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = false
		return nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true
		return nil
	}

	switch m.focus {
	case FocusUpload:
		return m.upload.Update(msg, m.session.PendingFiles)
	case FocusEditor:
		return m.activeEditor().Update(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	// Dropping files onto the terminal pastes their paths.
	if msg.Paste && upload.LooksLikePaths(string(msg.Runes)) {
		m.showUpload = true
		return m.upload.Update(msg, m.session.PendingFiles)
	}

	if m.session.IsLoading {
		return nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.InputText = m.input.Value()
	return cmd
}

func (m *Model) cycleFocus() tea.Cmd {
	next := m.focus
	for i := 0; i < 3; i++ {
		next = (next + 1) % 3
		if next == FocusUpload && !m.showUpload {
			continue
		}
		if next == FocusEditor && !m.EditorVisible() {
			continue
		}
		break
	}
	return m.setFocus(next)
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.input.Blur()
	m.upload.Blur()
	m.editor.Blur()
	m.output.Blur()

	switch f {
	case FocusUpload:
		return m.upload.Focus()
	case FocusEditor:
		return m.activeEditor().Focus()
	default:
		return m.input.Focus()
	}
}

func (m *Model) setTab(t Tab) tea.Cmd {
	m.tab = t
	if m.focus == FocusEditor {
		return m.setFocus(FocusEditor)
	}
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// send starts the pipeline for the current input and pending files. Blank
// input with nothing attached is ignored.
func (m *Model) send() tea.Cmd {
	m.session.InputText = m.input.Value()
	out, ok := m.session.BeginSend()
	if !ok {
		return nil
	}
	m.input.Reset()

	sent := m.session.Messages[len(m.session.Messages)-1]
	m.views = append(m.views, components.NewMessageView(sent, m.theme, m.cfg.UI.DecodeInterval()))
	m.follow = true
	m.sendingFiles = out.HasFiles()
	log.Printf("Sending message (%d file(s))", len(out.Files))

	return tea.Batch(
		SendPipeline(m.sending.begin(), m.backend, out),
		m.loading.Tick,
	)
}

// handleSendResult applies a pipeline result. Loading always ends here.
func (m *Model) handleSendResult(res SendResultMsg) tea.Cmd {
	var cmds []tea.Cmd

	if res.HadFiles {
		if res.IngestErr != nil {
			cmds = append(cmds, components.ShowToast(components.ToastKindError, IngestFailedText))
		} else {
			cmds = append(cmds, components.ShowToast(components.ToastKindSuccess, IngestSuccessText))
		}
	}

	if res.ChatAttempted() {
		if res.ChatErr != nil {
			cmds = append(cmds, components.ShowToast(components.ToastKindError, ChatFailedText))
		} else {
			reply := m.session.ApplyReply(res.Reply)
			v := components.NewMessageView(reply, m.theme, m.cfg.UI.DecodeInterval())
			m.views = append(m.views, v)
			cmds = append(cmds, v.Init())
			m.syncOutput()
			m.follow = true
		}
	}

	m.sending.abort()
	m.sendingFiles = false
	m.session.Finish()
	return tea.Batch(cmds...)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hughclaw18/redpill-interface/internal/config"
	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/speech"
	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/upload"
)

// =============================================================================
// FOCUS AND TABS
// =============================================================================

// Focus is the area receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusUpload
	FocusEditor
)

func (f Focus) String() string {
	switch f {
	case FocusUpload:
		return "files"
	case FocusEditor:
		return "editor"
	default:
		return "input"
	}
}

// Tab selects the editor panel page.
type Tab int

const (
	TabEditor Tab = iota
	TabOutput
)

// rainBandHeight is the rain strip above the header.
const rainBandHeight = 2

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	session *model.Session
	backend Backend
	cfg     *config.Config
	theme   *styles.Theme
	keys    KeyMap

	width  int
	height int

	header   *components.Header
	status   *components.StatusBar
	rain     *components.Rain
	viewport viewport.Model
	input    textinput.Model
	loading  spinner.Model
	views    []*components.MessageView

	upload     *components.FileUploadModel
	showUpload bool
	watcher    *upload.DropWatcher

	speech *components.SpeechModel

	editor     *components.EditorModel
	output     *components.EditorModel
	tab        Tab
	showEditor bool

	focus  Focus
	follow bool

	sending      *inflight
	sendingFiles bool
}

// New creates the chat view. A nil provider disables speech input.
func New(theme *styles.Theme, cfg *config.Config, b Backend, provider speech.Provider) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = styles.BouncingDots
	sp.Style = theme.Cursor

	m := Model{
		session:    model.NewSession(),
		backend:    b,
		cfg:        cfg,
		theme:      theme,
		keys:       DefaultKeyMap(),
		width:      80,
		height:     24,
		header:     components.NewHeader(theme),
		status:     components.NewStatusBar(theme),
		viewport:   viewport.New(80, 10),
		input:      ti,
		loading:    sp,
		upload:     components.NewFileUploadModel(theme, cfg.Upload.MaxFileSize, cfg.Upload.DropDir),
		speech:     components.NewSpeechModel(provider, theme),
		editor:     components.NewEditorModel(theme, cfg.Editor.SavePath(), false),
		output:     components.NewEditorModel(theme, cfg.Editor.SavePath(), true),
		showEditor: true,
		follow:     true,
		sending:    newInflight(),
	}
	if cfg.UI.Rain {
		m.rain = components.NewRain(cfg.UI.RainInterval())
	}
	m.status.Backend = cfg.Backend.URL

	for _, msg := range m.session.Messages {
		m.views = append(m.views, components.NewMessageView(msg, theme, cfg.UI.DecodeInterval()))
	}
	m.syncOutput()
	m.layout()
	return m
}

// WithDropWatcher attaches a drop directory watcher. Its batches arrive as
// components.DropMsg.
func (m Model) WithDropWatcher(w *upload.DropWatcher) Model {
	m.watcher = w
	return m
}

// Init starts the greeting reveal, the rain band and the drop watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	for _, v := range m.views {
		cmds = append(cmds, v.Init())
	}
	if m.rain != nil {
		cmds = append(cmds, m.rain.Start())
	}
	cmds = append(cmds, components.WaitForDrop(m.watcher))
	return tea.Batch(cmds...)
}

// Session exposes the chat state.
func (m Model) Session() *model.Session { return m.session }

// Focus returns the focused area.
func (m Model) Focus() Focus { return m.focus }

// ActiveTab returns the editor panel page.
func (m Model) ActiveTab() Tab { return m.tab }

// UploadVisible reports whether the attach panel is open.
func (m Model) UploadVisible() bool { return m.showUpload }

// EditorVisible reports whether the editor panel is shown.
func (m Model) EditorVisible() bool {
	return m.showEditor && m.width >= 80
}

// OutputText returns what the Output tab shows.
func (m Model) OutputText() string { return m.output.Content() }

// Shutdown stops timers and background work. Safe to call more than once.
func (m Model) Shutdown() {
	m.sending.abort()
	if m.rain != nil {
		m.rain.Stop()
	}
	for _, v := range m.views {
		v.Stop()
	}
	if m.speech.State() == components.SpeechListening {
		m.speech.Stop()
	}
}

// syncOutput points the Output tab at the newest reply.
func (m *Model) syncOutput() {
	text, ok := m.session.LastAssistantText()
	if !ok {
		text = NoResponseText
	}
	m.output.SetContent(text)
}

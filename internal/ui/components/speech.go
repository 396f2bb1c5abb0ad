// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hughclaw18/redpill-interface/internal/speech"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// Speech toast copy.
const (
	SpeechStarted     = "Speech recognition started"
	SpeechUnsupported = "Speech recognition not supported"
	SpeechErrorPrefix = "Speech recognition error: "
)

// SpeechState is Idle or Listening.
type SpeechState int

const (
	SpeechIdle SpeechState = iota
	SpeechListening
)

func (s SpeechState) String() string {
	if s == SpeechListening {
		return "listening"
	}
	return "idle"
}

// TranscriptMsg carries one final recognised segment.
type TranscriptMsg struct {
	Text string
}

type speechStartedMsg struct {
	gen int
	rec speech.Recognition
	err error
}

type speechEventMsg struct {
	gen    int
	ev     speech.Event
	closed bool
}

// =============================================================================
// SPEECH TO TEXT
// =============================================================================

// SpeechModel drives a speech provider. Only final segments leave the
// component, as TranscriptMsg.
type SpeechModel struct {
	provider speech.Provider
	state    SpeechState
	gen      int
	rec      speech.Recognition
	cancel   context.CancelFunc
	interim  string
	spinner  spinner.Model
	theme    *styles.Theme
}

// NewSpeechModel wraps a resolved provider.
func NewSpeechModel(p speech.Provider, theme *styles.Theme) *SpeechModel {
	if p == nil {
		p = speech.Unsupported{}
	}
	sp := spinner.New()
	sp.Spinner = styles.MicPulse
	sp.Style = theme.ErrorStyle
	return &SpeechModel{provider: p, spinner: sp, theme: theme}
}

// Supported reports whether the provider can listen at all.
func (m *SpeechModel) Supported() bool { return m.provider.Supported() }

// State returns Idle or Listening.
func (m *SpeechModel) State() SpeechState { return m.state }

// Interim returns the latest non-final text while listening.
func (m *SpeechModel) Interim() string { return m.interim }

// Toggle starts listening when idle and stops when listening.
func (m *SpeechModel) Toggle() tea.Cmd {
	if m.state == SpeechListening {
		m.Stop()
		return nil
	}
	return m.Start()
}

// Start begins a recognition. An unsupported provider only raises a toast.
func (m *SpeechModel) Start() tea.Cmd {
	if !m.provider.Supported() {
		return ShowToast(ToastKindError, SpeechUnsupported)
	}
	if m.state == SpeechListening {
		return nil
	}

	m.gen++
	m.state = SpeechListening
	m.interim = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	p, gen := m.provider, m.gen
	start := func() tea.Msg {
		rec, err := p.Start(ctx)
		return speechStartedMsg{gen: gen, rec: rec, err: err}
	}
	return tea.Batch(start, m.spinner.Tick)
}

// Stop ends the recognition and returns to Idle.
func (m *SpeechModel) Stop() {
	m.gen++
	if m.rec != nil {
		if err := m.rec.Stop(); err != nil {
			log.Printf("Speech stop: %v", err)
		}
		m.rec = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.state = SpeechIdle
	m.interim = ""
}

func waitSpeechEvent(rec speech.Recognition, gen int) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-rec.Events()
		if !ok {
			return speechEventMsg{gen: gen, closed: true}
		}
		return speechEventMsg{gen: gen, ev: ev}
	}
}

// Update handles recognition results and the listening animation.
func (m *SpeechModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case speechStartedMsg:
		if msg.gen != m.gen {
			// Stopped before the engine came up.
			if msg.rec != nil {
				msg.rec.Stop()
			}
			return nil
		}
		if msg.err != nil {
			m.Stop()
			return ShowToast(ToastKindError, SpeechErrorPrefix+msg.err.Error())
		}
		m.rec = msg.rec
		log.Printf("Speech recognition started (%s)", m.provider.Name())
		return tea.Batch(
			ShowToast(ToastKindStatus, SpeechStarted),
			waitSpeechEvent(msg.rec, msg.gen),
		)

	case speechEventMsg:
		if msg.gen != m.gen {
			return nil
		}
		if msg.closed {
			m.rec = nil
			m.Stop()
			return nil
		}
		if msg.ev.Err != nil {
			m.Stop()
			return ShowToast(ToastKindError, SpeechErrorPrefix+msg.ev.Err.Error())
		}
		next := waitSpeechEvent(m.rec, msg.gen)
		if !msg.ev.Final {
			m.interim = msg.ev.Transcript
			return next
		}
		m.interim = ""
		if msg.ev.Transcript == "" {
			return next
		}
		text := msg.ev.Transcript
		return tea.Batch(next, func() tea.Msg { return TranscriptMsg{Text: text} })

	case spinner.TickMsg:
		if m.state != SpeechListening {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// View renders the microphone affordance.
func (m *SpeechModel) View() string {
	t := m.theme
	switch {
	case !m.provider.Supported():
		return t.ButtonDisabled.Render("mic off")
	case m.state == SpeechListening:
		label := m.spinner.View() + " listening"
		if m.interim != "" {
			label += " " + t.Muted.Render(m.interim)
		}
		return t.ButtonActive.Render(label)
	default:
		return t.Button.Render("mic")
	}
}

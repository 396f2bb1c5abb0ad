// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// Splash copy.
const (
	LoginTitle       = "THE MATRIX"
	LoginWelcome     = "Neo... we've been waiting for you."
	LoginWarning     = "This is your last chance. After this, there is no going back."
	LoginEnterButton = "Enter the Matrix"
	LoginSpeaker     = "MORPHEUS"
	LoginBlueLine    = "You take the blue pill - the story ends, you wake up in your bed and believe whatever you want to believe."
	LoginRedLine     = "You take the red pill - you stay in Wonderland, and I show you how deep the rabbit hole goes."
	LoginBlueLabel   = "Blue Pill"
	LoginRedLabel    = "Red Pill"
	LoginRedOutcome  = "Welcome to the real world, Neo..."
	LoginBlueOutcome = "Goodbye, Mr. Anderson..."
)

// LoginStage is where the splash is in its sequence.
type LoginStage int

const (
	LoginStageIntro LoginStage = iota
	LoginStageChoice
	LoginStageOutcome
)

// Pill is a choice on the splash.
type Pill int

const (
	PillNone Pill = iota
	PillBlue
	PillRed
)

// LoginMsg is emitted once the red pill has been taken.
type LoginMsg struct{}

// loginDoneMsg fires after the outcome has been shown for a while.
type loginDoneMsg struct {
	id   int
	gen  int
	pill Pill
}

// =============================================================================
// LOGIN SPLASH
// =============================================================================

// LoginModel is the red pill / blue pill gate shown before the chat.
type LoginModel struct {
	id      int
	gen     int
	stage   LoginStage
	focus   Pill
	chosen  Pill
	delay   time.Duration
	outcome *DecodingText
	theme   *styles.Theme
}

// NewLoginModel creates the splash at its intro stage.
func NewLoginModel(theme *styles.Theme) *LoginModel {
	return &LoginModel{
		id:    nextComponentID(),
		stage: LoginStageIntro,
		focus: PillRed,
		delay: styles.LoginTransitionDelay,
		theme: theme,
	}
}

// Stage returns the current stage.
func (m *LoginModel) Stage() LoginStage { return m.stage }

// Focus returns the highlighted pill.
func (m *LoginModel) Focus() Pill { return m.focus }

// Chosen returns the selected pill, PillNone until a choice is made.
func (m *LoginModel) Chosen() Pill { return m.chosen }

// Reset returns to the intro. Pending transitions are dropped.
func (m *LoginModel) Reset() {
	m.gen++
	m.stage = LoginStageIntro
	m.focus = PillRed
	m.chosen = PillNone
	if m.outcome != nil {
		m.outcome.Stop()
		m.outcome = nil
	}
}

// Choose takes a pill. It is ignored outside the choice stage, so the pills
// are inert once one has been picked.
func (m *LoginModel) Choose(p Pill) tea.Cmd {
	if m.stage != LoginStageChoice || p == PillNone {
		return nil
	}
	m.chosen = p
	m.stage = LoginStageOutcome

	text := LoginBlueOutcome
	if p == PillRed {
		text = LoginRedOutcome
	}
	m.outcome = NewDecodingText(text, styles.DecodeIntervalDefault)

	id, gen := m.id, m.gen
	done := tea.Tick(m.delay, func(time.Time) tea.Msg {
		return loginDoneMsg{id: id, gen: gen, pill: p}
	})
	return tea.Batch(m.outcome.Init(), done)
}

// Update handles keys and the transition timer.
func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case DecodeTickMsg:
		if m.outcome != nil {
			return m.outcome.Update(msg)
		}

	case loginDoneMsg:
		if msg.id != m.id || msg.gen != m.gen {
			return nil
		}
		if msg.pill == PillRed {
			return func() tea.Msg { return LoginMsg{} }
		}
		m.Reset()
	}
	return nil
}

func (m *LoginModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.stage {
	case LoginStageIntro:
		switch msg.String() {
		case "enter", " ":
			m.stage = LoginStageChoice
		}

	case LoginStageChoice:
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.focus = PillBlue
		case "right", "l", "tab":
			m.focus = PillRed
		case "b":
			return m.Choose(PillBlue)
		case "r":
			return m.Choose(PillRed)
		case "enter", " ":
			return m.Choose(m.focus)
		case "esc":
			m.stage = LoginStageIntro
		}
	}
	return nil
}

// View renders the splash panel. The caller centers it over the rain.
func (m *LoginModel) View() string {
	t := m.theme
	var body string

	switch m.stage {
	case LoginStageIntro:
		body = lipgloss.JoinVertical(lipgloss.Center,
			t.LoginTitle.Render(LoginTitle),
			"",
			t.LoginText.Render(LoginWelcome),
			t.LoginText.Render(LoginWarning),
			"",
			t.ButtonActive.Render(LoginEnterButton),
			t.KeyHint.Render("enter to continue"),
		)

	default:
		lines := []string{
			t.LoginSpeaker.Render(LoginSpeaker),
			"",
			t.LoginText.Width(60).Render(LoginBlueLine),
			"",
			t.LoginText.Width(60).Render(LoginRedLine),
			"",
			m.renderPills(),
		}
		if m.stage == LoginStageOutcome && m.outcome != nil {
			style := t.LoginText
			if m.chosen == PillRed {
				style = t.ErrorStyle
			} else {
				style = style.Foreground(styles.Azure)
			}
			lines = append(lines, "", style.Render(m.outcome.View()))
		} else {
			lines = append(lines, t.KeyHint.Render("←/→ choose · enter take · b blue · r red"))
		}
		body = lipgloss.JoinVertical(lipgloss.Center, lines...)
	}

	return t.Panel.
		Background(styles.Surface).
		Padding(1, 3).
		Render(body)
}

func (m *LoginModel) renderPills() string {
	t := m.theme
	blue, red := t.PillBlue, t.PillRed

	switch {
	case m.stage == LoginStageOutcome:
		blue = t.ButtonDisabled
		red = t.ButtonDisabled
		if m.chosen == PillBlue {
			blue = t.PillBlue.Inherit(t.PillFocused)
		} else {
			red = t.PillRed.Inherit(t.PillFocused)
		}
	case m.focus == PillBlue:
		blue = blue.BorderStyle(lipgloss.DoubleBorder()).Bold(true)
	default:
		red = red.BorderStyle(lipgloss.DoubleBorder()).Bold(true)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		blue.Render(LoginBlueLabel),
		"   ",
		red.Render(LoginRedLabel),
	)
}

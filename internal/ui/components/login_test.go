// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestLoginIntroToChoice(t *testing.T) {
	m := NewLoginModel(testTheme)
	if m.Stage() != LoginStageIntro {
		t.Fatal("login should start at the intro")
	}
	view := m.View()
	for _, want := range []string{LoginTitle, LoginWelcome, LoginEnterButton} {
		if !strings.Contains(view, want) {
			t.Errorf("intro missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Stage() != LoginStageChoice {
		t.Fatal("enter should show the choice")
	}
	if !strings.Contains(m.View(), LoginSpeaker) {
		t.Error("choice should show the speaker")
	}
}

func TestLoginFocusMoves(t *testing.T) {
	m := NewLoginModel(testTheme)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.Focus() != PillBlue {
		t.Error("left should focus the blue pill")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Focus() != PillRed {
		t.Error("right should focus the red pill")
	}
}

func TestLoginRedPillEmitsLogin(t *testing.T) {
	m := NewLoginModel(testTheme)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd := m.Update(runeKey('r')); cmd == nil {
		t.Fatal("choosing should schedule the transition")
	}
	if m.Chosen() != PillRed || m.Stage() != LoginStageOutcome {
		t.Fatalf("expected red outcome, got pill %d stage %d", m.Chosen(), m.Stage())
	}

	// pills are inert after a choice
	m.Update(runeKey('b'))
	if m.Chosen() != PillRed {
		t.Error("second choice should be ignored")
	}

	m.outcome.Finish()
	if !strings.Contains(m.View(), LoginRedOutcome) {
		t.Error("outcome text missing")
	}

	cmd := m.Update(loginDoneMsg{id: m.id, gen: m.gen, pill: PillRed})
	if cmd == nil {
		t.Fatal("red pill should emit LoginMsg")
	}
	if _, ok := cmd().(LoginMsg); !ok {
		t.Error("expected LoginMsg")
	}
}

func TestLoginBluePillResets(t *testing.T) {
	m := NewLoginModel(testTheme)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.Chosen() != PillBlue {
		t.Fatal("enter should take the focused blue pill")
	}
	m.outcome.Finish()
	if !strings.Contains(m.View(), LoginBlueOutcome) {
		t.Error("blue outcome text missing")
	}

	if cmd := m.Update(loginDoneMsg{id: m.id, gen: m.gen, pill: PillBlue}); cmd != nil {
		t.Error("blue pill should not log in")
	}
	if m.Stage() != LoginStageIntro || m.Chosen() != PillNone {
		t.Error("blue pill should reset the splash")
	}
}

func TestLoginStaleTransitionIgnored(t *testing.T) {
	m := NewLoginModel(testTheme)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runeKey('r'))
	stale := loginDoneMsg{id: m.id, gen: m.gen, pill: PillRed}
	m.Reset()

	if cmd := m.Update(stale); cmd != nil {
		t.Error("transition scheduled before Reset should be dropped")
	}
}

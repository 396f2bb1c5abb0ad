// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the chat view bindings. Editor formatting keys live on the
// editor itself.
type KeyMap struct {
	Submit       key.Binding
	FocusNext    key.Binding
	Attach       key.Binding
	Mic          key.Binding
	ToggleEditor key.Binding
	EditorTab    key.Binding
	OutputTab    key.Binding
	SkipDecode   key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Top          key.Binding
	Bottom       key.Binding
}

// DefaultKeyMap returns the default chat bindings. Alt chords are used so
// they never collide with typing.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Attach: key.NewBinding(
			key.WithKeys("alt+a"),
			key.WithHelp("M-a", "attach"),
		),
		Mic: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("M-s", "mic"),
		),
		ToggleEditor: key.NewBinding(
			key.WithKeys("alt+e"),
			key.WithHelp("M-e", "editor panel"),
		),
		EditorTab: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("M-1", "editor tab"),
		),
		OutputTab: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("M-2", "output tab"),
		),
		SkipDecode: key.NewBinding(
			key.WithKeys("alt+k"),
			key.WithHelp("M-k", "skip animation"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("alt+home"),
			key.WithHelp("M-Home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("alt+end"),
			key.WithHelp("M-End", "bottom"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusNext, k.Attach, k.Mic, k.ToggleEditor, k.OutputTab}
}

// FullHelp groups every binding.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.FocusNext, k.Attach, k.Mic},
		{k.ToggleEditor, k.EditorTab, k.OutputTab, k.SkipDecode},
		{k.PageUp, k.PageDown, k.Top, k.Bottom},
	}
}

// helpLine renders bindings as "key desc" pairs.
func helpLine(bindings []key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " · "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}

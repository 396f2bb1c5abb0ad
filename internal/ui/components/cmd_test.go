// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

var testTheme = styles.NewTheme("dark")

// drain runs cmd and any batched children, returning the messages that
// arrive quickly. Commands that block (long ticks, channel waits) are
// abandoned.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func toastsIn(msgs []tea.Msg) []ToastMsg {
	var out []ToastMsg
	for _, m := range msgs {
		if t, ok := m.(ToastMsg); ok {
			out = append(out, t)
		}
	}
	return out
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is what the chat is doing right now.
type Status int

const (
	StatusReady Status = iota
	StatusIngesting
	StatusThinking
	StatusListening
)

func (s Status) String() string {
	switch s {
	case StatusIngesting:
		return "Uploading"
	case StatusThinking:
		return "Consulting the Oracle"
	case StatusListening:
		return "Listening"
	default:
		return "Ready"
	}
}

// Icon returns a short marker for narrow layouts.
func (s Status) Icon() string {
	switch s {
	case StatusIngesting:
		return "^"
	case StatusThinking:
		return styles.StatusIndicators.Active
	case StatusListening:
		return "*"
	default:
		return styles.StatusIndicators.Success
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the line under the chat input.
type StatusBar struct {
	Status  Status
	Backend string
	Pending int
	Focus   string
	Hints   string
	Width   int
	theme   *styles.Theme
}

// NewStatusBar creates a status bar in the Ready state.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Status: StatusReady, Width: 80, theme: theme}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusIngesting, StatusThinking:
		return s.theme.WarningStyle
	case StatusListening:
		return s.theme.ErrorStyle
	default:
		return s.theme.SuccessStyle
	}
}

// View picks a layout for the current width.
func (s *StatusBar) View() string {
	bar := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Background(styles.SurfaceDim).
		Width(max(1, s.Width))

	switch {
	case s.Width < 60:
		return bar.Render(s.viewNarrow())
	case s.Width < 100:
		return bar.Render(s.viewMedium())
	default:
		return bar.Render(s.viewWide())
	}
}

func (s *StatusBar) pendingLabel() string {
	if s.Pending == 0 {
		return ""
	}
	return fmt.Sprintf("%d file(s) attached", s.Pending)
}

// viewNarrow: icon and attachment count.
func (s *StatusBar) viewNarrow() string {
	left := s.statusStyle().Render(s.Status.Icon())
	if s.Pending > 0 {
		left += fmt.Sprintf(" [%d]", s.Pending)
	}
	return truncateStyled(left, s.Width)
}

// viewMedium: status and attachments, focus on the right.
func (s *StatusBar) viewMedium() string {
	left := joinNonEmpty(" | ",
		s.statusStyle().Render(s.Status.String()),
		s.pendingLabel(),
	)
	return padBetween(left, s.Focus, s.Width)
}

// viewWide: everything, with key hints on the right.
func (s *StatusBar) viewWide() string {
	left := joinNonEmpty(" | ",
		s.statusStyle().Render(s.Status.Icon()+" "+s.Status.String()),
		s.Backend,
		s.pendingLabel(),
		s.Focus,
	)
	return padBetween(left, s.theme.KeyHint.Render(s.Hints), s.Width)
}

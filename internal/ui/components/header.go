// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// Header copy.
const (
	HeaderTitle    = "THE ORACLE :: MATRIX INTERFACE"
	HeaderSubtitle = "Neural Link v3.1 - Status: CONNECTED - Path of the One: ACTIVE"
)

// Header is the title bar above the chat.
type Header struct {
	Title    string
	Subtitle string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the default copy.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    HeaderTitle,
		Subtitle: HeaderSubtitle,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Height is the number of rows View produces.
func (h *Header) Height() int {
	if h.Width < 60 {
		return 2
	}
	return 3
}

// View renders the header, dropping the subtitle on narrow terminals.
func (h *Header) View() string {
	t := h.theme
	width := max(20, h.Width)
	inner := width - t.Header.GetHorizontalFrameSize()

	title := t.HeaderTitle.Render(truncateStyled(h.Title, inner))
	if h.Width < 60 {
		return t.Header.Width(width - t.Header.GetHorizontalBorderSize()).Render(title)
	}
	sub := t.HeaderSubtitle.Render(truncateStyled(h.Subtitle, inner))
	return t.Header.Width(width - t.Header.GetHorizontalBorderSize()).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, sub))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for line mode output.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.MatrixGreen)

	// LabelStyle is used for config keys
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(26)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.MatrixGreen).
			Bold(true)

	// OracleStyle labels replies in line mode
	OracleStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(styles.MatrixGreenDim)
)

// RenderSeparator renders a horizontal rule. Default width is 60.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("─", w))
}

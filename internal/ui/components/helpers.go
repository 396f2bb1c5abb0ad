// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// truncateStyled shortens unstyled text to width cells.
func truncateStyled(s string, width int) string {
	return util.TruncateWidth(s, width)
}

// padBetween places left and right at the edges of width. When both do not
// fit, right is dropped.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// MATRIX PALETTE
// =============================================================================

// MatrixGreen - Primary phosphor green for text, borders and glyphs
var MatrixGreen = lipgloss.AdaptiveColor{Light: "#008F11", Dark: "#00FF41"}

// MatrixGreenDim - Secondary green for labels and inactive borders
var MatrixGreenDim = lipgloss.AdaptiveColor{Light: "#00661A", Dark: "#008F11"}

// MatrixGreenDeep - Darkest green, the tail end of a rain trail
var MatrixGreenDeep = lipgloss.AdaptiveColor{Light: "#9ED9A8", Dark: "#003B00"}

// MatrixHead - Near-white green for the leading glyph of a drop
var MatrixHead = lipgloss.AdaptiveColor{Light: "#003B00", Dark: "#D7FFD9"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, the red pill
var Rose = lipgloss.AdaptiveColor{Light: "#C8102E", Dark: "#FF3B3B"}

// Azure - The blue pill
var Azure = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}

// Amber - Warnings
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Emerald - Success toasts
var Emerald = MatrixGreen

// Cyan - Informational toasts
var Cyan = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#5FFFD7"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#F4FFF5", Dark: "#0D0208"}

// SurfaceDim - Panels, bubbles and toasts
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#E3F5E6", Dark: "#06130A"}

// Overlay - Separators and inactive borders
var Overlay = lipgloss.AdaptiveColor{Light: "#B5D9BB", Dark: "#0F3D1A"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#0B3D14", Dark: "#C8FFD0"}

// TextMuted - Hints, timestamps, placeholders
var TextMuted = lipgloss.AdaptiveColor{Light: "#5C7F62", Dark: "#4E8A5A"}

// RainShades fade a trail from the head of a drop to nothing.
var RainShades = []lipgloss.AdaptiveColor{
	MatrixHead,
	MatrixGreen,
	MatrixGreen,
	MatrixGreenDim,
	MatrixGreenDim,
	MatrixGreenDeep,
}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Active  string
}

// StatusIndicators provides ASCII indicators so state never depends on
// color alone.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Active:  "[*]",
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the redpill TUI.

All colors use Lip Gloss AdaptiveColor so the phosphor-green palette stays
readable on light terminals.

# Color System (colors.go)

  - MatrixGreen, MatrixGreenDim, MatrixGreenDeep - text, borders and rain
  - MatrixHead - the bright leading glyph of a falling drop
  - Rose, Azure - the red and blue pills; Rose also marks errors
  - Amber, Emerald, Cyan - warning, success and info toasts

RainShades orders the trail colours from head to tail; Shade maps a cell
age onto it.

# Theme (theme.go)

NewTheme detects the terminal profile with termenv unless the configured
mode forces dark or light, then builds every lipgloss.Style used by the
components. GlamourStyle picks the matching glamour standard style.

# Animations (animations.go)

BouncingDots and MicPulse are bubbles spinner definitions. The timing
constants fix the decode, rain and login transition rates.
*/
package styles

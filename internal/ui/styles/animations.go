// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// LOADING INDICATOR
// =============================================================================

// BouncingDots is the three-dot "Oracle is thinking" animation. Each dot
// rises in turn.
var BouncingDots = spinner.Spinner{
	Frames: []string{"o . .", "O o .", "o O o", ". o O", ". . o", ". . ."},
	FPS:    time.Second / 8,
}

// MicPulse alternates the listening indicator.
var MicPulse = spinner.Spinner{
	Frames: []string{"(*)", "( )"},
	FPS:    time.Second / 2,
}

// =============================================================================
// ANIMATION TIMINGS
// =============================================================================

const (
	// DecodeIntervalChat is the per-character reveal rate for chat bubbles.
	DecodeIntervalChat = 30 * time.Millisecond
	// DecodeIntervalDefault is the reveal rate when none is given.
	DecodeIntervalDefault = 50 * time.Millisecond
	// RainFrameInterval is the background frame rate.
	RainFrameInterval = 35 * time.Millisecond
	// LoginTransitionDelay is how long the pill response lingers.
	LoginTransitionDelay = 2 * time.Second
)

// Shade returns the rain trail colour for a cell age. Ages past the end of
// RainShades are invisible and ok is false.
func Shade(age int) (color lipgloss.AdaptiveColor, ok bool) {
	if age < 0 || age >= len(RainShades) {
		return lipgloss.AdaptiveColor{}, false
	}
	return RainShades[age], true
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	BubbleMeta      lipgloss.Style
	FileChip        lipgloss.Style
	Cursor          lipgloss.Style
	LoadingBubble   lipgloss.Style

	// ==========================================================================
	// INPUT AND CONTROLS
	// ==========================================================================

	InputBox       lipgloss.Style
	InputDisabled  lipgloss.Style
	Button         lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonDisabled lipgloss.Style
	KeyHint        lipgloss.Style

	// ==========================================================================
	// PANELS AND TABS
	// ==========================================================================

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Toolbar      lipgloss.Style

	// ==========================================================================
	// FILE LIST
	// ==========================================================================

	DropZone       lipgloss.Style
	DropZoneActive lipgloss.Style
	FileName       lipgloss.Style
	FileMeta       lipgloss.Style
	FileSelected   lipgloss.Style

	// ==========================================================================
	// LOGIN SPLASH
	// ==========================================================================

	LoginTitle   lipgloss.Style
	LoginText    lipgloss.Style
	LoginSpeaker lipgloss.Style
	PillRed      lipgloss.Style
	PillBlue     lipgloss.Style
	PillFocused  lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	Muted        lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. mode is "auto",
// "dark" or "light"; anything but "dark" or "light" detects the background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(MatrixGreenDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(MatrixGreen)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(Surface).
		Background(MatrixGreen).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MatrixGreenDim).
		Padding(0, 1)

	t.BubbleMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	t.FileChip = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MatrixGreenDim).
		Padding(0, 1)

	t.Cursor = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		Bold(true)

	t.LoadingBubble = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MatrixGreenDim).
		Padding(0, 1)

	// Input and controls
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MatrixGreen).
		Padding(0, 1)

	t.InputDisabled = t.InputBox.
		BorderForeground(Overlay).
		Foreground(TextMuted)

	t.Button = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MatrixGreenDim).
		Padding(0, 1)

	t.ButtonActive = t.Button.
		Foreground(Rose).
		BorderForeground(Rose).
		Bold(true)

	t.ButtonDisabled = t.Button.
		Foreground(TextMuted).
		BorderForeground(Overlay)

	t.KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Panels and tabs
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay)

	t.PanelFocused = t.Panel.
		BorderForeground(MatrixGreen)

	t.TabActive = lipgloss.NewStyle().
		Foreground(Surface).
		Background(MatrixGreen).
		Bold(true).
		Padding(0, 2)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(MatrixGreenDim).
		Padding(0, 2)

	t.Toolbar = lipgloss.NewStyle().
		Foreground(MatrixGreenDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	// File list
	t.DropZone = lipgloss.NewStyle().
		Foreground(MatrixGreen).
		BorderStyle(lipgloss.Border{
			Top: "-", Bottom: "-", Left: "|", Right: "|",
			TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		}).
		BorderForeground(MatrixGreenDim).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.DropZoneActive = t.DropZone.
		BorderForeground(MatrixGreen).
		Bold(true)

	t.FileName = lipgloss.NewStyle().
		Foreground(MatrixGreen)

	t.FileMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FileSelected = lipgloss.NewStyle().
		Foreground(Surface).
		Background(MatrixGreenDim)

	// Login splash
	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(MatrixGreen)

	t.LoginText = lipgloss.NewStyle().
		Foreground(MatrixGreen)

	t.LoginSpeaker = lipgloss.NewStyle().
		Bold(true).
		Foreground(MatrixGreen).
		Underline(true)

	t.PillRed = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 3)

	t.PillBlue = lipgloss.NewStyle().
		Foreground(Azure).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Azure).
		Padding(0, 3)

	t.PillFocused = lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.DoubleBorder())

	// Status
	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	if t.Width < 120 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: editor panel hidden
	LayoutMedium                   // 80-120 columns
	LayoutWide                     // >= 120 columns
)

// GlamourStyle returns the glamour standard style name that matches the
// background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects a toast's color and lifetime.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
	ToastKindWarning
	ToastKindSuccess
)

const (
	DefaultToastDuration = 4 * time.Second
	ErrorToastDuration   = 8 * time.Second
	WarningToastDuration = 6 * time.Second

	// MaxToasts is how many toasts are kept at once. Older ones fall off.
	MaxToasts = 5

	toastTickInterval = 100 * time.Millisecond
)

// Toast is a transient notification shown in the bottom-right corner.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast of kind with the kind's default lifetime.
func NewToast(kind ToastKind, message string) Toast {
	d := DefaultToastDuration
	switch kind {
	case ToastKindError:
		d = ErrorToastDuration
	case ToastKindWarning:
		d = WarningToastDuration
	}
	return Toast{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// Expired reports whether the toast has outlived its duration at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// Remaining returns the time left before the toast is dropped.
func (t Toast) Remaining(now time.Time) time.Duration {
	r := t.Duration - now.Sub(t.CreatedAt)
	if r < 0 {
		return 0
	}
	return r
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts, newest first.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	now    func() time.Time
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, now: time.Now}
}

// Add pushes a toast and returns its ID.
func (m *ToastManager) Add(t Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.now()
	}
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[:MaxToasts]
	}
	return t.ID
}

func (m *ToastManager) Error(msg string) int   { return m.Add(NewToast(ToastKindError, msg)) }
func (m *ToastManager) Warning(msg string) int { return m.Add(NewToast(ToastKindWarning, msg)) }
func (m *ToastManager) Status(msg string) int  { return m.Add(NewToast(ToastKindStatus, msg)) }
func (m *ToastManager) Success(msg string) int { return m.Add(NewToast(ToastKindSuccess, msg)) }

// Dismiss removes the toast with id.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast, if any.
func (m *ToastManager) DismissNewest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return false
	}
	m.toasts = m.toasts[1:]
	return true
}

// Prune drops expired toasts and reports how many remain.
func (m *ToastManager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts)
}

// Toasts returns a copy of the active toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of active toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// Clear drops every toast.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastMsg asks the top-level model to show a toast. Components return it
// from commands so they do not need a manager of their own.
type ToastMsg struct {
	Kind    ToastKind
	Message string
}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// ShowToast returns a command that emits a ToastMsg.
func ShowToast(kind ToastKind, message string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Kind: kind, Message: message}
	}
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

func toastColors(kind ToastKind) (lipgloss.AdaptiveColor, string) {
	switch kind {
	case ToastKindError:
		return styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		return styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		return styles.Emerald, styles.StatusIndicators.Success
	default:
		return styles.Cyan, styles.StatusIndicators.Info
	}
}

// RenderToast renders one toast box sized for a screen of width.
func RenderToast(t Toast, width int, now time.Time) string {
	maxWidth := 56
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	color, icon := toastColors(t.Kind)
	body := wrapWords(t.Message, maxWidth-8)
	content := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon+" ") +
		lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(body)

	if secs := int(t.Remaining(now).Seconds()); secs > 0 {
		content += "\n" + lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true).
			Render("[esc] dismiss  "+strconv.Itoa(secs)+"s")
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(content)
}

// RenderToastStack stacks toasts with the newest at the bottom.
func RenderToastStack(toasts []Toast, width int, now time.Time) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(toasts[i], width, now))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// wrapWords wraps on spaces to the given display width.
func wrapWords(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, w := range words {
		ww := util.StringWidth(w)
		switch {
		case lineWidth == 0:
			line.WriteString(w)
			lineWidth = ww
		case lineWidth+1+ww <= width:
			line.WriteByte(' ')
			line.WriteString(w)
			lineWidth += 1 + ww
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(w)
			lineWidth = ww
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

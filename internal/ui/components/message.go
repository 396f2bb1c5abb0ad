// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// bubbleRatio is the share of the chat width a bubble may take.
const bubbleRatio = 0.8

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageView renders one chat message. Assistant text is revealed through a
// DecodingText; user text is shown as typed.
type MessageView struct {
	Msg     model.Message
	theme   *styles.Theme
	decoder *DecodingText
}

// NewMessageView creates the bubble for msg. interval is the reveal rate for
// assistant text.
func NewMessageView(msg model.Message, theme *styles.Theme, interval time.Duration) *MessageView {
	v := &MessageView{Msg: msg, theme: theme}
	if !msg.IsUser {
		if interval <= 0 {
			interval = styles.DecodeIntervalChat
		}
		v.decoder = NewDecodingText(msg.Text, interval)
	}
	return v
}

// Init starts the reveal for assistant messages.
func (v *MessageView) Init() tea.Cmd {
	if v.decoder == nil {
		return nil
	}
	return v.decoder.Init()
}

// Update forwards decode ticks. It reports whether the view changed.
func (v *MessageView) Update(msg tea.Msg) (tea.Cmd, bool) {
	if v.decoder == nil {
		return nil, false
	}
	tick, ok := msg.(DecodeTickMsg)
	if !ok || tick.ID != v.decoder.ID() {
		return nil, false
	}
	return v.decoder.Update(msg), true
}

// SetLatest marks the bubble as the most recent reply, which keeps a cursor
// after the reveal settles.
func (v *MessageView) SetLatest(latest bool) {
	if v.decoder != nil {
		v.decoder.ShowCursorAfter = latest
	}
}

// Settled reports whether the reveal has finished.
func (v *MessageView) Settled() bool {
	return v.decoder == nil || v.decoder.Settled()
}

// Skip finishes the reveal at once.
func (v *MessageView) Skip() {
	if v.decoder != nil {
		v.decoder.Finish()
	}
}

// Stop drops pending ticks, used when the view is discarded.
func (v *MessageView) Stop() {
	if v.decoder != nil {
		v.decoder.Stop()
	}
}

// View renders the bubble aligned for a chat column of width.
func (v *MessageView) View(width int) string {
	if width <= 0 {
		width = 80
	}
	maxBubble := int(float64(width) * bubbleRatio)
	if maxBubble < 20 {
		maxBubble = width
	}

	t := v.theme
	bubble := t.AssistantBubble
	align := lipgloss.Left
	text := v.Msg.Text
	if v.Msg.IsUser {
		bubble = t.UserBubble
		align = lipgloss.Right
	} else {
		text = v.decoder.View()
	}

	var body strings.Builder
	body.WriteString(t.BubbleMeta.Render(v.Msg.Sender()))
	body.WriteByte('\n')
	body.WriteString(text)
	if chips := v.renderChips(maxBubble - 4); chips != "" {
		body.WriteByte('\n')
		body.WriteString(chips)
	}

	// Shrink short messages; wrap long ones.
	inner := lipgloss.Width(body.String())
	frame := bubble.GetHorizontalFrameSize()
	if inner+frame > maxBubble {
		bubble = bubble.Width(maxBubble - bubble.GetHorizontalBorderSize())
	}

	rendered := lipgloss.JoinVertical(align,
		bubble.Render(body.String()),
		t.BubbleMeta.Render(v.Msg.TimeString()),
	)
	return lipgloss.PlaceHorizontal(width, align, rendered)
}

func (v *MessageView) renderChips(width int) string {
	if len(v.Msg.Files) == 0 {
		return ""
	}
	chips := make([]string, 0, len(v.Msg.Files))
	for _, f := range v.Msg.Files {
		chips = append(chips, FileChipLabel(f, width))
	}
	return strings.Join(chips, "\n")
}

// FileChipLabel is the one-line label for an attached file.
func FileChipLabel(f model.FileRef, width int) string {
	size := " (" + util.FormatKB(f.Size) + ")"
	name := f.Name
	if width > 0 {
		name = util.TruncateWidth(name, width-util.StringWidth(size)-3)
	}
	return "📎 " + name + size
}

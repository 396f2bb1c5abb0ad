// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// DecodeGlyphs are substituted for characters that have not been revealed.
const DecodeGlyphs = "ﾊﾐﾋｰｳｼﾅﾓﾆｻﾜﾂｵﾘｱﾎﾃﾏｹﾒｴｶｷﾑﾕﾗｾﾈｽﾀﾇﾍ0123456789@#$%^&*"

// decodeLookahead is how many positions, counting the revealed one, a tick
// paints. Everything past it stays blank.
const decodeLookahead = 10

var decodeGlyphRunes = []rune(DecodeGlyphs)

// componentIDs tags timer messages with their owner.
var componentIDs atomic.Int64

func nextComponentID() int {
	return int(componentIDs.Add(1))
}

// =============================================================================
// DECODING TEXT
// =============================================================================

// DecodePhase is the state of a DecodingText.
type DecodePhase int

const (
	// DecodePhaseDecoding reveals one character per tick.
	DecodePhaseDecoding DecodePhase = iota
	// DecodePhaseSettled shows exactly the target text.
	DecodePhaseSettled
)

// DecodeTickMsg advances the DecodingText with the matching ID. Gen drops
// ticks scheduled before a restart or Stop.
type DecodeTickMsg struct {
	ID  int
	Gen int
}

// DecodingText reveals its target one character per tick, painting random
// glyphs ahead of the reveal point. Spaces and newlines are never replaced.
type DecodingText struct {
	id       int
	gen      int
	target   []rune
	index    int
	display  string
	phase    DecodePhase
	interval time.Duration
	rng      *rand.Rand

	// ShowCursorAfter keeps a "_" cursor once settled.
	ShowCursorAfter bool

	cursorStyle lipgloss.Style
}

// NewDecodingText creates a decoder for text. A zero interval uses the
// component default.
func NewDecodingText(text string, interval time.Duration) *DecodingText {
	if interval <= 0 {
		interval = styles.DecodeIntervalDefault
	}
	d := &DecodingText{
		id:          nextComponentID(),
		interval:    interval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		cursorStyle: lipgloss.NewStyle().Foreground(styles.MatrixGreen).Bold(true),
	}
	d.reset(text)
	return d
}

// WithRand replaces the glyph source. Tests pass a seeded source.
func (d *DecodingText) WithRand(r *rand.Rand) *DecodingText {
	d.rng = r
	return d
}

func (d *DecodingText) reset(text string) {
	d.target = []rune(text)
	d.index = 0
	d.display = ""
	d.phase = DecodePhaseDecoding
	d.gen++
	if len(d.target) == 0 {
		d.phase = DecodePhaseSettled
	}
}

// ID returns the tick routing ID.
func (d *DecodingText) ID() int { return d.id }

// Target returns the full text being revealed.
func (d *DecodingText) Target() string { return string(d.target) }

// Phase returns the current phase.
func (d *DecodingText) Phase() DecodePhase { return d.phase }

// Settled reports whether the reveal is complete.
func (d *DecodingText) Settled() bool { return d.phase == DecodePhaseSettled }

// Display returns the text currently shown, without the cursor.
func (d *DecodingText) Display() string {
	if d.phase == DecodePhaseSettled {
		return string(d.target)
	}
	return d.display
}

// Step advances one tick. It returns true while more ticks are needed.
func (d *DecodingText) Step() bool {
	if d.phase == DecodePhaseSettled {
		return false
	}
	if d.index >= len(d.target) {
		d.phase = DecodePhaseSettled
		d.display = string(d.target)
		return false
	}

	end := d.index + decodeLookahead
	if end > len(d.target) {
		end = len(d.target)
	}

	var b strings.Builder
	b.WriteString(string(d.target[:d.index+1]))
	for _, r := range d.target[d.index+1 : end] {
		if r == ' ' || r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(decodeGlyphRunes[d.rng.Intn(len(decodeGlyphRunes))])
	}
	d.display = b.String()
	d.index++
	return true
}

// Finish jumps straight to the settled state.
func (d *DecodingText) Finish() {
	d.index = len(d.target)
	d.phase = DecodePhaseSettled
	d.display = string(d.target)
	d.gen++
}

// SetText restarts the reveal when text differs from the current target.
func (d *DecodingText) SetText(text string) tea.Cmd {
	if text == string(d.target) {
		return nil
	}
	d.reset(text)
	return d.Init()
}

// Stop invalidates outstanding ticks. The view is left as it is.
func (d *DecodingText) Stop() {
	d.gen++
}

// Init schedules the first tick.
func (d *DecodingText) Init() tea.Cmd {
	if d.phase == DecodePhaseSettled {
		return nil
	}
	return d.tick()
}

func (d *DecodingText) tick() tea.Cmd {
	id, gen := d.id, d.gen
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return DecodeTickMsg{ID: id, Gen: gen}
	})
}

// Update handles tick messages addressed to this decoder.
func (d *DecodingText) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(DecodeTickMsg)
	if !ok || tick.ID != d.id || tick.Gen != d.gen {
		return nil
	}
	// One more Step after the last reveal flips the phase to settled
	d.Step()
	if d.phase == DecodePhaseSettled {
		return nil
	}
	return d.tick()
}

// View renders the display text with its cursor.
func (d *DecodingText) View() string {
	switch {
	case d.phase == DecodePhaseDecoding:
		return d.display + d.cursorStyle.Render("|")
	case d.ShowCursorAfter:
		return string(d.target) + d.cursorStyle.Render("_")
	default:
		return string(d.target)
	}
}

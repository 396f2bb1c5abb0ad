// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// RainGlyphs are the characters the drops leave behind.
const RainGlyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789@#$%^&*()*&^%+-/~{[|`]}"

const (
	// rainResetChance is the per-frame chance a drop past the bottom
	// restarts at the top.
	rainResetChance = 0.025

	// rainTrailFrames is how many frames a glyph stays visible.
	rainTrailFrames = 18
)

var rainGlyphRunes = []rune(RainGlyphs)

// RainTickMsg advances the Rain with the matching ID.
type RainTickMsg struct {
	ID  int
	Gen int
}

type rainCell struct {
	glyph rune
	age   int // -1 when empty
}

// =============================================================================
// MATRIX RAIN
// =============================================================================

// Rain is the falling-glyph background. Each frame every column writes a
// glyph at its drop row and older glyphs fade.
type Rain struct {
	id       int
	gen      int
	running  bool
	width    int
	height   int
	drops    []int
	cells    [][]rainCell
	rng      *rand.Rand
	interval time.Duration

	shadeStyles []lipgloss.Style
	blank       lipgloss.Style
}

// NewRain creates a rain with no size. It draws nothing until SetSize.
func NewRain(interval time.Duration) *Rain {
	if interval <= 0 {
		interval = styles.RainFrameInterval
	}
	r := &Rain{
		id:       nextComponentID(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		interval: interval,
		blank:    lipgloss.NewStyle(),
	}
	for _, c := range styles.RainShades {
		r.shadeStyles = append(r.shadeStyles, lipgloss.NewStyle().Foreground(c))
	}
	return r
}

// WithRand replaces the random source.
func (r *Rain) WithRand(rng *rand.Rand) *Rain {
	r.rng = rng
	return r
}

// SetSize rebuilds the grid. Every drop starts at the top.
func (r *Rain) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.drops = make([]int, width)
	r.cells = make([][]rainCell, height)
	for y := range r.cells {
		row := make([]rainCell, width)
		for x := range row {
			row[x].age = -1
		}
		r.cells[y] = row
	}
}

// Size returns the grid dimensions.
func (r *Rain) Size() (int, int) { return r.width, r.height }

// Drops returns a copy of the drop rows, one per column.
func (r *Rain) Drops() []int {
	out := make([]int, len(r.drops))
	copy(out, r.drops)
	return out
}

// Step renders one frame into the grid.
func (r *Rain) Step() {
	// Fade
	for y := range r.cells {
		for x := range r.cells[y] {
			c := &r.cells[y][x]
			if c.age < 0 {
				continue
			}
			c.age++
			if c.age >= rainTrailFrames {
				c.age = -1
			}
		}
	}

	for x := range r.drops {
		y := r.drops[x]
		if y >= 0 && y < r.height {
			r.cells[y][x] = rainCell{glyph: rainGlyphRunes[r.rng.Intn(len(rainGlyphRunes))], age: 0}
		}
		if y >= r.height && r.rng.Float64() < rainResetChance {
			r.drops[x] = -1
		}
		r.drops[x]++
	}
}

// Start begins the frame loop. Calling Start while running is a no-op.
func (r *Rain) Start() tea.Cmd {
	if r.running {
		return nil
	}
	r.running = true
	r.gen++
	return r.tick()
}

// Stop ends the frame loop; the pending tick is dropped.
func (r *Rain) Stop() {
	r.running = false
	r.gen++
}

// Running reports whether frames are being scheduled.
func (r *Rain) Running() bool { return r.running }

func (r *Rain) tick() tea.Cmd {
	id, gen := r.id, r.gen
	return tea.Tick(r.interval, func(time.Time) tea.Msg {
		return RainTickMsg{ID: id, Gen: gen}
	})
}

// Update handles frame ticks addressed to this rain.
func (r *Rain) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(RainTickMsg)
	if !ok || tick.ID != r.id || tick.Gen != r.gen || !r.running {
		return nil
	}
	r.Step()
	return r.tick()
}

// shade maps a cell age onto the trail palette.
func (r *Rain) shade(age int) (lipgloss.Style, bool) {
	idx := age * len(r.shadeStyles) / rainTrailFrames
	if _, ok := styles.Shade(idx); !ok {
		return r.blank, false
	}
	return r.shadeStyles[idx], true
}

// RenderSpan renders columns [from, to) of one row. Runs of equal shade are
// styled together to keep the escape sequence count down.
func (r *Rain) RenderSpan(row, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > r.width {
		to = r.width
	}
	if row < 0 || row >= r.height || from >= to {
		return strings.Repeat(" ", max(0, to-from))
	}

	var out strings.Builder
	var run strings.Builder
	runShade := -2

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runShade < 0 {
			out.WriteString(run.String())
		} else {
			out.WriteString(r.shadeStyles[runShade].Render(run.String()))
		}
		run.Reset()
	}

	for x := from; x < to; x++ {
		c := r.cells[row][x]
		s := -1
		ch := ' '
		if c.age >= 0 {
			if _, ok := r.shade(c.age); ok {
				s = c.age * len(r.shadeStyles) / rainTrailFrames
				ch = c.glyph
			}
		}
		if s != runShade {
			flush()
			runShade = s
		}
		run.WriteRune(ch)
	}
	flush()
	return out.String()
}

// View renders the whole grid.
func (r *Rain) View() string {
	lines := make([]string, r.height)
	for y := range lines {
		lines[y] = r.RenderSpan(y, 0, r.width)
	}
	return strings.Join(lines, "\n")
}

// Overlay renders the rain with content centered on top of it. The rain
// shows through everywhere the content does not cover.
func (r *Rain) Overlay(content string) string {
	if r.width == 0 || r.height == 0 {
		return content
	}
	box := strings.Split(content, "\n")
	boxW := lipgloss.Width(content)
	boxH := len(box)
	if boxW > r.width || boxH > r.height {
		return lipgloss.Place(r.width, r.height, lipgloss.Center, lipgloss.Center, content)
	}

	x0 := (r.width - boxW) / 2
	y0 := (r.height - boxH) / 2

	lines := make([]string, r.height)
	for y := range lines {
		if y < y0 || y >= y0+boxH {
			lines[y] = r.RenderSpan(y, 0, r.width)
			continue
		}
		line := box[y-y0]
		pad := boxW - lipgloss.Width(line)
		lines[y] = r.RenderSpan(y, 0, x0) + line + strings.Repeat(" ", pad) +
			r.RenderSpan(y, x0+boxW, r.width)
	}
	return strings.Join(lines, "\n")
}

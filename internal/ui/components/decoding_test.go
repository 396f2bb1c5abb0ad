// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func newTestDecoder(text string) *DecodingText {
	return NewDecodingText(text, 30*time.Millisecond).WithRand(rand.New(rand.NewSource(1)))
}

func TestDecodingTextRevealsOnePerTick(t *testing.T) {
	d := newTestDecoder("Hello Neo")
	target := []rune("Hello Neo")

	for i := range target {
		if !d.Step() {
			t.Fatalf("step %d ended early", i)
		}
		got := []rune(d.Display())
		if string(got[:i+1]) != string(target[:i+1]) {
			t.Fatalf("step %d: prefix %q, want %q", i, string(got[:i+1]), string(target[:i+1]))
		}
		if want := min(len(target), i+decodeLookahead); len(got) != want {
			t.Fatalf("step %d: display length %d, want %d", i, len(got), want)
		}
	}

	if d.Step() {
		t.Error("Step after the last reveal should settle")
	}
	if !d.Settled() || d.Display() != "Hello Neo" {
		t.Errorf("expected settled on target, got %q", d.Display())
	}
}

func TestDecodingTextPreservesWhitespace(t *testing.T) {
	const text = "a b\nc d e f g\th  i j k\n\nl m n o p q"
	target := []rune(text)

	for seed := int64(1); seed <= 20; seed++ {
		d := NewDecodingText(text, 30*time.Millisecond).WithRand(rand.New(rand.NewSource(seed)))
		for tick := 1; d.Step(); tick++ {
			got := []rune(d.Display())
			if len(got) > len(target) {
				t.Fatalf("seed %d tick %d: display longer than target", seed, tick)
			}
			for i := tick; i < len(got); i++ {
				switch target[i] {
				case ' ', '\n', '\t':
					if got[i] != target[i] {
						t.Fatalf("seed %d tick %d position %d: whitespace replaced by %q", seed, tick, i, got[i])
					}
				default:
					if !strings.ContainsRune(DecodeGlyphs, got[i]) {
						t.Fatalf("seed %d tick %d position %d: %q is not a decode glyph", seed, tick, i, got[i])
					}
				}
			}
		}
		if d.Display() != text {
			t.Fatalf("seed %d: settled on %q", seed, d.Display())
		}
	}
}

func TestDecodingTextEmptySettlesImmediately(t *testing.T) {
	d := newTestDecoder("")
	if !d.Settled() {
		t.Error("empty text should start settled")
	}
	if d.Init() != nil {
		t.Error("settled text should not schedule ticks")
	}
}

func TestDecodingTextSetTextRestarts(t *testing.T) {
	d := newTestDecoder("abc")
	for d.Step() {
	}
	if cmd := d.SetText("abc"); cmd != nil {
		t.Error("same text should not restart")
	}
	if cmd := d.SetText("xyz"); cmd == nil {
		t.Error("new text should schedule a tick")
	}
	if d.Settled() || d.Display() != "" {
		t.Errorf("restart should clear the display, got %q", d.Display())
	}
}

func TestDecodingTextIgnoresStaleTicks(t *testing.T) {
	d := newTestDecoder("abc")
	stale := DecodeTickMsg{ID: d.ID(), Gen: d.gen}
	d.Stop()

	if cmd := d.Update(stale); cmd != nil {
		t.Error("stale tick should be ignored")
	}
	if d.Display() != "" {
		t.Error("stale tick should not advance the reveal")
	}

	if cmd := d.Update(DecodeTickMsg{ID: d.ID() + 1000, Gen: d.gen}); cmd != nil {
		t.Error("tick for another decoder should be ignored")
	}
}

func TestDecodingTextUpdateRunsToCompletion(t *testing.T) {
	d := newTestDecoder("ok")
	ticks := 0
	for !d.Settled() {
		d.Update(DecodeTickMsg{ID: d.ID(), Gen: d.gen})
		ticks++
		if ticks > 10 {
			t.Fatal("decoder never settled")
		}
	}
	if ticks != 3 {
		t.Errorf("expected 3 ticks for two runes, got %d", ticks)
	}
}

func TestDecodingTextCursor(t *testing.T) {
	d := newTestDecoder("hi")
	d.Step()
	if !strings.Contains(d.View(), "|") {
		t.Error("decoding view should show the bar cursor")
	}
	d.Finish()
	if strings.Contains(d.View(), "_") {
		t.Error("settled view without ShowCursorAfter should have no cursor")
	}
	d.ShowCursorAfter = true
	if !strings.Contains(d.View(), "_") {
		t.Error("ShowCursorAfter should keep an underscore cursor")
	}
}

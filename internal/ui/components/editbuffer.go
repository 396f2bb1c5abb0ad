// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"regexp"
	"strconv"
	"strings"
)

// Format is a formatting action for the editor.
type Format int

const (
	FormatBold Format = iota
	FormatItalic
	FormatUnderline
	FormatBullet
	FormatOrdered
	FormatQuote
	FormatCode
)

var formatNames = map[Format]string{
	FormatBold:      "bold",
	FormatItalic:    "italic",
	FormatUnderline: "underline",
	FormatBullet:    "bullet list",
	FormatOrdered:   "numbered list",
	FormatQuote:     "quote",
	FormatCode:      "code block",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// maxHistory bounds each undo stack.
const maxHistory = 200

const codeFence = "```"

// =============================================================================
// EDIT BUFFER
// =============================================================================

// EditBuffer is the editor text with undo and redo history. It knows nothing
// about the terminal so formatting rules can be tested directly.
type EditBuffer struct {
	text      string
	undo      []string
	redo      []string
	coalesced bool
}

// NewEditBuffer creates a buffer holding text with empty history.
func NewEditBuffer(text string) *EditBuffer {
	return &EditBuffer{text: text}
}

// Text returns the current markup.
func (b *EditBuffer) Text() string { return b.text }

// CanUndo reports whether Undo has anything to restore.
func (b *EditBuffer) CanUndo() bool { return len(b.undo) > 0 }

// CanRedo reports whether Redo has anything to restore.
func (b *EditBuffer) CanRedo() bool { return len(b.redo) > 0 }

// Record replaces the text. When coalesce is set and the previous change was
// also coalesced, both share one undo step; typing uses this so a word
// undoes as a unit.
func (b *EditBuffer) Record(next string, coalesce bool) {
	if next == b.text {
		return
	}
	if !coalesce || !b.coalesced {
		b.push(&b.undo, b.text)
	}
	b.text = next
	b.redo = nil
	b.coalesced = coalesce
}

// Reset replaces the text and clears history.
func (b *EditBuffer) Reset(text string) {
	b.text = text
	b.undo = nil
	b.redo = nil
	b.coalesced = false
}

// Undo restores the previous snapshot.
func (b *EditBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.push(&b.redo, b.text)
	b.text = prev
	b.coalesced = false
	return true
}

// Redo reapplies the last undone snapshot.
func (b *EditBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.push(&b.undo, b.text)
	b.text = next
	b.coalesced = false
	return true
}

func (b *EditBuffer) push(stack *[]string, s string) {
	*stack = append(*stack, s)
	if len(*stack) > maxHistory {
		*stack = (*stack)[len(*stack)-maxHistory:]
	}
}

// Apply formats lines from..to (inclusive, zero-based, either order) and
// records the result as one undo step. Applying a format that is already
// present on every line removes it.
func (b *EditBuffer) Apply(f Format, from, to int) {
	b.Record(FormatLines(b.text, f, from, to), false)
}

// =============================================================================
// FORMATTING
// =============================================================================

type wrapper struct{ open, close string }

var inlineWrappers = map[Format]wrapper{
	FormatBold:      {"**", "**"},
	FormatItalic:    {"*", "*"},
	FormatUnderline: {"<u>", "</u>"},
}

var linePrefixes = map[Format]string{
	FormatBullet: "- ",
	FormatQuote:  "> ",
}

var orderedPrefix = regexp.MustCompile(`^\d+\. `)

// FormatLines applies f to the given line range of text.
func FormatLines(text string, f Format, from, to int) string {
	lines := strings.Split(text, "\n")
	if from > to {
		from, to = to, from
	}
	from = clamp(from, 0, len(lines)-1)
	to = clamp(to, 0, len(lines)-1)
	sel := lines[from : to+1]

	var out []string
	switch f {
	case FormatBold, FormatItalic, FormatUnderline:
		out = toggleWrap(sel, inlineWrappers[f])
	case FormatBullet, FormatQuote:
		out = togglePrefix(sel, linePrefixes[f])
	case FormatOrdered:
		out = toggleOrdered(sel)
	case FormatCode:
		out = toggleFence(sel)
	default:
		return text
	}

	result := make([]string, 0, len(lines)-len(sel)+len(out))
	result = append(result, lines[:from]...)
	result = append(result, out...)
	result = append(result, lines[to+1:]...)
	return strings.Join(result, "\n")
}

func isWrapped(line string, w wrapper) bool {
	// "**x**" also looks like "*x*" with stars inside; italic must not
	// match bold.
	if w.open == "*" && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") {
		return len(line) >= 5 && strings.HasPrefix(line, "***")
	}
	return len(line) >= len(w.open)+len(w.close) &&
		strings.HasPrefix(line, w.open) && strings.HasSuffix(line, w.close)
}

func toggleWrap(lines []string, w wrapper) []string {
	all := true
	some := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		some = true
		if !isWrapped(l, w) {
			all = false
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			out[i] = l
		case some && all:
			out[i] = l[len(w.open) : len(l)-len(w.close)]
		default:
			out[i] = w.open + l + w.close
		}
	}
	if !some {
		// Empty line: leave an empty pair for the user to type into.
		out[0] = w.open + w.close
	}
	return out
}

func togglePrefix(lines []string, prefix string) []string {
	all := true
	for _, l := range lines {
		if !strings.HasPrefix(l, prefix) {
			all = false
			break
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if all {
			out[i] = strings.TrimPrefix(l, prefix)
		} else if !strings.HasPrefix(l, prefix) {
			out[i] = prefix + l
		} else {
			out[i] = l
		}
	}
	return out
}

func toggleOrdered(lines []string) []string {
	all := true
	for _, l := range lines {
		if !orderedPrefix.MatchString(l) {
			all = false
			break
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		bare := orderedPrefix.ReplaceAllString(l, "")
		if all {
			out[i] = bare
		} else {
			out[i] = strconv.Itoa(i+1) + ". " + bare
		}
	}
	return out
}

func toggleFence(lines []string) []string {
	n := len(lines)
	if n >= 2 && strings.HasPrefix(lines[0], codeFence) && strings.TrimSpace(lines[n-1]) == codeFence {
		return lines[1 : n-1]
	}
	out := make([]string, 0, n+2)
	out = append(out, codeFence)
	out = append(out, lines...)
	return append(out, codeFence)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// PLAIN TEXT
// =============================================================================

var (
	fenceLine   = regexp.MustCompile("(?m)^[ \\t]*```.*(?:\\n|$)")
	blockPrefix = regexp.MustCompile(`(?m)^([ \t]*)(?:[-+] |\d+\. |> )`)
	boldMark    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMark  = regexp.MustCompile(`\*([^*\n]+?)\*`)
	underline   = regexp.MustCompile(`</?u>`)
)

// PlainText strips the editor's markup, leaving what a reader would see.
func PlainText(markup string) string {
	s := fenceLine.ReplaceAllString(markup, "")
	s = blockPrefix.ReplaceAllString(s, "$1")
	s = boldMark.ReplaceAllString(s, "$1")
	s = italicMark.ReplaceAllString(s, "$1")
	s = underline.ReplaceAllString(s, "")
	return strings.TrimRight(s, "\n")
}

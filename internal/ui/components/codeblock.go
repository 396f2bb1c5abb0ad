// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

// =============================================================================
// MARKDOWN SEGMENTS
// =============================================================================

// mdSegment is a run of prose or one fenced code block.
type mdSegment struct {
	code bool
	lang string
	text string
}

// splitFences cuts markdown into prose and fenced code. An unclosed fence
// runs to the end of the text.
func splitFences(text string) []mdSegment {
	var segs []mdSegment
	var cur []string
	inCode := false
	lang := ""

	flush := func(code bool) {
		if len(cur) == 0 && !code {
			return
		}
		segs = append(segs, mdSegment{code: code, lang: lang, text: strings.Join(cur, "\n")})
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCode {
				flush(true)
				inCode = false
				lang = ""
			} else {
				flush(false)
				inCode = true
				lang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			}
			continue
		}
		cur = append(cur, line)
	}
	flush(inCode)
	return segs
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderMarkdown renders prose with glamour and fenced code with chroma.
// Rendering failures fall back to the raw text.
func RenderMarkdown(text string, width int, dark bool) string {
	if width < 20 {
		width = 20
	}
	glamourStyle := "light"
	if dark {
		glamourStyle = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("Markdown renderer: %v", err)
		r = nil
	}

	var parts []string
	for _, seg := range splitFences(text) {
		if seg.code {
			parts = append(parts, renderCodeBlock(seg.text, seg.lang, width, dark))
			continue
		}
		if strings.TrimSpace(seg.text) == "" {
			continue
		}
		if r == nil {
			parts = append(parts, seg.text)
			continue
		}
		out, err := r.Render(seg.text)
		if err != nil {
			parts = append(parts, seg.text)
			continue
		}
		parts = append(parts, strings.Trim(out, "\n"))
	}
	return strings.Join(parts, "\n")
}

func renderCodeBlock(code, lang string, width int, dark bool) string {
	body := highlightCode(code, lang, dark)
	header := ""
	if lang != "" {
		header = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Bold(true).
			Render(lang) + "\n"
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.MatrixGreenDim).
		Padding(0, 1).
		MaxWidth(width).
		Render(header + body)
}

// highlightCode colours code for a 256-colour terminal. Unknown languages
// are guessed from the content.
func highlightCode(code, lang string, dark bool) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "monokai"
	if !dark {
		styleName = "friendly"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

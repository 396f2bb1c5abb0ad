// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// EditorKeyMap binds the editor toolbar actions.
type EditorKeyMap struct {
	Bold      key.Binding
	Italic    key.Binding
	Underline key.Binding
	Bullet    key.Binding
	Ordered   key.Binding
	Quote     key.Binding
	Code      key.Binding
	Mark      key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Copy      key.Binding
	Save      key.Binding
}

// DefaultEditorKeyMap returns the editor bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Bold:      key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("M-b", "bold")),
		Italic:    key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("M-i", "italic")),
		Underline: key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("M-u", "underline")),
		Bullet:    key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("M-l", "list")),
		Ordered:   key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("M-n", "numbered")),
		Quote:     key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("M-q", "quote")),
		Code:      key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("M-c", "code")),
		Mark:      key.NewBinding(key.WithKeys("ctrl+@"), key.WithHelp("C-space", "mark")),
		Undo:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("C-z", "undo")),
		Redo:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("C-y", "redo")),
		Copy:      key.NewBinding(key.WithKeys("alt+y"), key.WithHelp("M-y", "copy")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
	}
}

// =============================================================================
// TEXT EDITOR
// =============================================================================

// EditorModel is the scratch pad beside the chat. In read-only mode it shows
// rendered markdown and only copy and save work.
type EditorModel struct {
	ta       textarea.Model
	vp       viewport.Model
	buf      *EditBuffer
	keys     EditorKeyMap
	readOnly bool
	mark     int
	savePath string
	theme    *styles.Theme
	width    int
	height   int

	// copyText writes to the system clipboard.
	copyText func(string) error
}

// NewEditorModel creates an editor that saves to savePath.
func NewEditorModel(theme *styles.Theme, savePath string, readOnly bool) *EditorModel {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""

	e := &EditorModel{
		ta:       ta,
		vp:       viewport.New(40, 10),
		buf:      NewEditBuffer(""),
		keys:     DefaultEditorKeyMap(),
		readOnly: readOnly,
		mark:     -1,
		savePath: savePath,
		theme:    theme,
		copyText: clipboard.WriteAll,
	}
	e.SetSize(40, 12)
	return e
}

// SetSize sets the panel size including the toolbar.
func (e *EditorModel) SetSize(width, height int) {
	e.width = max(20, width)
	e.height = max(4, height)
	e.ta.SetWidth(e.width)
	e.ta.SetHeight(e.height - 2)
	e.vp.Width = e.width
	e.vp.Height = e.height - 2
	if e.readOnly {
		e.refreshPreview()
	}
}

// ReadOnly reports whether edits are disabled.
func (e *EditorModel) ReadOnly() bool { return e.readOnly }

// Content returns the markup.
func (e *EditorModel) Content() string { return e.buf.Text() }

// PlainText returns the content with markup removed.
func (e *EditorModel) PlainText() string { return PlainText(e.buf.Text()) }

// HasMark reports whether a selection mark is set.
func (e *EditorModel) HasMark() bool { return e.mark >= 0 }

// SetContent replaces the content and clears history.
func (e *EditorModel) SetContent(text string) {
	if text == e.buf.Text() {
		return
	}
	e.buf.Reset(text)
	e.ta.SetValue(text)
	e.mark = -1
	if e.readOnly {
		e.refreshPreview()
		e.vp.GotoTop()
	}
}

// Focus gives the editor the cursor.
func (e *EditorModel) Focus() tea.Cmd {
	if e.readOnly {
		return nil
	}
	return e.ta.Focus()
}

// Blur releases the cursor.
func (e *EditorModel) Blur() { e.ta.Blur() }

func (e *EditorModel) refreshPreview() {
	text := e.buf.Text()
	if strings.TrimSpace(text) == "" {
		e.vp.SetContent(e.theme.Muted.Render("Nothing to show."))
		return
	}
	e.vp.SetContent(RenderMarkdown(text, e.width-2, e.theme.IsDark))
}

// Format applies f to the marked lines, or the cursor line without a mark.
func (e *EditorModel) Format(f Format) {
	if e.readOnly {
		return
	}
	line := e.ta.Line()
	from := line
	if e.mark >= 0 {
		from = e.mark
	}
	e.buf.Apply(f, from, line)
	e.mark = -1
	e.syncTextarea(line)
}

// Undo steps back one change.
func (e *EditorModel) Undo() bool {
	if e.readOnly || !e.buf.Undo() {
		return false
	}
	e.syncTextarea(e.ta.Line())
	return true
}

// Redo reapplies one undone change.
func (e *EditorModel) Redo() bool {
	if e.readOnly || !e.buf.Redo() {
		return false
	}
	e.syncTextarea(e.ta.Line())
	return true
}

// syncTextarea loads the buffer into the textarea and puts the cursor back
// on line.
func (e *EditorModel) syncTextarea(line int) {
	e.ta.SetValue(e.buf.Text())
	for guard := 0; e.ta.Line() > line && guard < 10000; guard++ {
		e.ta.CursorUp()
	}
}

// Copy puts the plain text on the clipboard.
func (e *EditorModel) Copy() tea.Cmd {
	text := e.PlainText()
	write := e.copyText
	return func() tea.Msg {
		if err := write(text); err != nil {
			log.Printf("Clipboard write failed: %v", err)
			return ToastMsg{Kind: ToastKindError, Message: "Copy failed: " + err.Error()}
		}
		return ToastMsg{Kind: ToastKindSuccess, Message: "Copied to clipboard"}
	}
}

// Save writes the plain text next to the configured path, never overwriting
// an existing file.
func (e *EditorModel) Save() tea.Cmd {
	text := e.PlainText()
	target := e.savePath
	return func() tea.Msg {
		path := util.UniquePath(target)
		if err := util.AtomicWriteFile(path, []byte(text), 0o644); err != nil {
			log.Printf("Save %s failed: %v", path, err)
			return ToastMsg{Kind: ToastKindError, Message: fmt.Sprintf("Save failed: %v", err)}
		}
		return ToastMsg{Kind: ToastKindSuccess, Message: "Saved to " + path}
	}
}

// Update handles editor keys. Keys that are not bound go to the textarea.
func (e *EditorModel) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, e.keys.Copy):
			return e.Copy()
		case key.Matches(km, e.keys.Save):
			return e.Save()
		}

		if e.readOnly {
			var cmd tea.Cmd
			e.vp, cmd = e.vp.Update(msg)
			return cmd
		}

		switch {
		case key.Matches(km, e.keys.Bold):
			e.Format(FormatBold)
			return nil
		case key.Matches(km, e.keys.Italic):
			e.Format(FormatItalic)
			return nil
		case key.Matches(km, e.keys.Underline):
			e.Format(FormatUnderline)
			return nil
		case key.Matches(km, e.keys.Bullet):
			e.Format(FormatBullet)
			return nil
		case key.Matches(km, e.keys.Ordered):
			e.Format(FormatOrdered)
			return nil
		case key.Matches(km, e.keys.Quote):
			e.Format(FormatQuote)
			return nil
		case key.Matches(km, e.keys.Code):
			e.Format(FormatCode)
			return nil
		case key.Matches(km, e.keys.Mark):
			if e.mark >= 0 {
				e.mark = -1
			} else {
				e.mark = e.ta.Line()
			}
			return nil
		case key.Matches(km, e.keys.Undo):
			e.Undo()
			return nil
		case key.Matches(km, e.keys.Redo):
			e.Redo()
			return nil
		}

		var cmd tea.Cmd
		e.ta, cmd = e.ta.Update(msg)
		typing := km.Type == tea.KeyRunes && !km.Paste && !strings.ContainsAny(string(km.Runes), " \n\t")
		e.buf.Record(e.ta.Value(), typing)
		return cmd
	}

	if e.readOnly {
		var cmd tea.Cmd
		e.vp, cmd = e.vp.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	e.ta, cmd = e.ta.Update(msg)
	return cmd
}

// View renders the toolbar and body.
func (e *EditorModel) View() string {
	t := e.theme
	var tools []string
	if e.readOnly {
		tools = []string{"copy M-y", "save C-s"}
	} else {
		tools = []string{"B", "I", "U", "•", "1.", "❝", "</>", "undo", "redo", "copy", "save"}
		if e.mark >= 0 {
			tools = append(tools, fmt.Sprintf("mark L%d", e.mark+1))
		}
	}
	toolbar := t.Toolbar.Width(e.width).Render(util.TruncateWidth(strings.Join(tools, " "), e.width))

	body := e.vp.View()
	if !e.readOnly {
		body = e.ta.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, toolbar, body)
}

// HelpLine lists the editor shortcuts for the status bar.
func (e *EditorModel) HelpLine() string {
	bindings := []key.Binding{e.keys.Copy, e.keys.Save}
	if !e.readOnly {
		bindings = []key.Binding{
			e.keys.Bold, e.keys.Italic, e.keys.Underline, e.keys.Bullet,
			e.keys.Ordered, e.keys.Quote, e.keys.Code, e.keys.Mark,
			e.keys.Undo, e.keys.Redo, e.keys.Copy, e.keys.Save,
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

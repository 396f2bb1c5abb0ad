// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/upload"
)

// Drop zone copy.
const (
	DropZoneIdle   = "Drag & drop files here"
	DropZoneActive = "Drop files here..."
	DropZoneSelect = "or type a path, ctrl+o to browse"
	DropZoneLimits = "Supports images, videos, documents (max %s)"
)

// =============================================================================
// MESSAGES
// =============================================================================

// FilesAddedMsg carries files that passed validation. The owner appends them
// to its pending list.
type FilesAddedMsg struct {
	Files []model.FileRef
}

// FileRemovedMsg asks the owner to drop the pending file at Index.
type FileRemovedMsg struct {
	Index int
}

// DropMsg reports paths that appeared in the watched drop directory.
type DropMsg struct {
	Paths []string
}

type filesValidatedMsg struct {
	files    []model.FileRef
	rejected []upload.Rejection
}

// WaitForDrop blocks on the watcher's next batch. Re-issue it after each
// DropMsg to keep listening. It returns nil once the watcher is closed.
func WaitForDrop(w *upload.DropWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		paths, ok := <-w.Files()
		if !ok {
			return nil
		}
		return DropMsg{Paths: paths}
	}
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// FileUploadModel selects files for the next send. Paths arrive from the path
// field, a bracketed paste, the file browser or the drop directory.
type FileUploadModel struct {
	input     textinput.Model
	picker    filepicker.Model
	browsing  bool
	dragging  bool
	selected  int
	validator *upload.Validator
	dropDir   string
	theme     *styles.Theme
	width     int
}

// NewFileUploadModel creates the panel. dropDir may be empty.
func NewFileUploadModel(theme *styles.Theme, maxSize int64, dropDir string) *FileUploadModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/file.pdf"
	ti.Prompt = "path> "
	ti.CharLimit = 4096

	fp := filepicker.New()
	fp.AutoHeight = false
	fp.Height = 8
	fp.ShowHidden = false
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return &FileUploadModel{
		input:     ti,
		picker:    fp,
		validator: upload.NewValidator(maxSize),
		dropDir:   dropDir,
		theme:     theme,
		width:     60,
	}
}

// Focus gives the path field the cursor.
func (m *FileUploadModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur releases the path field.
func (m *FileUploadModel) Blur() {
	m.input.Blur()
	m.browsing = false
}

// Browsing reports whether the file browser is open.
func (m *FileUploadModel) Browsing() bool { return m.browsing }

// SetWidth sets the panel width.
func (m *FileUploadModel) SetWidth(w int) {
	m.width = w
	m.input.Width = max(10, w-12)
}

// Selected returns the highlighted row of the pending list.
func (m *FileUploadModel) Selected() int { return m.selected }

// Validate loads and checks paths off the UI goroutine.
func (m *FileUploadModel) Validate(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}
	v := m.validator
	return func() tea.Msg {
		files, rejected := v.Validate(paths)
		return filesValidatedMsg{files: files, rejected: rejected}
	}
}

// Update handles input for the panel. pending is the owner's current list,
// used to keep the selection in range.
func (m *FileUploadModel) Update(msg tea.Msg, pending []model.FileRef) tea.Cmd {
	if m.selected >= len(pending) {
		m.selected = max(0, len(pending)-1)
	}

	switch msg := msg.(type) {
	case filesValidatedMsg:
		m.dragging = false
		return m.report(msg)

	case DropMsg:
		log.Printf("Drop directory delivered %d path(s)", len(msg.Paths))
		return m.Validate(msg.Paths)

	case tea.KeyMsg:
		if msg.Paste {
			return m.handlePaste(msg)
		}
		if m.browsing {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg, pending)
	}

	if m.browsing {
		return m.updatePicker(msg)
	}
	return nil
}

func (m *FileUploadModel) handlePaste(msg tea.KeyMsg) tea.Cmd {
	text := string(msg.Runes)
	if upload.LooksLikePaths(text) {
		m.dragging = true
		return m.Validate(upload.ParsePaths(text))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *FileUploadModel) handleKey(msg tea.KeyMsg, pending []model.FileRef) tea.Cmd {
	switch msg.String() {
	case "enter":
		paths := upload.ParsePaths(m.input.Value())
		m.input.Reset()
		return m.Validate(paths)

	case "ctrl+o":
		m.browsing = true
		return m.picker.Init()

	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return nil

	case "down":
		if m.selected < len(pending)-1 {
			m.selected++
		}
		return nil

	case "ctrl+x", "delete":
		if len(pending) == 0 {
			return nil
		}
		idx := m.selected
		if idx == len(pending)-1 && idx > 0 {
			m.selected--
		}
		return func() tea.Msg { return FileRemovedMsg{Index: idx} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *FileUploadModel) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.browsing = false
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.browsing = false
		return tea.Batch(cmd, m.Validate([]string{path}))
	}
	return cmd
}

// report turns a validation result into an add message and toasts.
func (m *FileUploadModel) report(msg filesValidatedMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range msg.rejected {
		log.Printf("Rejected %s: %v", r.Path, r.Reason)
		cmds = append(cmds, ShowToast(ToastKindError, r.Message()))
	}
	if n := len(msg.files); n > 0 {
		files := msg.files
		cmds = append(cmds,
			func() tea.Msg { return FilesAddedMsg{Files: files} },
			ShowToast(ToastKindSuccess, upload.SuccessMessage(n)),
		)
	}
	return tea.Batch(cmds...)
}

// View renders the drop zone, path field and pending list.
func (m *FileUploadModel) View(pending []model.FileRef) string {
	t := m.theme
	width := max(30, m.width)

	zone := t.DropZone
	label := DropZoneIdle
	if m.dragging {
		zone = t.DropZoneActive
		label = DropZoneActive
	}
	limits := fmt.Sprintf(DropZoneLimits, humanLimit(m.validator.MaxSize))
	zoneLines := []string{label, t.Muted.Render(DropZoneSelect), t.Muted.Render(limits)}
	if m.dropDir != "" {
		zoneLines = append(zoneLines, t.Muted.Render("drop dir: "+m.dropDir))
	}

	sections := []string{
		zone.Width(width - 2).Render(strings.Join(zoneLines, "\n")),
	}
	if m.browsing {
		sections = append(sections, m.picker.View(), t.KeyHint.Render("enter select · esc close"))
	} else {
		sections = append(sections, m.input.View())
	}
	if list := m.renderList(pending, width); list != "" {
		sections = append(sections, list)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *FileUploadModel) renderList(pending []model.FileRef, width int) string {
	if len(pending) == 0 {
		return ""
	}
	t := m.theme
	lines := []string{t.HeaderTitle.Render(fmt.Sprintf("Selected Files (%d)", len(pending)))}
	for i, f := range pending {
		row := fmt.Sprintf("[%s] %s", upload.Kind(f.MIMEType), FileChipLabel(f, width-10))
		if i == m.selected {
			lines = append(lines, t.FileSelected.Render("> "+row))
		} else {
			lines = append(lines, t.FileName.Render("  "+row))
		}
	}
	lines = append(lines, t.KeyHint.Render("↑/↓ select · del remove"))
	return strings.Join(lines, "\n")
}

func humanLimit(size int64) string {
	const mib = 1 << 20
	if size%mib == 0 {
		return fmt.Sprintf("%dMB", size/mib)
	}
	return fmt.Sprintf("%dKB", size/1024)
}

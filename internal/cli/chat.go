// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line mode chat.
//
// Used for "redpill chat", for --plain, and whenever stdin or stdout is not
// a terminal. It runs the same send pipeline as the full screen interface
// and prints toasts as lines.
//
// Commands (during chat):
//
//	/attach PATH...   Attach files to the next message
//	/files            List attached files
//	/detach N         Remove attached file N (1-based)
//	/help             Show commands
//	/quit, /exit      Leave (Ctrl+D works too)
//
// Any other line is sent, including one that starts with an unknown /word.
// A leading "//" sends a literal "/".

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/Hughclaw18/redpill-interface/internal/backend"
	"github.com/Hughclaw18/redpill-interface/internal/config"
	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/ui/chat"
	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
	"github.com/Hughclaw18/redpill-interface/internal/upload"
	"github.com/Hughclaw18/redpill-interface/internal/util"
)

const chatPrompt = "neo> "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input. *ChatCLI implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides line editing and history for line mode.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}

	if f, err := os.Open(c.historyFile); err == nil {
		if _, err := c.line.ReadHistory(f); err != nil {
			log.Printf("Chat history: %v", err)
		}
		f.Close()
	}
	return c
}

// Prompt reads a line. Non-blank lines are added to history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the
// terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			if _, err := c.line.WriteHistory(f); err != nil {
				log.Printf("Chat history: %v", err)
			}
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// LineChat is a chat session that reads lines and prints replies.
type LineChat struct {
	session   *model.Session
	backend   chat.Backend
	validator *upload.Validator
	out       io.Writer
	width     int
	markdown  bool
	dark      bool

	// undelivered is the transport error of the last send, if it failed to
	// reach the backend.
	undelivered error
}

// NewLineChat creates a session writing to out. Replies are rendered as
// markdown when colors are enabled.
func NewLineChat(cfg *config.Config, b chat.Backend, out io.Writer, dark bool) *LineChat {
	return &LineChat{
		session:   model.NewSession(),
		backend:   b,
		validator: upload.NewValidator(cfg.Upload.MaxFileSize),
		out:       out,
		width:     GetTerminalWidth(),
		markdown:  ColorsEnabled(),
		dark:      dark,
	}
}

// Session exposes the chat state.
func (c *LineChat) Session() *model.Session { return c.session }

// Err reports the transport failure of the most recent send, or nil when it
// reached the backend.
func (c *LineChat) Err() error {
	if c.undelivered == nil {
		return nil
	}
	return fmt.Errorf("last message not delivered: %w", c.undelivered)
}

// Run prints the greeting and reads lines until EOF, Ctrl+C or /quit. It
// returns Err so a piped session whose last message never reached the
// backend exits with the network code.
func (c *LineChat) Run(ctx context.Context, in LineReader) error {
	if text, ok := c.session.LastAssistantText(); ok {
		c.printReply(text)
	}
	fmt.Fprintln(c.out, DimStyle.Render("Type /help for commands, /quit to leave."))

	for {
		line, err := in.Prompt(PromptStyle.Render(chatPrompt))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return c.Err()
			}
			return fmt.Errorf("read input: %w", err)
		}
		if quit := c.Handle(ctx, line); quit {
			return c.Err()
		}
	}
}

// Handle processes one line. It returns true when the user asked to leave.
func (c *LineChat) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "//"):
		// "//etc" sends "/etc".
		line = strings.Replace(line, "//", "/", 1)
	case strings.HasPrefix(trimmed, "/"):
		if quit, ok := c.handleCommand(trimmed); ok {
			return quit
		}
	}

	// The message goes out as typed; only blank-and-nothing-attached is
	// ignored. Lines that start with an unknown /word are text too.
	c.send(ctx, line)
	return false
}

// handleCommand runs a slash command. ok is false when the first word is
// not a command.
func (c *LineChat) handleCommand(line string) (quit, ok bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return true, true

	case "/help", "/h":
		c.printHelp()

	case "/attach", "/a":
		paths := upload.ParsePaths(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		if len(paths) == 0 {
			c.warn("Usage: /attach PATH...")
			return false, true
		}
		c.attach(paths)

	case "/files", "/f":
		c.printFiles()

	case "/detach", "/d":
		if len(fields) < 2 {
			c.warn("Usage: /detach N")
			return false, true
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || !c.session.RemovePendingFile(n-1) {
			c.warn(fmt.Sprintf("No attached file %s", fields[1]))
			return false, true
		}
		c.printFiles()

	default:
		return false, false
	}
	return false, true
}

func (c *LineChat) attach(paths []string) {
	files, rejected := c.validator.Validate(paths)
	for _, r := range rejected {
		c.toast(components.ToastKindError, r.Message())
	}
	if len(files) > 0 {
		c.session.AddPendingFiles(files...)
		c.toast(components.ToastKindSuccess, upload.SuccessMessage(len(files)))
	}
}

// send runs the pipeline synchronously.
func (c *LineChat) send(ctx context.Context, text string) {
	c.session.InputText = text
	out, ok := c.session.BeginSend()
	if !ok {
		return
	}
	defer c.session.Finish()

	res, _ := chat.SendPipeline(ctx, c.backend, out)().(chat.SendResultMsg)
	c.undelivered = nil
	for _, err := range []error{res.IngestErr, res.ChatErr} {
		if backend.IsKind(err, backend.KindTransport) {
			c.undelivered = err
		}
	}

	if res.HadFiles {
		if res.IngestErr != nil {
			c.toast(components.ToastKindError, chat.IngestFailedText)
		} else {
			c.toast(components.ToastKindSuccess, chat.IngestSuccessText)
		}
	}
	if !res.ChatAttempted() {
		return
	}
	if res.ChatErr != nil {
		c.toast(components.ToastKindError, chat.ChatFailedText)
		return
	}
	c.session.ApplyReply(res.Reply)
	c.printReply(res.Reply)
}

// =============================================================================
// OUTPUT
// =============================================================================

func (c *LineChat) printReply(text string) {
	fmt.Fprintln(c.out, OracleStyle.Render(model.Message{}.Sender()+":"))
	if c.markdown {
		fmt.Fprintln(c.out, components.RenderMarkdown(text, c.width-2, c.dark))
		return
	}
	fmt.Fprintln(c.out, text)
	fmt.Fprintln(c.out)
}

func (c *LineChat) printFiles() {
	if len(c.session.PendingFiles) == 0 {
		fmt.Fprintln(c.out, DimStyle.Render("No files attached."))
		return
	}
	fmt.Fprintln(c.out, TitleStyle.Render(fmt.Sprintf("Selected Files (%d)", len(c.session.PendingFiles))))
	for i, f := range c.session.PendingFiles {
		fmt.Fprintf(c.out, "  %d. [%s] %s\n", i+1, upload.Kind(f.MIMEType), components.FileChipLabel(f, c.width-10))
	}
}

func (c *LineChat) printHelp() {
	fmt.Fprintln(c.out, TitleStyle.Render("Commands"))
	for _, row := range [][2]string{
		{"/attach PATH...", "Attach files to the next message"},
		{"/files", "List attached files"},
		{"/detach N", "Remove attached file N"},
		{"/quit", "Leave"},
		{"//text", "Send text that starts with /"},
	} {
		fmt.Fprintf(c.out, "  %s%s\n", LabelStyle.Render(row[0]), row[1])
	}
}

func (c *LineChat) toast(kind components.ToastKind, msg string) {
	style := WarningStyle
	switch kind {
	case components.ToastKindError:
		style = ErrorStyle
	case components.ToastKindSuccess:
		style = SuccessStyle
	}
	fmt.Fprintln(c.out, style.Render(util.TruncateWidth(msg, c.width)))
}

func (c *LineChat) warn(msg string) {
	c.toast(components.ToastKindWarning, msg)
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// HandleChat runs line mode on the process terminal.
func HandleChat(ctx context.Context, cfg *config.Config, b chat.Backend, dark bool) error {
	in := NewChatCLI()
	defer in.Close()

	fmt.Println(TitleStyle.Render(components.HeaderTitle))
	fmt.Println(RenderSeparator(min(GetTerminalWidth(), 60)))
	return NewLineChat(cfg, b, os.Stdout, dark).Run(ctx, in)
}

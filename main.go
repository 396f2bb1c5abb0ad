// redpill - consult the Oracle from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hughclaw18/redpill-interface/internal/backend"
	"github.com/Hughclaw18/redpill-interface/internal/cli"
	"github.com/Hughclaw18/redpill-interface/internal/config"
	"github.com/Hughclaw18/redpill-interface/internal/speech"
	"github.com/Hughclaw18/redpill-interface/internal/ui/chat"
	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
	"github.com/Hughclaw18/redpill-interface/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.GetExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	}

	closeLog := setupLogging(args.Debug)
	defer closeLog()

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.GetExitCode(err)
	}
	log.Printf("Starting %s (backend %s)", cmd, cfg.Backend.URL)

	switch cmd {
	case cli.CmdConfig:
		err = cli.HandleConfig(os.Stdout, cfg, args)
	case cli.CmdChat:
		err = runLineChat(cfg)
	default:
		if args.Plain || !cli.CanRunTUI() {
			err = runLineChat(cfg)
		} else {
			err = runTUI(cfg)
		}
	}

	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// setupLogging sends log output to ~/.redpill/redpill.log with --debug and
// discards it otherwise. Nothing may write to the terminal while the
// interface owns it.
func setupLogging(debug bool) func() {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}
	}

	path, err := config.LogPath()
	if err == nil {
		err = config.EnsureConfigDir()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := tea.LogToFile(path, "redpill")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { f.Close() }
}

func runLineChat(cfg *config.Config) error {
	theme := styles.NewTheme(cfg.UI.Theme)
	return cli.HandleChat(context.Background(), cfg, backend.NewFromConfig(cfg.Backend), theme.IsDark)
}

// runTUI starts the full screen interface.
func runTUI(cfg *config.Config) error {
	theme := styles.NewTheme(cfg.UI.Theme)
	client := backend.NewFromConfig(cfg.Backend)

	provider := speech.Resolve(cfg.Speech)
	if u, ok := provider.(speech.Unsupported); ok {
		log.Printf("Speech input disabled: %s", u.Reason)
	}

	var watcher *upload.DropWatcher
	if cfg.Upload.DropDir != "" {
		w, err := upload.NewDropWatcher(cfg.Upload.DropDir, upload.DefaultDebounce)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: drop zone %s unavailable: %v\n", cfg.Upload.DropDir, err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	app := NewApp(theme, cfg, client, provider, watcher)
	defer app.Shutdown()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running redpill: %w", err)
	}
	return nil
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application screen.
type State int

const (
	StateLogin State = iota
	StateChat
)

// App is the top-level Bubble Tea model: the login gate, then the chat.
// It owns the toast stack for both.
type App struct {
	state State
	theme *styles.Theme
	cfg   *config.Config

	width  int
	height int

	login *components.LoginModel
	rain  *components.Rain

	chatModel chat.Model

	toasts       *components.ToastManager
	toastTicking bool
}

// NewApp creates the application model. A nil watcher disables the drop
// zone.
func NewApp(theme *styles.Theme, cfg *config.Config, b chat.Backend, provider speech.Provider, watcher *upload.DropWatcher) *App {
	a := &App{
		state:     StateLogin,
		theme:     theme,
		cfg:       cfg,
		width:     80,
		height:    24,
		login:     components.NewLoginModel(theme),
		chatModel: chat.New(theme, cfg, b, provider).WithDropWatcher(watcher),
		toasts:    components.NewToastManager(),
	}
	if cfg.UI.Rain {
		a.rain = components.NewRain(cfg.UI.RainInterval())
		a.rain.SetSize(a.width, a.height)
	}
	if cfg.UI.SkipLogin {
		a.state = StateChat
	}
	return a
}

// State returns the current screen.
func (a *App) State() State { return a.state }

// Init starts the login rain, or the chat when the login is skipped.
func (a *App) Init() tea.Cmd {
	if a.state == StateChat {
		return a.chatModel.Init()
	}
	if a.rain != nil {
		return a.rain.Start()
	}
	return nil
}

// Shutdown stops every timer and background task. Safe to call twice.
func (a *App) Shutdown() {
	if a.rain != nil {
		a.rain.Stop()
	}
	a.login.Reset()
	a.chatModel.Shutdown()
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		if a.rain != nil {
			a.rain.SetSize(msg.Width, msg.Height)
		}
		// The chat is sized even behind the login so it is ready at once.
		return a, a.updateChat(msg)

	case tea.KeyMsg:
		return a, a.handleKeyPress(msg)

	case components.ToastMsg:
		a.toasts.Add(components.NewToast(msg.Kind, msg.Message))
		return a, a.startToastTick()

	case components.ToastTickMsg:
		if a.toasts.Prune() == 0 {
			a.toastTicking = false
			return a, nil
		}
		return a, components.ToastTickCmd()

	case components.LoginMsg:
		return a, a.enterChat()
	}

	if a.state == StateLogin {
		cmd := a.login.Update(msg)
		if a.rain != nil {
			cmd = tea.Batch(cmd, a.rain.Update(msg))
		}
		return a, cmd
	}
	return a, a.updateChat(msg)
}

func (a *App) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		a.Shutdown()
		return tea.Quit
	case "esc":
		if a.toasts.DismissNewest() {
			return nil
		}
	}

	if a.state == StateLogin {
		return a.login.Update(msg)
	}
	return a.updateChat(msg)
}

func (a *App) updateChat(msg tea.Msg) tea.Cmd {
	next, cmd := a.chatModel.Update(msg)
	a.chatModel = next.(chat.Model)
	return cmd
}

// enterChat leaves the login screen. The login rain stops; the chat runs
// its own band.
func (a *App) enterChat() tea.Cmd {
	if a.state == StateChat {
		return nil
	}
	a.state = StateChat
	if a.rain != nil {
		a.rain.Stop()
	}
	log.Printf("Login complete")
	return a.chatModel.Init()
}

func (a *App) startToastTick() tea.Cmd {
	if a.toastTicking {
		return nil
	}
	a.toastTicking = true
	return components.ToastTickCmd()
}

// View renders the current screen with the toast stack on top.
func (a *App) View() string {
	var content string
	switch a.state {
	case StateChat:
		content = a.chatModel.View()
	default:
		panel := a.login.View()
		if a.rain != nil {
			content = a.rain.Overlay(panel)
		} else {
			content = lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, panel)
		}
	}

	stack := components.RenderToastStack(a.toasts.Toasts(), max(12, min(48, a.width-2)), time.Now())
	return overlayToasts(content, stack, a.width)
}

// overlayToasts draws the stack right-aligned over the bottom rows of view,
// keeping the last row (the status bar) visible.
func overlayToasts(view, stack string, width int) string {
	if stack == "" {
		return view
	}
	lines := strings.Split(view, "\n")
	toastLines := strings.Split(stack, "\n")

	end := len(lines) - 1
	start := end - len(toastLines)
	if start < 0 {
		toastLines = toastLines[-start:]
		start = 0
	}
	for i, tl := range toastLines {
		lines[start+i] = lipgloss.PlaceHorizontal(width, lipgloss.Right, tl+" ")
	}
	return strings.Join(lines, "\n")
}

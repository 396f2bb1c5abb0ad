// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing for redpill.
package cli

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	"github.com/Hughclaw18/redpill-interface/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

func (c Command) String() string {
	switch c {
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "tui"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Backend    string
	ConfigPath string
	SkipLogin  bool
	NoRain     bool
	Plain      bool
	Debug      bool
	Force      bool

	// config subcommand and key
	Subcommand string
	ConfigKey  string
}

var (
	globalValueFlags = []string{"backend", "config"}
	globalBoolFlags  = []string{"skip-login", "no-rain", "plain", "debug", "force", "help", "h", "version", "v"}
)

const usageText = `redpill - consult the Oracle from your terminal

Usage:
  redpill [tui]              Start the interface (default)
  redpill chat               Line mode chat
  redpill config [show]      Print the effective configuration
  redpill config get KEY     Print one value (e.g. backend.url)
  redpill config keys        List configuration keys
  redpill config toml        Print the configuration as TOML
  redpill config path        Print the config file location
  redpill config init        Write the defaults to the config file
  redpill version            Show version information
  redpill help               Show this help

Global Flags:
  --backend URL     Backend base URL (overrides backend.url)
  --config PATH     Read configuration from PATH (.toml or .json)
  --skip-login      Go straight to the chat
  --no-rain         Disable the falling glyph background
  --plain           Use line mode even on a terminal
  --debug           Write logs to ~/.redpill/redpill.log
  --force           Let "config init" replace an existing file

Line Mode Commands:
  /attach PATH...   Attach files to the next message
  /files            List attached files
  /detach N         Remove attached file N
  /help             Show line mode help
  /quit             Leave
  //text            Send a line that starts with "/"

Environment:
  REDPILL_BACKEND_URL, REDPILL_SPEECH_COMMAND, REDPILL_DROP_DIR,
  REDPILL_SKIP_LOGIN, REDPILL_NO_RAIN. A .env file in the working
  directory or ~/.redpill is loaded first.

Keys (interface):
  enter send    tab focus    alt+a attach    alt+s microphone
  alt+e editor  alt+1/alt+2 editor/output tabs    alt+k skip decoding
  esc dismiss toast    ctrl+c quit

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "redpill version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments (without the program name). Global
// flags may appear anywhere.
func Parse(argv []string) (Command, Args, error) {
	var args Args

	p, err := NewArgParser(argv, globalValueFlags...)
	if err != nil {
		return CmdHelp, args, err
	}
	if err := p.UnknownBool(globalBoolFlags...); err != nil {
		return CmdHelp, args, err
	}

	args.Backend = p.Flag("backend")
	args.ConfigPath = p.Flag("config")
	args.SkipLogin = p.BoolFlag("skip-login")
	args.NoRain = p.BoolFlag("no-rain")
	args.Plain = p.BoolFlag("plain")
	args.Debug = p.BoolFlag("debug")
	args.Force = p.BoolFlag("force")

	if p.BoolFlag("help", "h") {
		return CmdHelp, args, nil
	}
	if p.BoolFlag("version", "v") {
		return CmdVersion, args, nil
	}

	cmd := strings.ToLower(p.Positional(0))
	switch cmd {
	case "", "tui":
		return CmdTUI, args, extraArgs(p, 1)

	case "chat":
		return CmdChat, args, extraArgs(p, 1)

	case "config":
		args.Subcommand = strings.ToLower(p.Positional(1))
		if args.Subcommand == "" {
			args.Subcommand = "show"
		}
		if args.Subcommand == "get" {
			args.ConfigKey = p.Positional(2)
			if args.ConfigKey == "" {
				return CmdConfig, args, &UsageError{Arg: "config get", Reason: "missing KEY"}
			}
			return CmdConfig, args, extraArgs(p, 3)
		}
		return CmdConfig, args, extraArgs(p, 2)

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, &UsageError{Arg: cmd, Reason: "unknown command"}
	}
}

func extraArgs(p *ArgParser, from int) error {
	if rest := p.PositionalFrom(from); len(rest) > 0 {
		return &UsageError{Arg: rest[0], Reason: "unexpected argument"}
	}
	return nil
}

// Apply writes the command line overrides into cfg. Flags win over the
// environment, which wins over the file.
func (a Args) Apply(cfg *config.Config) {
	if a.Backend != "" {
		cfg.Backend.URL = a.Backend
	}
	if a.SkipLogin {
		cfg.UI.SkipLogin = true
	}
	if a.NoRain {
		cfg.UI.Rain = false
	}
}

// LoadConfig loads the configuration for args: --config if given, the
// default locations otherwise, then the flag overrides.
func LoadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config

	if args.ConfigPath != "" {
		loaded, err := config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, &ConfigError{Path: args.ConfigPath, Err: err}
		}
		cfg = loaded
	} else {
		loaded, err := config.Load()
		if loaded == nil {
			return nil, &ConfigError{Err: err}
		}
		if err != nil {
			log.Printf("Config: %v (using defaults)", err)
		}
		cfg = loaded
	}

	args.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: args.ConfigPath, Err: err}
	}
	return cfg, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hughclaw18/redpill-interface/internal/backend"
	"github.com/Hughclaw18/redpill-interface/internal/config"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser(t *testing.T) {
	p, err := NewArgParser([]string{"--skip-login", "chat", "--backend", "http://x", "--config=a.toml", "--", "--literal"}, "backend", "config")
	if err != nil {
		t.Fatalf("NewArgParser: %v", err)
	}
	if !p.BoolFlag("skip-login") {
		t.Error("skip-login should be set")
	}
	if got := p.Positional(0); got != "chat" {
		t.Errorf("Positional(0) = %q, want chat (bool flags must not take values)", got)
	}
	if got := p.Flag("backend"); got != "http://x" {
		t.Errorf("Flag(backend) = %q", got)
	}
	if got := p.Flag("--config"); got != "a.toml" {
		t.Errorf("Flag(config) = %q", got)
	}
	if got := p.Positional(1); got != "--literal" {
		t.Errorf("args after -- should be positional, got %q", got)
	}
	if p.PositionalCount() != 2 {
		t.Errorf("PositionalCount() = %d, want 2", p.PositionalCount())
	}
	if got := p.FlagOrDefault("missing", "def"); got != "def" {
		t.Errorf("FlagOrDefault = %q", got)
	}
	if p.Positional(9) != "" || p.PositionalFrom(9) != nil {
		t.Error("out of range positionals should be empty")
	}
}

func TestArgParser_MissingValue(t *testing.T) {
	_, err := NewArgParser([]string{"--backend"}, "backend")
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("want UsageError, got %v", err)
	}
}

func TestArgParser_ExplicitBool(t *testing.T) {
	p, err := NewArgParser([]string{"--debug=false", "--plain=true"})
	if err != nil {
		t.Fatal(err)
	}
	if p.BoolFlag("debug") {
		t.Error("--debug=false should be false")
	}
	if !p.BoolFlag("plain") {
		t.Error("--plain=true should be true")
	}
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    Command
		wantErr bool
		check   func(*testing.T, Args)
	}{
		{name: "default", argv: nil, want: CmdTUI},
		{name: "tui", argv: []string{"tui"}, want: CmdTUI},
		{name: "chat", argv: []string{"chat"}, want: CmdChat},
		{
			name: "flags before command",
			argv: []string{"--skip-login", "--no-rain", "--backend", "http://oracle:9000", "chat"},
			want: CmdChat,
			check: func(t *testing.T, a Args) {
				if !a.SkipLogin || !a.NoRain {
					t.Errorf("bool flags not set: %+v", a)
				}
				if a.Backend != "http://oracle:9000" {
					t.Errorf("Backend = %q", a.Backend)
				}
			},
		},
		{
			name: "flags after command",
			argv: []string{"tui", "--plain", "--debug", "--config=/tmp/c.toml"},
			want: CmdTUI,
			check: func(t *testing.T, a Args) {
				if !a.Plain || !a.Debug || a.ConfigPath != "/tmp/c.toml" {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{
			name: "config default",
			argv: []string{"config"},
			want: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q", a.Subcommand)
				}
			},
		},
		{
			name: "config init force",
			argv: []string{"config", "init", "--force"},
			want: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "init" || !a.Force {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{
			name: "config get",
			argv: []string{"config", "get", "backend.url"},
			want: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "get" || a.ConfigKey != "backend.url" {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{name: "config get without key", argv: []string{"config", "get"}, want: CmdConfig, wantErr: true},
		{name: "version", argv: []string{"version"}, want: CmdVersion},
		{name: "version flag", argv: []string{"--version"}, want: CmdVersion},
		{name: "help flag", argv: []string{"chat", "-h"}, want: CmdHelp},
		{name: "help", argv: []string{"help"}, want: CmdHelp},
		{name: "unknown command", argv: []string{"frobnicate"}, want: CmdHelp, wantErr: true},
		{name: "unknown flag", argv: []string{"--bogus"}, want: CmdHelp, wantErr: true},
		{name: "extra argument", argv: []string{"chat", "now"}, want: CmdChat, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if cmd != tt.want {
				t.Errorf("command = %s, want %s", cmd, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && GetExitCode(err) != ExitUsageError {
				t.Errorf("parse errors should be usage errors, got exit %d", GetExitCode(err))
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestArgsApply(t *testing.T) {
	cfg := config.Default()
	Args{}.Apply(cfg)
	if cfg.Backend.URL != config.Default().Backend.URL || !cfg.UI.Rain || cfg.UI.SkipLogin {
		t.Fatal("empty args should not change config")
	}

	Args{Backend: "http://zion:1", SkipLogin: true, NoRain: true}.Apply(cfg)
	if cfg.Backend.URL != "http://zion:1" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if !cfg.UI.SkipLogin || cfg.UI.Rain {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, want := range []string{"redpill chat", "--backend URL", "/attach", Version} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}

	buf.Reset()
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "redpill version "+Version) {
		t.Errorf("version output = %q", buf.String())
	}
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{&UsageError{Arg: "x", Reason: "bad"}, ExitUsageError},
		{fmt.Errorf("wrapped: %w", &UsageError{Reason: "bad"}), ExitUsageError},
		{&ConfigError{Path: "c.toml", Err: errors.New("parse")}, ExitConfigError},
		{config.ValidateErrors{{Field: "backend.url", Message: "empty"}}, ExitConfigError},
		{&backend.Error{Op: "chat", Kind: backend.KindTransport, Err: errors.New("refused")}, ExitNetworkError},
		{errors.New("something else"), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &UsageError{Arg: "--bogus", Reason: "unknown flag"})
	out := buf.String()
	if !strings.Contains(out, "--bogus: unknown flag") || !strings.Contains(out, "redpill help") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	DisplayError(&buf, nil)
	if buf.Len() != 0 {
		t.Error("nil error should print nothing")
	}
}

// =============================================================================
// CONFIG COMMAND TESTS (config.go)
// =============================================================================

func TestHandleConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.URL = "http://oracle.test"

	var buf bytes.Buffer
	if err := HandleConfig(&buf, cfg, Args{Subcommand: "get", ConfigKey: "backend.url"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "http://oracle.test" {
		t.Errorf("get backend.url = %q", got)
	}

	buf.Reset()
	if err := HandleConfig(&buf, cfg, Args{Subcommand: "show"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"backend.url", "http://oracle.test", "ui.rain", "editor.save_name"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("show missing %q", want)
		}
	}

	buf.Reset()
	if err := HandleConfig(&buf, cfg, Args{Subcommand: "keys"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "speech.command\n") {
		t.Errorf("keys = %q", buf.String())
	}

	buf.Reset()
	if err := HandleConfig(&buf, cfg, Args{Subcommand: "toml"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[backend]") {
		t.Errorf("toml = %q", buf.String())
	}

	err := HandleConfig(&buf, cfg, Args{Subcommand: "get", ConfigKey: "backend.nope"})
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("unknown key: err = %v", err)
	}
	err = HandleConfig(&buf, cfg, Args{Subcommand: "frob"})
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("unknown subcommand: err = %v", err)
	}
}

func TestHandleConfig_Init(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".redpill", "config.toml")

	var buf bytes.Buffer
	if err := HandleConfig(&buf, config.Default(), Args{Subcommand: "init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("output = %q, want the path", buf.String())
	}
	written, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if written.Backend.URL != config.Default().Backend.URL {
		t.Errorf("written backend.url = %q", written.Backend.URL)
	}

	err = HandleConfig(&buf, config.Default(), Args{Subcommand: "init"})
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("second init without --force: err = %v", err)
	}
	if err := HandleConfig(&buf, config.Default(), Args{Subcommand: "init", Force: true}); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of redpill.
//
// # Key Types
//
//   - Command: the command to run (tui, chat, config, version, help)
//   - Args: global flags and command arguments
//   - LineChat: line mode chat, used by "redpill chat" and as the
//     fallback when no terminal is attached
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	cfg, err := cli.LoadConfig(args)
//	switch cmd {
//	case cli.CmdChat:
//	    return cli.HandleChat(ctx, cfg, client, dark)
//	case cli.CmdConfig:
//	    return cli.HandleConfig(os.Stdout, cfg, args)
//	}
//
// Errors are returned, never printed; GetExitCode maps them to exit codes.
package cli

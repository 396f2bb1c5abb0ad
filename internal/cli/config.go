// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Hughclaw18/redpill-interface/internal/config"
)

// HandleConfig prints configuration according to args.Subcommand.
func HandleConfig(w io.Writer, cfg *config.Config, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(w, cfg)

	case "get":
		v, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return &UsageError{Arg: args.ConfigKey, Reason: err.Error()}
		}
		fmt.Fprintln(w, config.FormatValue(v))
		return nil

	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(w, k)
		}
		return nil

	case "toml":
		fmt.Fprint(w, cfg.String())
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return &ConfigError{Err: err}
		}
		fmt.Fprintln(w, path)
		return nil

	case "init":
		path, err := config.WriteDefault(args.Force)
		if err != nil {
			if errors.Is(err, config.ErrConfigExists) {
				return &UsageError{Arg: "config init", Reason: path + " exists (use --force to replace it)"}
			}
			return &ConfigError{Path: path, Err: err}
		}
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Wrote"), path)
		return nil

	default:
		return &UsageError{Arg: "config " + args.Subcommand, Reason: "unknown config subcommand"}
	}
}

// handleConfigShow lists every key with its effective value.
func handleConfigShow(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, TitleStyle.Render("redpill configuration"))
	fmt.Fprintln(w, RenderSeparator(41))

	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		value := config.FormatValue(v)
		if value == "" {
			value = DimStyle.Render("(not set)")
		} else {
			value = ValueStyle.Render(value)
		}
		fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(key), value)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for redpill.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the caller)
//   - Environment variables (REDPILL_*), including .env files
//   - ~/.redpill/config.toml
//   - ~/.redpill/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil && cfg == nil {
//	    log.Fatal(err)
//	}
//	client := backend.New(cfg.Backend.URL)
package config

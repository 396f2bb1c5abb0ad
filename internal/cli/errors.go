// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for redpill commands.
//
// Commands always return errors; main decides how to show them and which
// exit code to use.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Hughclaw18/redpill-interface/internal/backend"
	"github.com/Hughclaw18/redpill-interface/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates an unreadable or invalid config file
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError is a bad command line.
type UsageError struct {
	Arg    string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Arg == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Arg, e.Reason)
}

// ConfigError wraps a failure to load or validate configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// DISPLAY
// =============================================================================

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}

	var cfgErr *ConfigError
	var validation config.ValidateErrors
	if errors.As(err, &cfgErr) || errors.As(err, &validation) {
		return ExitConfigError
	}

	if backend.IsKind(err, backend.KindTransport) {
		return ExitNetworkError
	}

	return ExitGeneralError
}

// DisplayError writes err to w in the error style. Usage errors get a hint.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)

	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, DimStyle.Render("Run 'redpill help' for usage."))
	}
}

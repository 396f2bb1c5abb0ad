// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/Hughclaw18/redpill-interface/internal/config"
)

// ErrUnsupported is returned by providers that cannot recognise speech.
var ErrUnsupported = errors.New("speech recognition not supported")

// Event is one result from a running recognition. Interim results have
// Final false; a failed recognition sends one Event with Err set.
type Event struct {
	Transcript string
	Final      bool
	Err        error
}

// Recognition is a running speech-to-text session. Events is closed when
// the session ends, whether by Stop, an error, or the engine finishing.
type Recognition interface {
	Events() <-chan Event
	Stop() error
}

// Provider is the speech capability, resolved once at startup.
type Provider interface {
	// Supported reports whether Start can succeed at all.
	Supported() bool
	// Name describes the engine for status lines.
	Name() string
	// Start begins listening. Cancelling ctx stops the recognition.
	Start(ctx context.Context) (Recognition, error)
}

// =============================================================================
// UNSUPPORTED
// =============================================================================

// Unsupported is the provider used when no engine is available.
type Unsupported struct {
	Reason string
}

// Supported always returns false.
func (Unsupported) Supported() bool { return false }

// Name returns a placeholder.
func (Unsupported) Name() string { return "none" }

// Start always fails with ErrUnsupported.
func (u Unsupported) Start(context.Context) (Recognition, error) {
	return nil, ErrUnsupported
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve picks the provider for cfg. An empty command, or a command whose
// program is not on PATH, resolves to Unsupported.
func Resolve(cfg config.SpeechConfig) Provider {
	args := strings.Fields(cfg.Command)
	if len(args) == 0 {
		return Unsupported{Reason: "no speech command configured"}
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		return Unsupported{Reason: args[0] + " not found"}
	}
	return &CommandProvider{
		Path: path,
		Args: args[1:],
		Lang: cfg.Lang,
	}
}

// FinalText joins the final segments of a batch of events. Interim
// segments are dropped.
func FinalText(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Final && e.Err == nil {
			b.WriteString(e.Transcript)
		}
	}
	return b.String()
}

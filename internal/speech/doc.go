// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides speech-to-text input.
//
// A Provider is resolved once from configuration. When no recognizer is
// configured the Unsupported provider is used and the microphone control is
// shown disabled. Otherwise CommandProvider runs an external program that
// streams JSON lines; only final segments are meant to reach the chat input.
//
// # Usage
//
//	p := speech.Resolve(cfg.Speech)
//	rec, err := p.Start(ctx)
//	if errors.Is(err, speech.ErrUnsupported) {
//	    // show the disabled control
//	}
//	for ev := range rec.Events() {
//	    if ev.Final {
//	        input += " " + ev.Transcript
//	    }
//	}
package speech

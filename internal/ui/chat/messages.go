// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hughclaw18/redpill-interface/internal/model"
)

// Toast copy for the send pipeline.
const (
	IngestFailedText  = "Failed to ingest documents. Please try again."
	IngestSuccessText = "Documents ingested successfully!"
	ChatFailedText    = "Failed to get response from the Oracle. Please try again."
	NoResponseText    = "No AI response yet..."
	InputPlaceholder  = "Ask the Oracle your question..."
)

// Backend is the service the chat talks to. *backend.Client satisfies it.
type Backend interface {
	Ingest(ctx context.Context, files []model.FileRef) error
	Chat(ctx context.Context, text string) (string, error)
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// SendResultMsg reports how a send went. Every send produces exactly one,
// with Done set, and handling it always ends the loading state.
type SendResultMsg struct {
	Done      bool
	HadFiles  bool
	IngestErr error
	Reply     string
	ChatErr   error
}

// Ingested reports whether the files, if any, reached the backend.
func (r SendResultMsg) Ingested() bool {
	return r.HadFiles && r.IngestErr == nil
}

// ChatAttempted reports whether the chat request was made.
func (r SendResultMsg) ChatAttempted() bool {
	return r.IngestErr == nil
}

// SendPipeline ingests any files and then asks the question. A failed
// ingest skips the chat request.
func SendPipeline(ctx context.Context, b Backend, out model.Outgoing) tea.Cmd {
	return func() tea.Msg {
		res := SendResultMsg{Done: true, HadFiles: out.HasFiles()}

		if res.HadFiles {
			if err := b.Ingest(ctx, out.Files); err != nil {
				log.Printf("Ingest of %d file(s) failed: %v", len(out.Files), err)
				res.IngestErr = err
				return res
			}
		}

		reply, err := b.Chat(ctx, out.Text)
		if err != nil {
			log.Printf("Chat request failed: %v", err)
			res.ChatErr = err
			return res
		}
		res.Reply = reply
		return res
	}
}

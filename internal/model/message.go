// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Greeting is the assistant message every new session opens with.
const Greeting = "Greetings, Neo. I am the Oracle. I have been expecting you. " +
	"The Matrix holds many secrets, and I am here to guide you through them. " +
	"What questions do you bring to me today?"

// =============================================================================
// FILE REFERENCE
// =============================================================================

// FileRef is a file selected for upload. Data holds the payload read at
// selection time so a later send does not depend on the file still existing.
type FileRef struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn in the transcript. Messages are never mutated after
// they are appended to a Session.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
	Files     []FileRef `json:"files,omitempty"`
}

// NewUserMessage creates a user message. The file list is copied so the
// caller may reuse its slice.
func NewUserMessage(text string, files []FileRef) Message {
	var attached []FileRef
	if len(files) > 0 {
		attached = make([]FileRef, len(files))
		copy(attached, files)
	}
	return Message{
		ID:        generateID(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now(),
		Files:     attached,
	}
}

// NewAssistantMessage creates an assistant message with the reply verbatim.
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        generateID(),
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Sender returns the display name for the message author.
func (m Message) Sender() string {
	if m.IsUser {
		return "NEO"
	}
	return "ORACLE"
}

// TimeString formats the timestamp the way bubbles show it.
func (m Message) TimeString() string {
	return m.Timestamp.Format("15:04:05")
}

// Preview returns a single-line preview of the text.
func (m Message) Preview(maxLen int) string {
	text := strings.Join(strings.Fields(m.Text), " ")
	runes := []rune(text)
	if maxLen <= 3 || len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

func generateID() string {
	return uuid.NewString()
}

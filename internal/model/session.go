// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the in-memory state of one chat. It is owned by the UI update
// loop; nothing here is safe for concurrent use and nothing is persisted.
type Session struct {
	Messages     []Message
	PendingFiles []FileRef
	InputText    string
	IsLoading    bool
}

// Outgoing is what a send hands to the network layer: the text exactly as
// typed and the files that were pending.
type Outgoing struct {
	Text  string
	Files []FileRef
}

// HasFiles reports whether the send needs an ingest request.
func (o Outgoing) HasFiles() bool {
	return len(o.Files) > 0
}

// NewSession returns a session opened with the Oracle's greeting.
func NewSession() *Session {
	return &Session{
		Messages: []Message{{
			ID:        generateID(),
			Text:      Greeting,
			Timestamp: time.Now(),
		}},
	}
}

// CanSend reports whether a send would do anything: there must be
// non-blank text or at least one pending file, and no send in flight.
func (s *Session) CanSend() bool {
	if s.IsLoading {
		return false
	}
	return strings.TrimSpace(s.InputText) != "" || len(s.PendingFiles) > 0
}

// BeginSend appends the user message, clears the input and pending files,
// and marks the session loading. It returns false and changes nothing when
// CanSend is false.
func (s *Session) BeginSend() (Outgoing, bool) {
	if !s.CanSend() {
		return Outgoing{}, false
	}

	msg := NewUserMessage(s.InputText, s.PendingFiles)
	s.Messages = append(s.Messages, msg)

	out := Outgoing{Text: s.InputText, Files: msg.Files}
	s.InputText = ""
	s.PendingFiles = nil
	s.IsLoading = true
	return out, true
}

// ApplyReply appends the assistant reply.
func (s *Session) ApplyReply(text string) Message {
	msg := NewAssistantMessage(text)
	s.Messages = append(s.Messages, msg)
	return msg
}

// Finish ends the in-flight send. Called once per BeginSend whatever the
// outcome.
func (s *Session) Finish() {
	s.IsLoading = false
}

// AddPendingFiles appends already validated files to the pending list.
func (s *Session) AddPendingFiles(files ...FileRef) {
	s.PendingFiles = append(s.PendingFiles, files...)
}

// RemovePendingFile drops the file at index i, keeping the order of the
// rest. Out of range indexes are ignored.
func (s *Session) RemovePendingFile(i int) bool {
	if i < 0 || i >= len(s.PendingFiles) {
		return false
	}
	next := make([]FileRef, 0, len(s.PendingFiles)-1)
	next = append(next, s.PendingFiles[:i]...)
	next = append(next, s.PendingFiles[i+1:]...)
	s.PendingFiles = next
	return true
}

// AppendTranscript adds a recognised speech segment to the input, separated
// by a space.
func (s *Session) AppendTranscript(transcript string) {
	s.InputText += " " + transcript
}

// LastAssistantText returns the newest assistant message text.
func (s *Session) LastAssistantText() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if !s.Messages[i].IsUser {
			return s.Messages[i].Text, true
		}
	}
	return "", false
}

// IsLatestReply reports whether message i is an assistant message at the
// end of the transcript. Only that bubble shows the idle cursor.
func (s *Session) IsLatestReply(i int) bool {
	return i == len(s.Messages)-1 && i >= 0 && !s.Messages[i].IsUser
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for a chat session.
//
// # Key Types
//
//   - Session: Transcript, pending files, input text and loading flag
//   - Message: One turn, authored by the user or the assistant
//   - FileRef: A file selected for upload, with its payload
//   - Outgoing: What BeginSend hands to the backend client
//
// # Usage
//
//	s := model.NewSession()
//	s.InputText = "What is the Matrix?"
//	out, ok := s.BeginSend()
//	if ok {
//	    // ingest out.Files, then chat with out.Text
//	    s.ApplyReply(reply)
//	    s.Finish()
//	}
package model

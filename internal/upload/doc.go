// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload selects and validates files for ingestion.
//
// Files reach the chat three ways: a typed path, a terminal drag-and-drop
// (the terminal pastes the dropped paths, see ParsePaths), or a drop zone
// directory watched by DropWatcher. All of them go through Validator, which
// enforces the size limit and the media type allow-list:
//
//   - image/*, video/*, audio/*, text/*
//   - application/pdf
//   - application/msword and the OOXML word document type
//
// Types are sniffed from content with mimetype; the extension is only used
// when the content is inconclusive. Rejected files are returned separately
// and never reach the pending list.
package upload

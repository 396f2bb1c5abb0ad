// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across redpill.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, StringWidth: terminal cell width aware helpers
//   - FormatKB: file size display used by the upload list and bubbles
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - UniquePath: non-clobbering file names for saved editor content
package util

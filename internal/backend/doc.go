// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Oracle backend.
//
// The backend exposes two endpoints:
//
//   - POST /ingest: multipart/form-data with one "files" part per document
//   - POST /chat: {"message": "..."} answered with {"response": "..."}
//
// Every failure is a *Error carrying the operation, an ErrorKind and the
// HTTP status when there was one. Nothing is retried.
//
// # Usage
//
//	client := backend.NewFromConfig(cfg.Backend)
//	if err := client.Ingest(ctx, files); err != nil {
//	    return err
//	}
//	reply, err := client.Chat(ctx, "What is the Matrix?")
package backend

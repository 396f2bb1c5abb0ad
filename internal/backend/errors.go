// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
)

// Error variables for backend failures.
var (
	// ErrNoFiles indicates Ingest was called with nothing to upload.
	ErrNoFiles = errors.New("no files to ingest")

	// ErrMissingResponse indicates a 2xx chat reply without a "response" field.
	ErrMissingResponse = errors.New("reply has no response field")
)

// ErrorKind classifies a backend failure.
type ErrorKind int

const (
	// KindTransport covers connection, timeout and body read failures.
	KindTransport ErrorKind = iota
	// KindStatus is a non-2xx HTTP status.
	KindStatus
	// KindDecode is a 2xx reply that could not be parsed.
	KindDecode
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call.
type Error struct {
	Op     string // "ingest" or "chat"
	Kind   ErrorKind
	Status int // HTTP status, 0 for transport failures
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

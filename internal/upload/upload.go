// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Hughclaw18/redpill-interface/internal/model"
)

// DefaultMaxFileSize is the per-file limit when none is configured.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Sentinel rejection reasons.
var (
	// ErrTooLarge indicates a file over the size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrUnsupportedType indicates a file whose type is not on the allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNotRegular indicates a directory, device or other non-file path.
	ErrNotRegular = errors.New("not a regular file")
)

// allowedPrefixes are whole top-level media types.
var allowedPrefixes = []string{"image/", "video/", "audio/", "text/"}

// allowedExact are individual document types.
var allowedExact = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// extTypes is consulted when content sniffing only finds a generic type.
var extTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

// Rejection records a file that was not accepted and why.
type Rejection struct {
	Path   string
	Reason error
}

// Error implements the error interface so a Rejection can be wrapped.
func (r Rejection) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(r.Path), r.Reason)
}

// Unwrap returns the reason.
func (r Rejection) Unwrap() error {
	return r.Reason
}

// Message is the user-facing text for a toast.
func (r Rejection) Message() string {
	name := filepath.Base(r.Path)
	switch {
	case errors.Is(r.Reason, ErrTooLarge):
		return fmt.Sprintf("%s is larger than the upload limit", name)
	case errors.Is(r.Reason, ErrUnsupportedType):
		return fmt.Sprintf("%s is not a supported file type", name)
	default:
		return fmt.Sprintf("Could not read %s", name)
	}
}

// IsAllowed reports whether a MIME type is on the allow-list. Parameters
// such as "; charset=utf-8" are ignored.
func IsAllowed(mimeType string) bool {
	mt := baseType(mimeType)
	if allowedExact[mt] {
		return true
	}
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(mt, p) {
			return true
		}
	}
	return false
}

func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// DetectType sniffs the content type and falls back to the file extension
// when the content alone is inconclusive.
func DetectType(name string, data []byte) string {
	detected := baseType(mimetype.Detect(data).String())
	if detected != "application/octet-stream" && detected != "application/zip" &&
		detected != "application/x-ole-storage" {
		return detected
	}
	if t, ok := extTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return detected
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks candidate files against the size limit and allow-list.
type Validator struct {
	MaxSize int64
}

// NewValidator creates a validator with the given limit, or the default
// limit when maxSize is not positive.
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Validator{MaxSize: maxSize}
}

// Load validates one path and reads its payload. The size is checked before
// the file is read.
func (v *Validator) Load(path string) (model.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileRef{}, err
	}
	if !info.Mode().IsRegular() {
		return model.FileRef{}, ErrNotRegular
	}
	if info.Size() > v.MaxSize {
		return model.FileRef{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, info.Size(), v.MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.FileRef{}, err
	}
	// The file may have grown between Stat and ReadFile
	if int64(len(data)) > v.MaxSize {
		return model.FileRef{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), v.MaxSize)
	}

	mt := DetectType(path, data)
	if !IsAllowed(mt) {
		return model.FileRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mt)
	}

	return model.FileRef{
		Name:     filepath.Base(path),
		Path:     path,
		Size:     int64(len(data)),
		MIMEType: mt,
		Data:     data,
	}, nil
}

// Validate loads every path. Accepted files keep their input order;
// everything else comes back as a Rejection.
func (v *Validator) Validate(paths []string) ([]model.FileRef, []Rejection) {
	var accepted []model.FileRef
	var rejected []Rejection
	for _, p := range paths {
		ref, err := v.Load(p)
		if err != nil {
			rejected = append(rejected, Rejection{Path: p, Reason: err})
			continue
		}
		accepted = append(accepted, ref)
	}
	return accepted, rejected
}

// SuccessMessage is the toast shown after files are added.
func SuccessMessage(n int) string {
	return fmt.Sprintf("%d file(s) uploaded successfully", n)
}

// RemoveAt returns files without the element at i, preserving order. The
// input slice is not modified. Out of range indexes return a copy.
func RemoveAt(files []model.FileRef, i int) []model.FileRef {
	out := make([]model.FileRef, 0, len(files))
	for k, f := range files {
		if k != i {
			out = append(out, f)
		}
	}
	return out
}

// Kind returns a short label for the file list, by media type.
func Kind(mimeType string) string {
	mt := baseType(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return "IMG"
	case strings.HasPrefix(mt, "video/"):
		return "VID"
	case strings.HasPrefix(mt, "audio/"):
		return "AUD"
	case mt == "application/pdf" || strings.HasPrefix(mt, "text/"):
		return "TXT"
	default:
		return "DOC"
	}
}

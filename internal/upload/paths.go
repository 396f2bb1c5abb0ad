// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ParsePaths splits text pasted into the terminal into file paths. Dragging
// files onto most terminals pastes them space separated with shell quoting
// ('a b.txt', "a b.txt" or a\ b.txt); some paste file:// URIs, one per line.
func ParsePaths(s string) []string {
	var paths []string
	var cur strings.Builder
	inToken := false
	var quote rune
	escaped := false

	flush := func() {
		if inToken {
			paths = append(paths, normalizePath(cur.String()))
			cur.Reset()
			inToken = false
		}
	}

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\' && os.PathSeparator != '\\':
			escaped = true
			inToken = true
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizePath turns file:// URIs into paths and expands a leading ~.
func normalizePath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// LooksLikePaths reports whether pasted text is plausibly a file drop: every
// token must name something that exists. Used to tell a drag-and-drop apart
// from ordinary pasted prose.
func LooksLikePaths(s string) bool {
	paths := ParsePaths(s)
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

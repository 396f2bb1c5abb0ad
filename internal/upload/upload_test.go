// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hughclaw18/redpill-interface/internal/model"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

// =============================================================================
// TYPE TESTS
// =============================================================================

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"video/mp4", true},
		{"audio/mpeg", true},
		{"text/plain; charset=utf-8", true},
		{"text/markdown", true},
		{"application/pdf", true},
		{"application/msword", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"application/zip", false},
		{"application/octet-stream", false},
		{"application/json", false},
		{"application/x-elf", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.mime, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAllowed(tc.mime))
		})
	}
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, "image/png", DetectType("picture.bin", pngHeader))
	assert.Equal(t, "application/pdf", DetectType("doc", []byte("%PDF-1.4\n%...")))
	assert.Equal(t, "text/plain", DetectType("notes.md", []byte("hello there\n")))
	// Binary noise with a known extension falls back to the extension
	assert.Equal(t, "application/msword", DetectType("old.doc", []byte{0x00, 0x01, 0x02, 0xff}))
	assert.Equal(t, "application/octet-stream", DetectType("blob.bin", []byte{0x00, 0x01, 0x02, 0xff}))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "IMG", Kind("image/png"))
	assert.Equal(t, "VID", Kind("video/webm"))
	assert.Equal(t, "AUD", Kind("audio/wav"))
	assert.Equal(t, "TXT", Kind("application/pdf"))
	assert.Equal(t, "TXT", Kind("text/plain"))
	assert.Equal(t, "DOC", Kind("application/msword"))
}

// =============================================================================
// VALIDATOR TESTS
// =============================================================================

func TestValidate_AcceptsAndRejects(t *testing.T) {
	dir := t.TempDir()
	ok1 := write(t, dir, "a.txt", []byte("wake up neo"))
	ok2 := write(t, dir, "b.png", pngHeader)
	big := write(t, dir, "big.txt", bytes.Repeat([]byte("x"), 2048))
	bad := write(t, dir, "c.bin", []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	missing := filepath.Join(dir, "missing.txt")

	v := NewValidator(1024)
	accepted, rejected := v.Validate([]string{ok1, big, ok2, bad, missing, dir})

	require.Len(t, accepted, 2)
	assert.Equal(t, "a.txt", accepted[0].Name)
	assert.Equal(t, "b.png", accepted[1].Name)
	assert.Equal(t, []byte("wake up neo"), accepted[0].Data)
	assert.Equal(t, int64(len("wake up neo")), accepted[0].Size)
	assert.Equal(t, "image/png", accepted[1].MIMEType)

	require.Len(t, rejected, 4)
	assert.Equal(t, big, rejected[0].Path)
	assert.ErrorIs(t, rejected[0].Reason, ErrTooLarge)
	assert.ErrorIs(t, rejected[1].Reason, ErrUnsupportedType)
	assert.True(t, errors.Is(rejected[2].Reason, os.ErrNotExist))
	assert.ErrorIs(t, rejected[3].Reason, ErrNotRegular)

	assert.Contains(t, rejected[0].Message(), "big.txt")
	assert.Contains(t, rejected[1].Message(), "not a supported file type")
	assert.ErrorIs(t, rejected[0], ErrTooLarge, "Rejection unwraps to its reason")
}

func TestValidate_DefaultLimitIsTenMiB(t *testing.T) {
	dir := t.TempDir()
	exact := write(t, dir, "exact.txt", bytes.Repeat([]byte("a"), int(DefaultMaxFileSize)))
	over := write(t, dir, "over.txt", bytes.Repeat([]byte("a"), int(DefaultMaxFileSize)+1))

	v := NewValidator(0)
	accepted, rejected := v.Validate([]string{exact, over})

	require.Len(t, accepted, 1)
	assert.Equal(t, "exact.txt", accepted[0].Name)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0].Reason, ErrTooLarge)
}

func TestRejectionLeavesPendingUnchanged(t *testing.T) {
	dir := t.TempDir()
	s := model.NewSession()
	s.AddPendingFiles(model.FileRef{Name: "kept.txt"})

	accepted, rejected := NewValidator(4).Validate([]string{write(t, dir, "big.txt", []byte("too big"))})
	s.AddPendingFiles(accepted...)

	assert.Len(t, rejected, 1)
	assert.Len(t, s.PendingFiles, 1)
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "3 file(s) uploaded successfully", SuccessMessage(3))
}

func TestRemoveAt(t *testing.T) {
	files := []model.FileRef{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	got := RemoveAt(files, 1)
	assert.Equal(t, []model.FileRef{{Name: "a"}, {Name: "c"}}, got)
	assert.Equal(t, "b", files[1].Name, "input is not modified")

	assert.Len(t, RemoveAt(files, 5), 3)
	assert.Len(t, RemoveAt(files, -1), 3)
}

// =============================================================================
// PASTE PARSING TESTS
// =============================================================================

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "/tmp/a.txt", []string{"/tmp/a.txt"}},
		{"several", "/tmp/a.txt /tmp/b.pdf", []string{"/tmp/a.txt", "/tmp/b.pdf"}},
		{"single quoted", "'/tmp/my file.txt'", []string{"/tmp/my file.txt"}},
		{"double quoted", `"/tmp/my file.txt" /tmp/x`, []string{"/tmp/my file.txt", "/tmp/x"}},
		{"escaped space", `/tmp/my\ file.txt`, []string{"/tmp/my file.txt"}},
		{"file uri", "file:///tmp/my%20file.txt\n", []string{"/tmp/my file.txt"}},
		{"newlines", "/tmp/a\n/tmp/b\n", []string{"/tmp/a", "/tmp/b"}},
		{"empty", "   ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePaths(tc.input)
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePaths_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, []string{filepath.Join(home, "docs/a.txt")}, ParsePaths("~/docs/a.txt"))
}

func TestLooksLikePaths(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "real file.txt", []byte("x"))

	assert.True(t, LooksLikePaths("'"+p+"'"))
	assert.False(t, LooksLikePaths("hello world"))
	assert.False(t, LooksLikePaths(""))
}

// =============================================================================
// DROP WATCHER TESTS
// =============================================================================

func TestDropWatcher_OffersNewFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drop")
	dw, err := NewDropWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, dw.Start())
	defer dw.Close()

	write(t, dir, ".hidden", []byte("x"))
	p := write(t, dir, "dropped.txt", []byte("follow the white rabbit"))

	select {
	case got := <-dw.Files():
		assert.Equal(t, []string{p}, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for dropped file")
	}
}

func TestDropWatcher_ReadyBatchIsSorted(t *testing.T) {
	dw, err := NewDropWatcher(t.TempDir(), 100*time.Millisecond)
	require.NoError(t, err)
	defer dw.Close()

	start := time.Now()
	names := []string{"zion.txt", "agent.txt", "morpheus.txt", "b.txt", "neo.txt", "trinity.txt", "a.txt"}
	for _, n := range names {
		dw.touch(filepath.Join(dw.Dir(), n))
	}
	// Still settling; left pending.
	late := filepath.Join(dw.Dir(), "late.txt")
	dw.mu.Lock()
	dw.pending[late] = start.Add(time.Second)
	dw.mu.Unlock()

	got := dw.takeReady(start.Add(500 * time.Millisecond))
	want := make([]string, len(names))
	for i, n := range names {
		want[i] = filepath.Join(dw.Dir(), n)
	}
	sort.Strings(want)
	assert.Equal(t, want, got)

	assert.Empty(t, dw.takeReady(start.Add(500*time.Millisecond)))
	assert.Equal(t, []string{late}, dw.takeReady(start.Add(2*time.Second)))
}

func TestDropWatcher_CloseIsIdempotent(t *testing.T) {
	dw, err := NewDropWatcher(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, dw.Start())

	assert.NoError(t, dw.Close())
	assert.NoError(t, dw.Close())

	_, open := <-dw.Files()
	assert.False(t, open)
}

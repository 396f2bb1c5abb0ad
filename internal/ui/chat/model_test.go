// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hughclaw18/redpill-interface/internal/config"
	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/speech"
	"github.com/Hughclaw18/redpill-interface/internal/ui/components"
	"github.com/Hughclaw18/redpill-interface/internal/ui/styles"
)

var testTheme = styles.NewTheme("dark")

type fakeBackend struct {
	mu        sync.Mutex
	ingested  [][]model.FileRef
	chats     []string
	ingestErr error
	chatErr   error
	reply     string
}

func (f *fakeBackend) Ingest(_ context.Context, files []model.FileRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingested = append(f.ingested, files)
	return f.ingestErr
}

func (f *fakeBackend) Chat(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, text)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.reply, nil
}

func newTestModel(t *testing.T, b Backend) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Rain = false
	cfg.Editor.SaveDir = t.TempDir()
	m := New(testTheme, cfg, b, speech.Unsupported{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs cmd and its batched children, keeping messages that arrive
// promptly.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func resultIn(t *testing.T, msgs []tea.Msg) SendResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(SendResultMsg); ok {
			return r
		}
	}
	t.Fatal("no SendResultMsg produced")
	return SendResultMsg{}
}

func toastTexts(msgs []tea.Msg) []string {
	var out []string
	for _, msg := range msgs {
		if ts, ok := msg.(components.ToastMsg); ok {
			out = append(out, ts.Message)
		}
	}
	return out
}

// sendAndSettle submits text and applies the pipeline result.
func sendAndSettle(t *testing.T, m Model, text string) (Model, []tea.Msg) {
	t.Helper()
	m.input.SetValue(text)
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.session.IsLoading)

	res := resultIn(t, drain(cmd))
	assert.True(t, res.Done)
	m, cmd = update(m, res)
	return m, drain(cmd)
}

func TestNewSessionGreets(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	require.Len(t, m.session.Messages, 1)
	assert.Equal(t, model.Greeting, m.session.Messages[0].Text)
	assert.Equal(t, model.Greeting, m.OutputText())
}

func TestBlankSendIgnored(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b)
	m.input.SetValue("   ")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, m.session.Messages, 1)
	assert.False(t, m.session.IsLoading)
	assert.Empty(t, b.chats)
}

func TestSendTextOnly(t *testing.T) {
	b := &fakeBackend{reply: "There is no spoon."}
	m := newTestModel(t, b)

	m, msgs := sendAndSettle(t, m, "  what is real?  ")

	assert.Equal(t, []string{"  what is real?  "}, b.chats, "text goes out verbatim")
	assert.Empty(t, b.ingested)
	assert.Empty(t, toastTexts(msgs))

	require.Len(t, m.session.Messages, 3)
	assert.True(t, m.session.Messages[1].IsUser)
	assert.Equal(t, "There is no spoon.", m.session.Messages[2].Text)
	assert.False(t, m.session.IsLoading)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "There is no spoon.", m.OutputText())
}

func TestSendWithFiles(t *testing.T) {
	b := &fakeBackend{reply: "Read them."}
	m := newTestModel(t, b)
	files := []model.FileRef{{Name: "a.txt", Data: []byte("a")}, {Name: "b.pdf", Data: []byte("b")}}
	m, _ = update(m, components.FilesAddedMsg{Files: files})
	require.Len(t, m.session.PendingFiles, 2)

	m, msgs := sendAndSettle(t, m, "summarise")

	require.Len(t, b.ingested, 1)
	assert.Equal(t, files, b.ingested[0])
	assert.Equal(t, []string{"summarise"}, b.chats)
	assert.Equal(t, []string{IngestSuccessText}, toastTexts(msgs))
	assert.Empty(t, m.session.PendingFiles)
	assert.Len(t, m.session.Messages[1].Files, 2)
	assert.False(t, m.session.IsLoading)
}

func TestFilesOnlySendAllowed(t *testing.T) {
	b := &fakeBackend{reply: "ok"}
	m := newTestModel(t, b)
	m, _ = update(m, components.FilesAddedMsg{Files: []model.FileRef{{Name: "x.txt"}}})

	m, _ = sendAndSettle(t, m, "")
	assert.Len(t, b.ingested, 1)
	assert.Equal(t, []string{""}, b.chats)
}

func TestIngestFailureSkipsChat(t *testing.T) {
	b := &fakeBackend{ingestErr: errors.New("422")}
	m := newTestModel(t, b)
	m, _ = update(m, components.FilesAddedMsg{Files: []model.FileRef{{Name: "x.txt"}}})

	m, msgs := sendAndSettle(t, m, "question")

	assert.Empty(t, b.chats, "no chat request after a failed ingest")
	assert.Equal(t, []string{IngestFailedText}, toastTexts(msgs))
	assert.Len(t, m.session.Messages, 2, "user message stays, no reply")
	assert.False(t, m.session.IsLoading)
}

func TestChatFailure(t *testing.T) {
	b := &fakeBackend{chatErr: errors.New("boom")}
	m := newTestModel(t, b)

	m, msgs := sendAndSettle(t, m, "hello")

	assert.Equal(t, []string{ChatFailedText}, toastTexts(msgs))
	assert.Len(t, m.session.Messages, 2)
	assert.False(t, m.session.IsLoading)
	assert.Equal(t, model.Greeting, m.OutputText())
}

func TestInputDisabledWhileLoading(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: "x"})
	m.input.SetValue("first")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.session.IsLoading)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zz")})
	assert.Equal(t, "", m.input.Value())

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "no second send while loading")
	assert.Len(t, m.session.Messages, 2)
}

func TestTranscriptAppends(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("tell me")
	m, _ = update(m, components.TranscriptMsg{Text: "about Zion"})
	assert.Equal(t, "tell me about Zion", m.input.Value())
	assert.Equal(t, "tell me about Zion", m.session.InputText)
}

func TestRemovePendingFile(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = update(m, components.FilesAddedMsg{Files: []model.FileRef{{Name: "a"}, {Name: "b"}, {Name: "c"}}})
	m, _ = update(m, components.FileRemovedMsg{Index: 1})

	require.Len(t, m.session.PendingFiles, 2)
	assert.Equal(t, "a", m.session.PendingFiles[0].Name)
	assert.Equal(t, "c", m.session.PendingFiles[1].Name)
}

func TestPastedPathsOpenUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dropped.txt")
	require.NoError(t, os.WriteFile(path, []byte("dropped"), 0o644))

	m := newTestModel(t, &fakeBackend{})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path), Paste: true})
	assert.True(t, m.UploadVisible())
	assert.Equal(t, "", m.input.Value(), "paths are not typed into the input")

	// validation result comes back through Update
	for _, msg := range drain(cmd) {
		m, cmd = update(m, msg)
		for _, follow := range drain(cmd) {
			m, _ = update(m, follow)
		}
	}
	require.Len(t, m.session.PendingFiles, 1)
	assert.Equal(t, "dropped.txt", m.session.PendingFiles[0].Name)
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	assert.Equal(t, FocusInput, m.Focus())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusEditor, m.Focus(), "upload is skipped while hidden")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusInput, m.Focus())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true})
	assert.True(t, m.UploadVisible())
	assert.Equal(t, FocusUpload, m.Focus())
}

func TestTabsAndEditorToggle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	assert.Equal(t, TabOutput, m.ActiveTab())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}, Alt: true})
	assert.False(t, m.EditorVisible())

	narrow, _ := update(newTestModel(t, &fakeBackend{}), tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.False(t, narrow.EditorVisible(), "editor panel hides on narrow terminals")
}

func TestMicUnsupportedToasts(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}, Alt: true})
	assert.Equal(t, []string{components.SpeechUnsupported}, toastTexts(drain(cmd)))
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	out := m.View()
	assert.Contains(t, out, components.HeaderTitle)
	assert.Contains(t, out, "Editor")
	assert.Contains(t, out, "Output")
}

func TestSendPipelineOrder(t *testing.T) {
	var calls []string
	b := &orderBackend{calls: &calls}
	msg := SendPipeline(context.Background(), b, model.Outgoing{Text: "q", Files: []model.FileRef{{Name: "f"}}})()
	res := msg.(SendResultMsg)
	assert.True(t, res.Ingested())
	assert.Equal(t, []string{"ingest", "chat"}, calls)
}

type orderBackend struct{ calls *[]string }

func (o *orderBackend) Ingest(context.Context, []model.FileRef) error {
	*o.calls = append(*o.calls, "ingest")
	return nil
}

func (o *orderBackend) Chat(context.Context, string) (string, error) {
	*o.calls = append(*o.calls, "chat")
	return "a", nil
}

type blockingBackend struct{}

func (blockingBackend) Ingest(ctx context.Context, _ []model.FileRef) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingBackend) Chat(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestShutdownAbortsSend(t *testing.T) {
	m := newTestModel(t, blockingBackend{})
	m.input.SetValue("wait")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.sending.active())

	done := make(chan []tea.Msg, 1)
	go func() { done <- drainWait(cmd) }()
	m.Shutdown()

	select {
	case msgs := <-done:
		res := resultIn(t, msgs)
		assert.ErrorIs(t, res.ChatErr, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("send did not stop after Shutdown")
	}
	assert.False(t, m.sending.active())
}

// drainWait is drain without the timeout, for commands expected to block.
func drainWait(cmd tea.Cmd) []tea.Msg {
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, drainWait(c)...)
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestStatusWhileSending(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: "ok"})
	m, _ = update(m, components.FilesAddedMsg{Files: []model.FileRef{{Name: "a.txt"}}})
	m.input.SetValue("read this")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, components.StatusIngesting, m.status.Status)

	m, _ = update(m, resultIn(t, drain(cmd)))
	assert.Equal(t, components.StatusReady, m.status.Status)

	m.input.SetValue("and this")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, components.StatusThinking, m.status.Status)
}

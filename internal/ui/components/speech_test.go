// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Hughclaw18/redpill-interface/internal/speech"
)

type fakeRecognition struct {
	events  chan speech.Event
	stopped bool
}

func (f *fakeRecognition) Events() <-chan speech.Event { return f.events }

func (f *fakeRecognition) Stop() error {
	f.stopped = true
	return nil
}

type fakeProvider struct {
	rec *fakeRecognition
	err error
}

func (p *fakeProvider) Supported() bool { return true }
func (p *fakeProvider) Name() string    { return "fake" }

func (p *fakeProvider) Start(context.Context) (speech.Recognition, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.rec, nil
}

func listening(t *testing.T) (*SpeechModel, *fakeRecognition) {
	t.Helper()
	rec := &fakeRecognition{events: make(chan speech.Event, 4)}
	m := NewSpeechModel(&fakeProvider{rec: rec}, testTheme)
	if m.Start() == nil {
		t.Fatal("Start should return a command")
	}
	if m.State() != SpeechListening {
		t.Fatal("Start should switch to listening")
	}
	msgs := drain(m.Update(speechStartedMsg{gen: m.gen, rec: rec}))
	toasts := toastsIn(msgs)
	if len(toasts) != 1 || toasts[0].Message != SpeechStarted {
		t.Fatalf("expected start toast, got %+v", toasts)
	}
	return m, rec
}

func TestSpeechUnsupported(t *testing.T) {
	m := NewSpeechModel(speech.Unsupported{}, testTheme)
	if m.Supported() {
		t.Fatal("unsupported provider reported support")
	}
	toasts := toastsIn(drain(m.Toggle()))
	if len(toasts) != 1 || toasts[0].Message != SpeechUnsupported || toasts[0].Kind != ToastKindError {
		t.Errorf("expected unsupported toast, got %+v", toasts)
	}
	if m.State() != SpeechIdle {
		t.Error("unsupported provider must stay idle")
	}
	if !strings.Contains(m.View(), "mic off") {
		t.Error("affordance should render disabled")
	}
}

func TestSpeechForwardsOnlyFinalSegments(t *testing.T) {
	m, _ := listening(t)

	cmd := m.Update(speechEventMsg{gen: m.gen, ev: speech.Event{Transcript: "hel"}})
	for _, msg := range drain(cmd) {
		if _, ok := msg.(TranscriptMsg); ok {
			t.Error("interim segment must not be forwarded")
		}
	}
	if m.Interim() != "hel" {
		t.Errorf("interim text not tracked, got %q", m.Interim())
	}

	var got []string
	for _, msg := range drain(m.Update(speechEventMsg{gen: m.gen, ev: speech.Event{Transcript: "hello", Final: true}})) {
		if tr, ok := msg.(TranscriptMsg); ok {
			got = append(got, tr.Text)
		}
	}
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("expected final transcript, got %v", got)
	}
	if m.State() != SpeechListening {
		t.Error("final segment should not stop listening")
	}
}

func TestSpeechErrorReturnsToIdle(t *testing.T) {
	m, rec := listening(t)

	toasts := toastsIn(drain(m.Update(speechEventMsg{gen: m.gen, ev: speech.Event{Err: errors.New("no microphone")}})))
	if len(toasts) != 1 || toasts[0].Message != SpeechErrorPrefix+"no microphone" {
		t.Errorf("expected error toast, got %+v", toasts)
	}
	if m.State() != SpeechIdle {
		t.Error("error should return to idle")
	}
	if !rec.stopped {
		t.Error("recognition should be stopped on error")
	}
}

func TestSpeechStartFailure(t *testing.T) {
	m := NewSpeechModel(&fakeProvider{err: errors.New("exec failed")}, testTheme)
	m.Start()
	toasts := toastsIn(drain(m.Update(speechStartedMsg{gen: m.gen, err: errors.New("exec failed")})))
	if len(toasts) != 1 || !strings.HasPrefix(toasts[0].Message, SpeechErrorPrefix) {
		t.Errorf("expected error toast, got %+v", toasts)
	}
	if m.State() != SpeechIdle {
		t.Error("start failure should return to idle")
	}
}

func TestSpeechToggleStops(t *testing.T) {
	m, rec := listening(t)
	gen := m.gen

	m.Toggle()
	if m.State() != SpeechIdle || !rec.stopped {
		t.Error("toggle while listening should stop")
	}
	if cmd := m.Update(speechEventMsg{gen: gen, ev: speech.Event{Transcript: "late", Final: true}}); cmd != nil {
		t.Error("events from a stopped recognition should be dropped")
	}
}

func TestSpeechStreamEnd(t *testing.T) {
	m, _ := listening(t)
	m.Update(speechEventMsg{gen: m.gen, closed: true})
	if m.State() != SpeechIdle {
		t.Error("closed event stream should return to idle")
	}
}

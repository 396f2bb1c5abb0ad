// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestNewToastDurations(t *testing.T) {
	tests := []struct {
		kind ToastKind
		want time.Duration
	}{
		{ToastKindStatus, DefaultToastDuration},
		{ToastKindSuccess, DefaultToastDuration},
		{ToastKindWarning, WarningToastDuration},
		{ToastKindError, ErrorToastDuration},
	}
	for _, tt := range tests {
		toast := NewToast(tt.kind, "msg")
		if toast.Duration != tt.want {
			t.Errorf("kind %d: expected duration %v, got %v", tt.kind, tt.want, toast.Duration)
		}
	}
}

func TestToastExpired(t *testing.T) {
	now := time.Now()
	toast := Toast{CreatedAt: now.Add(-5 * time.Second), Duration: 4 * time.Second}
	if !toast.Expired(now) {
		t.Error("toast should be expired")
	}
	if toast.Remaining(now) != 0 {
		t.Errorf("expected no time remaining, got %v", toast.Remaining(now))
	}

	fresh := Toast{CreatedAt: now, Duration: 4 * time.Second}
	if fresh.Expired(now) {
		t.Error("fresh toast should not be expired")
	}
}

func TestToastManagerOrderAndDismiss(t *testing.T) {
	m := NewToastManager()
	if m.Len() != 0 {
		t.Fatal("new manager should be empty")
	}

	first := m.Error("first")
	second := m.Success("second")
	toasts := m.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].ID != second {
		t.Error("newest toast should come first")
	}

	m.Dismiss(first)
	if m.Len() != 1 || m.Toasts()[0].ID != second {
		t.Error("dismiss removed the wrong toast")
	}

	if !m.DismissNewest() {
		t.Error("DismissNewest should report a removal")
	}
	if m.DismissNewest() {
		t.Error("DismissNewest on an empty manager should report false")
	}
}

func TestToastManagerCap(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < MaxToasts+3; i++ {
		m.Status("toast")
	}
	if m.Len() != MaxToasts {
		t.Errorf("expected %d toasts, got %d", MaxToasts, m.Len())
	}
}

func TestToastManagerPrune(t *testing.T) {
	now := time.Now()
	m := NewToastManager()
	m.now = func() time.Time { return now }

	m.Add(Toast{Message: "old", CreatedAt: now.Add(-10 * time.Second), Duration: time.Second})
	m.Add(Toast{Message: "new", CreatedAt: now, Duration: time.Second})

	if got := m.Prune(); got != 1 {
		t.Fatalf("expected 1 toast after prune, got %d", got)
	}
	if m.Toasts()[0].Message != "new" {
		t.Error("prune kept the wrong toast")
	}
}

func TestRenderToastStack(t *testing.T) {
	now := time.Now()
	toasts := []Toast{
		{ID: 2, Message: "Documents ingested successfully!", Kind: ToastKindSuccess, CreatedAt: now, Duration: time.Second},
		{ID: 1, Message: "Failed to ingest documents. Please try again.", Kind: ToastKindError, CreatedAt: now, Duration: time.Second},
	}
	out := RenderToastStack(toasts, 100, now)
	if !strings.Contains(out, "ingested") || !strings.Contains(out, "Failed") {
		t.Errorf("stack is missing a message:\n%s", out)
	}
	// newest renders last
	if strings.Index(out, "Failed") > strings.Index(out, "ingested") {
		t.Error("older toast should render above the newer one")
	}
	if RenderToastStack(nil, 100, now) != "" {
		t.Error("empty stack should render nothing")
	}
}

func TestWrapWords(t *testing.T) {
	got := wrapWords("the quick brown fox", 9)
	want := "the quick\nbrown fox"
	if got != want {
		t.Errorf("wrapWords = %q, want %q", got, want)
	}
	if wrapWords("", 5) != "" {
		t.Error("empty text should stay empty")
	}
}

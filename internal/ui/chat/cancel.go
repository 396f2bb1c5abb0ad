// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// inflight holds the cancel function of the send in progress. The pipeline
// runs in a tea.Cmd goroutine while Shutdown may be called from the update
// loop, so access is locked. Model keeps a pointer so copies share it.
type inflight struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newInflight() *inflight {
	return &inflight{}
}

// begin returns the context for a new send.
func (f *inflight) begin() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	return ctx
}

// abort cancels the send in progress, if any. Safe to call repeatedly.
func (f *inflight) abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// active reports whether a send context is outstanding.
func (f *inflight) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancel != nil
}

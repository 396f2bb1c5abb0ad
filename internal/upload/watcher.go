// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a dropped file must be quiet before it is
// offered. Copies arrive as a Create followed by several Writes.
const DefaultDebounce = 300 * time.Millisecond

// =============================================================================
// DROP ZONE WATCHER
// =============================================================================

// DropWatcher watches a directory and reports files that appear in it.
// It stands in for a browser drop zone: copy or save a file into the
// directory and it is offered for upload.
type DropWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	out      chan []string

	mu      sync.Mutex
	pending map[string]time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDropWatcher creates a watcher for dir, creating the directory if it
// does not exist. Call Start to begin watching and Close to stop.
func NewDropWatcher(dir string, debounce time.Duration) (*DropWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &DropWatcher{
		dir:      dir,
		watcher:  w,
		debounce: debounce,
		out:      make(chan []string, 8),
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Dir returns the watched directory.
func (dw *DropWatcher) Dir() string {
	return dw.dir
}

// Start begins watching.
func (dw *DropWatcher) Start() error {
	if err := dw.watcher.Add(dw.dir); err != nil {
		return err
	}
	dw.wg.Add(2)
	go dw.processEvents()
	go dw.processPending()
	return nil
}

// Files delivers batches of settled file paths. The channel is closed by
// Close.
func (dw *DropWatcher) Files() <-chan []string {
	return dw.out
}

// Close stops watching and releases resources. Safe to call more than once.
func (dw *DropWatcher) Close() error {
	var err error
	dw.closeOnce.Do(func() {
		dw.cancel()
		err = dw.watcher.Close()
		dw.wg.Wait()
		close(dw.out)
	})
	return err
}

func (dw *DropWatcher) processEvents() {
	defer dw.wg.Done()
	for {
		select {
		case <-dw.ctx.Done():
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				dw.touch(event.Name)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				dw.mu.Lock()
				delete(dw.pending, event.Name)
				dw.mu.Unlock()
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("drop watcher: %v", err)
		}
	}
}

// touch records activity on a file. Hidden and partial download files are
// skipped.
func (dw *DropWatcher) touch(path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".part") ||
		strings.HasSuffix(base, ".crdownload") || strings.HasSuffix(base, "~") {
		return
	}
	dw.mu.Lock()
	dw.pending[path] = time.Now()
	dw.mu.Unlock()
}

func (dw *DropWatcher) processPending() {
	defer dw.wg.Done()
	ticker := time.NewTicker(dw.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-dw.ctx.Done():
			return

		case <-ticker.C:
			ready := regularFiles(dw.takeReady(time.Now()))
			if len(ready) == 0 {
				continue
			}
			select {
			case dw.out <- ready:
			case <-dw.ctx.Done():
				return
			}
		}
	}
}

// takeReady removes and returns the pending paths that have been quiet for
// the debounce period, sorted so files dropped together keep name order.
func (dw *DropWatcher) takeReady(now time.Time) []string {
	var ready []string

	dw.mu.Lock()
	for path, changed := range dw.pending {
		if now.Sub(changed) >= dw.debounce {
			ready = append(ready, path)
			delete(dw.pending, path)
		}
	}
	dw.mu.Unlock()

	slices.Sort(ready)
	return ready
}

func regularFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	return out
}

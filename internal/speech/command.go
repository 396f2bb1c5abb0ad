// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LangEnv is the environment variable that carries the language tag to the
// recognizer process.
const LangEnv = "REDPILL_SPEECH_LANG"

// line is one JSON line written by the recognizer.
type line struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
	Error      string `json:"error"`
}

// CommandProvider runs an external recognizer. The program must write one
// JSON object per line to stdout:
//
//	{"transcript": "hello", "final": false}
//	{"transcript": "hello world", "final": true}
//	{"error": "microphone unavailable"}
//
// It should keep listening until it is killed.
type CommandProvider struct {
	Path string
	Args []string
	Lang string
	// Env is appended to the inherited environment.
	Env []string
}

// Supported returns true.
func (p *CommandProvider) Supported() bool { return true }

// Name returns the program name.
func (p *CommandProvider) Name() string { return filepath.Base(p.Path) }

// Start launches the recognizer.
func (p *CommandProvider) Start(ctx context.Context) (Recognition, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	// Don't hang on grandchildren that inherited stdout
	cmd.WaitDelay = 2 * time.Second
	cmd.Env = append(os.Environ(), p.Env...)
	if p.Lang != "" {
		cmd.Env = append(cmd.Env, LangEnv+"="+p.Lang)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start %s: %w", p.Name(), err)
	}
	log.Printf("speech: started %s (pid %d)", p.Name(), cmd.Process.Pid)

	r := &commandRecognition{
		cmd:    cmd,
		cancel: cancel,
		events: make(chan Event, 16),
		stderr: &stderr,
	}
	go r.run(ctx, stdout)
	return r, nil
}

type commandRecognition struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	events chan Event
	stderr *bytes.Buffer

	mu      sync.Mutex
	stopped bool
}

func (r *commandRecognition) Events() <-chan Event {
	return r.events
}

// Stop kills the recognizer. Events is closed once the process is reaped.
func (r *commandRecognition) Stop() error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.cancel()
	return nil
}

func (r *commandRecognition) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *commandRecognition) run(ctx context.Context, stdout io.Reader) {
	defer close(r.events)
	defer r.cancel()

	sawError := false
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		ev, ok := parseLine(text)
		if !ok {
			log.Printf("speech: ignoring malformed line")
			continue
		}
		if ev.Err != nil {
			sawError = true
		}
		select {
		case r.events <- ev:
		case <-ctx.Done():
		}
		if sawError {
			r.cancel()
			break
		}
	}

	err := r.cmd.Wait()
	log.Printf("speech: %s exited: %v", filepath.Base(r.cmd.Path), err)
	if err == nil || sawError || r.isStopped() {
		return
	}

	msg := strings.TrimSpace(r.stderr.String())
	var exitErr *exec.ExitError
	if msg == "" || !errors.As(err, &exitErr) {
		msg = err.Error()
	}
	select {
	case r.events <- Event{Err: fmt.Errorf("recognizer failed: %s", msg)}:
	default:
	}
}

// parseLine decodes one recognizer line.
func parseLine(text string) (Event, bool) {
	var l line
	if err := json.Unmarshal([]byte(text), &l); err != nil {
		return Event{}, false
	}
	if l.Error != "" {
		return Event{Err: errors.New(l.Error)}, true
	}
	return Event{Transcript: l.Transcript, Final: l.Final}, true
}

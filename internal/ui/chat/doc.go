// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view of the Oracle interface.

# Key Components

## Model (model.go)

Model is the Bubble Tea model for the chat screen. It owns the session
(transcript, pending files, input text, loading flag) and the child
components: message bubbles, the attach panel, the microphone toggle and
the editor panel with its Editor and Output tabs.

## Update Loop (update.go)

Keys are routed by focus (input, files, editor). Enter sends. Timer
messages are routed to the component that owns them by ID.

## Send Pipeline (messages.go)

A send appends the user message, clears the input and pending files and
marks the session loading. The pipeline then ingests any files and asks
the question:

	files?  -> Ingest -> fail: error toast, no chat request
	                  -> ok:   success toast
	always  -> Chat   -> fail: error toast, no reply
	                  -> ok:   reply appended, Output tab updated

Loading always ends when the pipeline result is applied.

## View Rendering (view.go)

	+--------------------------------------+-------------------+
	| rain band                            |                   |
	| THE ORACLE :: MATRIX INTERFACE       |  Editor | Output  |
	|                                      |                   |
	|  message bubbles                     |  editor panel     |
	|                                      |                   |
	| [attach panel]                       |                   |
	| > Ask the Oracle your question...    |                   |
	+--------------------------------------+-------------------+
	| status bar                                               |
	+----------------------------------------------------------+

The editor panel is hidden below 80 columns.
*/
package chat

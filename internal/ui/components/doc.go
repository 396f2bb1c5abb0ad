// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI building blocks of the Oracle interface.

Components follow the Bubble Tea pattern with pointer receivers: Update
returns a tea.Cmd and mutates the component in place. Animated components
tag their tick messages with an ID and a generation so stale ticks from a
stopped or restarted animation are dropped.

# Effects

DecodingText (decoding.go) - Reveals text one character at a time with
random glyphs running ahead of the cursor.
Rain (rain.go) - Falling glyph columns with fading trails.

# Screens and Panels

LoginModel (login.go) - The splash: intro, pill choice, outcome.
MessageView (message.go) - A chat bubble. Assistant replies decode.
FileUploadModel (fileupload.go) - Attach panel with path entry, file
browser and drop zone.
SpeechModel (speech.go) - Microphone toggle and transcript delivery.
EditorModel (editor.go) - Markup editor with formatting, undo and save.
Header (header.go) and StatusBar (statusbar.go).

# Feedback

Toasts (toast.go) are requested with ShowToast and collected by a
ToastManager owned by the top-level model.

# Rendering Helpers

RenderMarkdown (codeblock.go) renders prose with Glamour and fenced code
with Chroma.
*/
package components

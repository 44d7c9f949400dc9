// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// HeaderConfig groups the optional parameters for the chat header, so
// new fields can be added without breaking callers.
type HeaderConfig struct {
	ServerURL string
	Version   string
	Character string
}

// SessionStats aggregates a chat session's numbers for the end-of-
// session summary.
type SessionStats struct {
	Turns     int
	Fallbacks int
	Duration  time.Duration
}

// ChatUI defines the terminal rendering operations the chat client
// needs. The implementation writes styled text; tests capture it
// through a buffer.
type ChatUI interface {
	// Header displays the session banner before the first prompt.
	Header(config HeaderConfig)

	// Prompt returns the styled input prompt string.
	Prompt() string

	// Reply displays the character's response.
	Reply(text string)

	// FallbackNotice marks a reply that came from the scripted
	// fallback rather than the model.
	FallbackNotice()

	// CheckoutNotice announces that the order has everything it needs.
	CheckoutNotice()

	// PaymentNotice announces that shipping details are complete.
	PaymentNotice()

	// Error displays a client-side error without ending the session.
	Error(err error)

	// SessionEnd displays the end-of-session summary.
	SessionEnd(stats SessionStats)
}

type terminalChatUI struct {
	writer io.Writer
}

// NewChatUI creates a terminal chat UI writing to w.
func NewChatUI(w io.Writer) ChatUI {
	return &terminalChatUI{writer: w}
}

func (t *terminalChatUI) Header(config HeaderConfig) {
	name := config.Character
	if name == "" {
		name = "the monger"
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(name))
	b.WriteString("\n")
	b.WriteString(Styles.Subtitle.Render(fmt.Sprintf("server %s", config.ServerURL)))
	if config.Version != "" {
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  v%s", config.Version)))
	}
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render("type your message. 'exit' leaves the alley."))

	fmt.Fprintln(t.writer, Styles.Box.Render(b.String()))
}

func (t *terminalChatUI) Prompt() string {
	return Styles.Highlight.Render("you> ")
}

func (t *terminalChatUI) Reply(text string) {
	fmt.Fprintf(t.writer, "\n%s\n\n", Styles.Monger.Render(text))
}

func (t *terminalChatUI) FallbackNotice() {
	fmt.Fprintln(t.writer, Styles.Muted.Render("(connection stumbled, scripted line)"))
}

func (t *terminalChatUI) CheckoutNotice() {
	fmt.Fprintln(t.writer, Styles.Highlight.Render("-- order locked: affirmation, size, phrase --"))
}

func (t *terminalChatUI) PaymentNotice() {
	fmt.Fprintln(t.writer, Styles.Highlight.Render("-- shipping complete, ready for payment --"))
}

func (t *terminalChatUI) Error(err error) {
	fmt.Fprintln(t.writer, Styles.Error.Render(fmt.Sprintf("error: %v", err)))
}

func (t *terminalChatUI) SessionEnd(stats SessionStats) {
	var b strings.Builder
	b.WriteString(Styles.Subtitle.Render("session over"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("turns: %d", stats.Turns))
	if stats.Fallbacks > 0 {
		b.WriteString(fmt.Sprintf("  fallbacks: %d", stats.Fallbacks))
	}
	b.WriteString(fmt.Sprintf("  duration: %s", stats.Duration.Round(time.Second)))

	fmt.Fprintln(t.writer, Styles.Box.Render(b.String()))
}

// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeader_IncludesServerAndVersion(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.Header(HeaderConfig{
		ServerURL: "http://localhost:3002",
		Version:   "1.0.0",
		Character: "the monger",
	})

	out := buf.String()
	assert.Contains(t, out, "the monger")
	assert.Contains(t, out, "http://localhost:3002")
	assert.Contains(t, out, "v1.0.0")
}

func TestHeader_DefaultsCharacterName(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.Header(HeaderConfig{ServerURL: "http://localhost:3002"})

	assert.Contains(t, buf.String(), "the monger")
}

func TestReply_WritesText(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.Reply("one phrase per shirt.")

	assert.Contains(t, buf.String(), "one phrase per shirt.")
}

func TestNotices(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.FallbackNotice()
	ui.CheckoutNotice()
	ui.PaymentNotice()

	out := buf.String()
	assert.Contains(t, out, "scripted line")
	assert.Contains(t, out, "order locked")
	assert.Contains(t, out, "ready for payment")
}

func TestError_WritesError(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.Error(errors.New("connection refused"))

	assert.Contains(t, buf.String(), "connection refused")
}

func TestSessionEnd_Stats(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.SessionEnd(SessionStats{Turns: 4, Fallbacks: 1, Duration: 90 * time.Second})

	out := buf.String()
	assert.Contains(t, out, "turns: 4")
	assert.Contains(t, out, "fallbacks: 1")
	assert.Contains(t, out, "1m30s")
}

func TestSessionEnd_OmitsZeroFallbacks(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUI(&buf)

	ui.SessionEnd(SessionStats{Turns: 2, Duration: time.Second})

	assert.NotContains(t, buf.String(), "fallbacks")
}

func TestPrompt_NotEmpty(t *testing.T) {
	ui := NewChatUI(&bytes.Buffer{})
	assert.Contains(t, ui.Prompt(), "you>")
}

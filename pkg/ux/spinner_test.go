// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards the bytes.Buffer against the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("thinking").WithWriter(buf)

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "thinking")
	assert.Contains(t, out, "\r\033[K") // line cleared on stop
}

func TestSpinner_DoubleStartIsSafe(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("loading").WithWriter(buf)

	s.Start()
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinner_StopWithoutStartIsSafe(t *testing.T) {
	s := NewSpinner("idle").WithWriter(&syncBuffer{})
	s.Stop()
}

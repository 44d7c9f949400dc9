// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux renders the terminal chat client: styles, spinner, and
// the chat transcript. Everything writes through an io.Writer so tests
// can capture output.
package ux

import (
	"github.com/charmbracelet/lipgloss"
)

// Dockside palette. Cold greys and sea greens, one warning amber.
var (
	ColorSeaGreen = lipgloss.Color("#2CD7A7") // highlights, success
	ColorKelp     = lipgloss.Color("#1D9E83") // primary accent
	ColorHarbor   = lipgloss.Color("#157483") // borders
	ColorFog      = lipgloss.Color("#8A9BA8") // the monger's lines
	ColorSlate    = lipgloss.Color("#2C4A54") // muted text
	ColorWarning  = lipgloss.Color("#F4D03F")
	ColorError    = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Monger    lipgloss.Style

	Box lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorSeaGreen),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorKelp),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorSeaGreen).Bold(true),
	Monger:    lipgloss.NewStyle().Foreground(ColorFog),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorHarbor).
		Padding(0, 1),
}

// Package styles provides Lipgloss styles for the TUI. The palette is a dark
// editing-suite theme: neutral greys with a warm accent for the trim handles.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	// Ink is the main background colour
	Ink = lipgloss.Color("#16181D")
	// Panel is a secondary dark background for bars and overlays
	Panel = lipgloss.Color("#20232B")
	// Border is the border/dim accent colour
	Border = lipgloss.Color("#4A4F5C")
	// Focus is used for highlights and focus states
	Focus = lipgloss.Color("#6C5A8E")
	// Muted is a secondary text colour
	Muted = lipgloss.Color("#9AA0AE")
	// Text is the primary text colour
	Text = lipgloss.Color("#E6E8EE")
	// Handle is the trim handle colour
	Handle = lipgloss.Color("#F2B33D")
	// Playhead marks the current playback position
	Playhead = lipgloss.Color("#E8505B")
	// Info is an accent colour for times and key hints
	Info = lipgloss.Color("#4FA8D8")
	// Warning is used for errors and constraint violations
	Warning = lipgloss.Color("#D9534F")
	// Success is used for confirmation messages
	Success = lipgloss.Color("#7DBE6A")
)

// MaskFactor darkens strip samples outside the trim window.
const MaskFactor = 0.35

// Background is the main background style for the entire TUI
var Background = lipgloss.NewStyle().
	Background(Ink)

// Highlight is the style for the selected row in a list
var Highlight = lipgloss.NewStyle().
	Background(Focus).
	Foreground(Text).
	Bold(true)

// PrimaryText is the style for primary text content
var PrimaryText = lipgloss.NewStyle().
	Foreground(Text)

// SecondaryText is the style for less prominent text
var SecondaryText = lipgloss.NewStyle().
	Foreground(Muted)

// Warn is the style for warning messages
var Warn = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true)

// Ok is the style for success messages
var Ok = lipgloss.NewStyle().
	Foreground(Success).
	Bold(true)

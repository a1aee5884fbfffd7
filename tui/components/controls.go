// Package components provides the TUI building blocks: the trim strip, the
// status bar, info boxes, the key hints and the help overlay.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/trimstrip-cli/tui/styles"
)

// Control represents a single control with its display info.
type Control struct {
	Name     string
	Shortcut string
}

// ControlGroup is a named set of related controls.
type ControlGroup struct {
	Name     string
	Controls []Control
}

// GetControlGroups returns the control groups for display.
func GetControlGroups() []ControlGroup {
	return []ControlGroup{
		{
			Name: "Playback",
			Controls: []Control{
				{Name: "Play", Shortcut: "Space"},
				{Name: "Scrub", Shortcut: "h/l"},
			},
		},
		{
			Name: "Trim",
			Controls: []Control{
				{Name: "In", Shortcut: "[/]"},
				{Name: "Out", Shortcut: "{/}"},
				{Name: "Save", Shortcut: "s"},
			},
		},
		{
			Name: "Views",
			Controls: []Control{
				{Name: "Cmd", Shortcut: ":"},
				{Name: "Help", Shortcut: "?"},
				{Name: "Quit", Shortcut: "q"},
			},
		},
	}
}

// InfoBox renders content lines inside a bordered box with a tab-style title.
func InfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}
	return boxed(title, contentLines, width)
}

// ControlsDisplay renders the key hints as a single centred line, truncated
// to width.
func ControlsDisplay(width int) string {
	shortcutStyle := lipgloss.NewStyle().
		Foreground(styles.Info).
		Bold(true)

	nameStyle := lipgloss.NewStyle().
		Foreground(styles.Muted)

	groups := GetControlGroups()
	groupStrings := make([]string, 0, len(groups))
	for _, group := range groups {
		controlStrs := make([]string, 0, len(group.Controls))
		for _, ctrl := range group.Controls {
			controlStrs = append(controlStrs, nameStyle.Render(ctrl.Name)+" "+shortcutStyle.Render("["+ctrl.Shortcut+"]"))
		}
		groupStrings = append(groupStrings, strings.Join(controlStrs, "  "))
	}
	allControls := strings.Join(groupStrings, "   ")

	if lipgloss.Width(allControls) > width {
		return ansi.Truncate(allControls, width, "…")
	}
	padding := (width - lipgloss.Width(allControls)) / 2
	return strings.Repeat(" ", padding) + allControls
}

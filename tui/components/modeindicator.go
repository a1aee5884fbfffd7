package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/tui/styles"
)

// Mode names what the trimmer is doing with input right now.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeTrim
	ModeScrub
	ModeForm
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "command"
	case ModeTrim:
		return "trim"
	case ModeScrub:
		return "scrub"
	case ModeForm:
		return "form"
	default:
		return "normal"
	}
}

// ModeIndicator renders the mode as a short badge.
func ModeIndicator(mode Mode) string {
	bg := styles.Border
	switch mode {
	case ModeCommand, ModeForm:
		bg = styles.Info
	case ModeTrim:
		bg = styles.Handle
	case ModeScrub:
		bg = styles.Playhead
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(styles.Ink).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(mode.String()))
}

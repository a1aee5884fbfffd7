package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/tui/styles"
)

// StatusBarState holds what the status bar shows. Times are in seconds.
type StatusBarState struct {
	// Playing indicates if the player is running
	Playing bool
	// Position is the playhead time
	Position float64
	// Duration is the asset duration
	Duration float64
	// Start and End are the trim window
	Start float64
	End   float64
	// MinSeconds and MaxSeconds are the allowed trim lengths
	MinSeconds float64
	MaxSeconds float64
	// HighPrecision indicates exact (non-keyframe) seeking
	HighPrecision bool
	// Dirty is set while the window differs from the last saved trim
	Dirty bool
}

// StatusBar renders the status bar component: play state and playhead time on
// the left, the trim window in the middle and the length band on the right.
func StatusBar(state StatusBarState, width int) string {
	playIcon := "⏸"
	if state.Playing {
		playIcon = "▶"
	}

	length := state.End - state.Start
	dirty := ""
	if state.Dirty {
		dirty = "*"
	}
	precision := "key"
	if state.HighPrecision {
		precision = "exact"
	}

	leftContent := fmt.Sprintf(" %s %s / %s", playIcon,
		timeutil.FormatPrecise(state.Position), timeutil.FormatPrecise(state.Duration))
	middleContent := fmt.Sprintf("in %s  out %s  %.3fs%s",
		timeutil.FormatPrecise(state.Start), timeutil.FormatPrecise(state.End), length, dirty)
	rightContent := fmt.Sprintf("%s-%s %s ",
		formatSeconds(state.MinSeconds), formatSeconds(state.MaxSeconds), precision)

	used := lipgloss.Width(leftContent) + lipgloss.Width(middleContent) + lipgloss.Width(rightContent)
	gap := (width - used) / 2
	if gap < 1 {
		gap = 1
	}
	content := leftContent + strings.Repeat(" ", gap) + middleContent + strings.Repeat(" ", gap) + rightContent

	statusBarStyle := lipgloss.NewStyle().
		Background(styles.Panel).
		Foreground(styles.Text).
		Bold(true).
		Width(width).
		MaxWidth(width)

	return statusBarStyle.Render(content)
}

// formatSeconds shows a length bound with as few digits as it needs.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64) + "s"
}

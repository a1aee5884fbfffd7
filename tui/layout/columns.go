package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth = 60 // below this the strip is too coarse to drag
	SplitThreshold   = 96 // at or above this the bottom panels sit side by side
	SideMinWidth     = 34 // minimum width of the saved-trims panel
)

// SplitWidth divides the terminal width between the window panel and the
// saved-trims panel. Below SplitThreshold the panels stack and both get the
// full width.
func SplitWidth(termWidth int) (left, right int, sideBySide bool) {
	if termWidth < SplitThreshold {
		return termWidth, termWidth, false
	}
	// one border column between the panels
	usable := termWidth - 1
	right = usable / 2
	if right < SideMinWidth {
		right = SideMinWidth
	}
	left = usable - right
	return left, right, true
}

// JoinColumns joins pre-rendered column strings side by side with border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Border).
		Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, 0, len(colLines))
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/tui/styles"
)

// TrimItem is one saved trim as listed in the panel.
type TrimItem struct {
	ID    int64
	Label string
	Start float64
	End   float64
}

// TrimsListState holds the saved trims and the selection.
type TrimsListState struct {
	Items    []TrimItem
	Selected int
}

// MoveUp moves the selection to the previous item.
func (s *TrimsListState) MoveUp() {
	if s.Selected > 0 {
		s.Selected--
	}
}

// MoveDown moves the selection to the next item.
func (s *TrimsListState) MoveDown() {
	if s.Selected < len(s.Items)-1 {
		s.Selected++
	}
}

// SelectedItem returns the selected trim, or nil when the list is empty.
func (s *TrimsListState) SelectedItem() *TrimItem {
	if s.Selected < 0 || s.Selected >= len(s.Items) {
		return nil
	}
	return &s.Items[s.Selected]
}

// SetItems replaces the list, keeping the selection in range.
func (s *TrimsListState) SetItems(items []TrimItem) {
	s.Items = items
	if s.Selected >= len(items) {
		s.Selected = len(items) - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

// TrimsList renders the saved trims as content lines for an InfoBox. At most
// height lines are returned; the selection is kept visible.
func TrimsList(state TrimsListState, height int) []string {
	dimStyle := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true)
	if len(state.Items) == 0 {
		return []string{dimStyle.Render("No saved trims. Press s to save one.")}
	}
	if height < 1 {
		height = 1
	}

	first := 0
	if state.Selected >= height {
		first = state.Selected - height + 1
	}
	last := first + height
	if last > len(state.Items) {
		last = len(state.Items)
	}

	rowStyle := lipgloss.NewStyle().Foreground(styles.Text)
	lines := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		item := state.Items[i]
		label := item.Label
		if label == "" {
			label = "(untitled)"
		}
		row := fmt.Sprintf("#%-3d %s-%s  %s", item.ID,
			timeutil.FormatPrecise(item.Start), timeutil.FormatPrecise(item.End), label)
		if i == state.Selected {
			lines = append(lines, styles.Highlight.Render(row))
		} else {
			lines = append(lines, rowStyle.Render(row))
		}
	}
	return lines
}

package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/tui/styles"
)

// Theme returns a huh theme that matches the TUI palette.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	button := func(bg, f lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(f).Padding(0, 1)
	}

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Handle).
		PaddingLeft(1)
	t.Focused.Title = fg(styles.Handle).Bold(true)
	t.Focused.NoteTitle = fg(styles.Info).Bold(true)
	t.Focused.Description = fg(styles.Muted)
	t.Focused.ErrorIndicator = fg(styles.Warning).Bold(true)
	t.Focused.ErrorMessage = fg(styles.Warning)
	t.Focused.TextInput.Cursor = fg(styles.Info)
	t.Focused.TextInput.Placeholder = fg(styles.Border)
	t.Focused.TextInput.Prompt = fg(styles.Info)
	t.Focused.TextInput.Text = fg(styles.Text)
	t.Focused.FocusedButton = button(styles.Handle, styles.Ink).Bold(true)
	t.Focused.BlurredButton = button(styles.Border, styles.Muted)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred.Base = t.Blurred.Base.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true).
		PaddingLeft(1)
	t.Blurred.Title = fg(styles.Muted)
	t.Blurred.NoteTitle = fg(styles.Muted)
	t.Blurred.Description = fg(styles.Border)
	t.Blurred.ErrorIndicator = fg(styles.Warning)
	t.Blurred.ErrorMessage = fg(styles.Warning)
	t.Blurred.TextInput.Cursor = fg(styles.Border)
	t.Blurred.TextInput.Placeholder = fg(styles.Border)
	t.Blurred.TextInput.Prompt = fg(styles.Border)
	t.Blurred.TextInput.Text = fg(styles.Muted)
	t.Blurred.FocusedButton = button(styles.Border, styles.Muted)
	t.Blurred.BlurredButton = button(styles.Ink, styles.Border)
	t.Blurred.Next = t.Blurred.FocusedButton

	return t
}

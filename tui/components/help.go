package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/tui/styles"
)

type binding struct {
	key  string
	desc string
}

type bindingGroup struct {
	title    string
	bindings []binding
}

var helpGroups = []bindingGroup{
	{
		title: "Playback",
		bindings: []binding{
			{"Space", "Play/pause inside the trim window"},
			{"h / l", "Scrub playhead one column"},
			{"H / L", "Scrub playhead five columns"},
			{"p", "Toggle exact/keyframe seeking"},
		},
	},
	{
		title: "Trim",
		bindings: []binding{
			{"[ / ]", "Move the in handle"},
			{"{ / }", "Move the out handle"},
			{"Mouse", "Drag handles or playhead"},
			{"Esc", "Cancel the current drag"},
		},
	},
	{
		title: "Saved trims",
		bindings: []binding{
			{"s", "Save the window with a label"},
			{"j / k", "Select saved trim"},
			{"Enter", "Apply selected trim"},
			{"x", "Delete selected trim"},
		},
	},
	{
		title: "Commands",
		bindings: []binding{
			{":in T / :out T", "Set the in or out time"},
			{":len S", "Set the window length"},
			{":go T", "Move the playhead"},
			{":w [label]", "Save the window"},
			{":q / :q!", "Quit / quit without saving"},
		},
	},
	{
		title: "General",
		bindings: []binding{
			{":", "Open the command line"},
			{"?", "Show/hide this help"},
			{"q", "Quit"},
		},
	},
}

// HelpOverlay renders the keybindings centred in a width x height screen.
func HelpOverlay(width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Info).
		Bold(true).
		Padding(0, 1)

	groupHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Handle).
		Bold(true).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Bold(true).
		Width(16)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.Text)

	lines := []string{titleStyle.Render("Keybindings"), ""}
	for _, group := range helpGroups {
		lines = append(lines, groupHeaderStyle.Render(group.title))
		for _, b := range group.bindings {
			lines = append(lines, "  "+keyStyle.Render(b.key)+descStyle.Render(b.desc))
		}
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Italic(true)
	lines = append(lines, "", footerStyle.Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(styles.Panel).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Focus).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

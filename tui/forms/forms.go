// Package forms provides huh-based form components for the TUI.
package forms

import (
	"github.com/charmbracelet/huh"
)

// NewConfirmQuitForm asks whether to quit with an unsaved trim window. The
// answer is bound to quit.
func NewConfirmQuitForm(quit *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Quit without saving?").
				Description("The trim window has changed since it was last saved.").
				Affirmative("Quit").
				Negative("Go back").
				Value(quit),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}

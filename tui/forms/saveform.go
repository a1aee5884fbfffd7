package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/trim"
)

// MaxLabelLength bounds a trim label.
const MaxLabelLength = 80

// SaveTrimResult holds the data returned by a completed save form.
type SaveTrimResult struct {
	Label   string
	Confirm bool
}

// NewSaveTrimForm creates a form for labelling and saving the window w. The
// result pointer is bound to the form fields and is populated on submit.
func NewSaveTrimForm(w trim.Window, result *SaveTrimResult) *huh.Form {
	header := fmt.Sprintf("Save trim %s - %s (%.3fs)",
		timeutil.FormatPrecise(w.Start.Seconds()),
		timeutil.FormatPrecise(w.End.Seconds()),
		w.DurationSeconds())
	result.Confirm = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(header),

			huh.NewInput().
				Title("Label").
				Description("Optional").
				CharLimit(MaxLabelLength).
				Value(&result.Label).
				Validate(ValidateLabel),

			huh.NewConfirm().
				Title("Save?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&result.Confirm),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}

// ValidateLabel rejects labels that are too long or span lines.
func ValidateLabel(s string) error {
	if len(s) > MaxLabelLength {
		return fmt.Errorf("label must be at most %d characters", MaxLabelLength)
	}
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("label must be a single line")
	}
	return nil
}

package cmd

import "github.com/AlecAivazis/survey/v2"

// Prompter asks the user yes/no questions outside the TUI.
type Prompter interface {
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter with survey.
type SurveyPrompter struct{}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is swapped in tests.
var DefaultPrompter Prompter = &SurveyPrompter{}

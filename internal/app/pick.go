package app

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// pickTask prompts interactively for a task. It needs a terminal; in
// non-interactive contexts the survey prompt fails and the error is
// surfaced as-is.
func (a *App) pickTask() (string, error) {
	names := a.model.TaskNames()
	if len(names) == 0 {
		return "", fmt.Errorf("the rigfile defines no tasks")
	}

	prompt := &survey.Select{
		Message: "Select a task to run:",
		Options: names,
		Description: func(value string, _ int) string {
			return a.model.Tasks[value].Description
		},
	}

	var choice string
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("task selection aborted: %w", err)
	}
	return choice, nil
}

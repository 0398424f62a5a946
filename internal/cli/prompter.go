package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/workflow"
	"github.com/charmbracelet/huh"
)

const enterNewOption = "__enter_new__"

// huhPrompter implements workflow.Prompter with interactive huh forms.
type huhPrompter struct{}

// NewPrompter returns the interactive Prompter used by the daemon.
func NewPrompter() workflow.Prompter {
	return huhPrompter{}
}

func (huhPrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, workflow.ErrCancelled
		}
		return false, err
	}
	return answer, nil
}

func (huhPrompter) PickProjectID(ctx context.Context, configured string, history []string) (string, bool, error) {
	options := make([]huh.Option[string], 0, len(history)+2)

	seen := false
	for _, id := range history {
		label := id
		if id == configured {
			label = fmt.Sprintf("%s (from settings)", id)
			seen = true
		}
		options = append(options, huh.NewOption(label, id))
	}
	if configured != "" && !seen {
		options = append([]huh.Option[string]{
			huh.NewOption(fmt.Sprintf("%s (from settings)", configured), configured),
		}, options...)
	}
	options = append(options, huh.NewOption("Enter new Project ID...", enterNewOption))

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Rovas Project ID for this work report").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, workflow.ErrCancelled
		}
		return "", false, err
	}

	if selected != enterNewOption {
		return selected, false, nil
	}

	var entered string
	input := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New Rovas Project ID").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("project id must not be empty")
					}
					return nil
				}).
				Value(&entered),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)

	if err := input.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, workflow.ErrCancelled
		}
		return "", false, err
	}
	return entered, true, nil
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newAdjustCmd(app *App) *cobra.Command {
	var hours, minutes int
	var flagsSet bool

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Overwrite the tracked time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flagsSet = cmd.Flags().Changed("hours") || cmd.Flags().Changed("minutes")

			if !flagsSet {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return errors.New("no terminal available; use --hours and --minutes")
				}
				current, err := app.Counters.Get(ctx, repository.AccruedSecondsCounter, 0)
				if err != nil {
					return fmt.Errorf("reading tracked time: %w", err)
				}
				h, m, err := adjustForm(current/3600, (current%3600)/60)
				if err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
				hours, minutes = h, m
			}

			total := domain.ClampSeconds(hours*3600 + minutes*60)
			if err := app.Counters.Set(ctx, repository.AccruedSecondsCounter, total); err != nil {
				return fmt.Errorf("saving tracked time: %w", err)
			}
			fmt.Fprintf(app.Out, "Tracked time set to %s.\n", domain.FormatSeconds(total))
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "Hours component")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes component")
	return cmd
}

// adjustForm collects an hours/minutes pair, pre-filled with the current
// values.
func adjustForm(curHours, curMinutes int) (int, int, error) {
	hoursStr := strconv.Itoa(curHours)
	minutesStr := strconv.Itoa(curMinutes)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hours").
				Validate(validateNonNegativeInt).
				Value(&hoursStr),
			huh.NewInput().
				Title("Minutes").
				Validate(validateMinutes).
				Value(&minutesStr),
		),
	).WithTheme(tallyHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return 0, 0, err
	}

	h, _ := strconv.Atoi(hoursStr)
	m, _ := strconv.Atoi(minutesStr)
	return h, m, nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("enter a non-negative whole number")
	}
	return nil
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 59 {
		return errors.New("enter minutes between 0 and 59")
	}
	return nil
}

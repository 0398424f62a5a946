package cli

import (
	"fmt"

	"github.com/alexanderramin/tally/internal/repository"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the tracked time to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Counters.Set(cmd.Context(), repository.AccruedSecondsCounter, 0); err != nil {
				return fmt.Errorf("resetting tracked time: %w", err)
			}
			fmt.Fprintln(app.Out, "Time tracker reset.")
			return nil
		},
	}
}

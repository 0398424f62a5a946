package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the Rovas project ID history",
	}

	cmd.AddCommand(
		newProjectsListCmd(app),
		newProjectsRemoveCmd(app),
	)

	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List previously used project IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := app.History.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing project ids: %w", err)
			}
			if len(ids) == 0 {
				fmt.Fprintln(app.Out, "No project IDs recorded yet.")
				return nil
			}

			configured := app.Config.Snapshot().ProjectID
			for _, id := range ids {
				if id == configured {
					fmt.Fprintln(app.Out, styleHeader.Render(id)+styleDim.Render("  (from settings)"))
					continue
				}
				fmt.Fprintln(app.Out, id)
			}
			return nil
		},
	}
}

func newProjectsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [project-id...]",
		Short: "Remove project IDs from history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			toRemove := args
			if len(toRemove) == 0 {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return errors.New("no terminal available; pass project ids as arguments")
				}

				ids, err := app.History.List(ctx)
				if err != nil {
					return fmt.Errorf("listing project ids: %w", err)
				}
				if len(ids) == 0 {
					fmt.Fprintln(app.Out, "No project IDs to manage.")
					return nil
				}

				options := make([]huh.Option[string], 0, len(ids))
				for _, id := range ids {
					options = append(options, huh.NewOption(id, id))
				}

				form := huh.NewForm(
					huh.NewGroup(
						huh.NewMultiSelect[string]().
							Title("Select project IDs to remove from history").
							Options(options...).
							Value(&toRemove),
					),
				).WithTheme(tallyHuhTheme()).WithShowHelp(false)

				if err := form.Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			for _, id := range toRemove {
				if err := app.History.Remove(ctx, id); err != nil {
					return fmt.Errorf("removing %s: %w", id, err)
				}
			}
			if len(toRemove) > 0 {
				fmt.Fprintf(app.Out, "Removed %d project ID(s) from history.\n", len(toRemove))
			}
			return nil
		},
	}
}

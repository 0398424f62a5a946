package cli

import (
	"fmt"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/spf13/cobra"
)

func newReportsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show recently submitted work reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := app.Submissions.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing submissions: %w", err)
			}
			if len(subs) == 0 {
				fmt.Fprintln(app.Out, "No work reports submitted yet.")
				return nil
			}

			for _, s := range subs {
				line := fmt.Sprintf("%s  %-10s  project %-8s  %.2fh",
					s.CreatedAt.Local().Format("2006-01-02 15:04"),
					shortRevision(s.Revision),
					s.ProjectID,
					s.Hours,
				)
				switch s.Outcome {
				case domain.OutcomeCreated:
					line += fmt.Sprintf("  rovas id %d", s.ReportID)
					fmt.Fprintln(app.Out, styleGreen.Render(line))
				case domain.OutcomeCreatedNoID:
					fmt.Fprintln(app.Out, styleYellow.Render(line+"  (id missing)"))
				default:
					fmt.Fprintln(app.Out, styleRed.Render(line+"  (failed)"))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of reports to show")
	return cmd
}

func shortRevision(rev string) string {
	if len(rev) > 10 {
		return rev[:10]
	}
	return rev
}

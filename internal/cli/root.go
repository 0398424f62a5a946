package cli

import (
	"io"

	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/spf13/cobra"
)

// App holds the wired dependencies used by CLI commands.
type App struct {
	Counters    repository.CounterRepo
	History     repository.ProjectHistoryRepo
	Submissions repository.SubmissionRepo
	Config      config.Source

	// IsInteractive gates prompts; non-interactive invocations must use
	// flags instead.
	IsInteractive func() bool

	// Out receives all command output.
	Out io.Writer

	// LogWriter receives daemon logs and API call events.
	LogWriter io.Writer
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "Work-time accrual and Rovas commit reporting",
		Long: "tally accrues active working time from edit activity and, when a new\n" +
			"commit lands in a watched repository, offers to file a Rovas work report.",
	}

	root.AddCommand(
		newStartCmd(app),
		newStatusCmd(app),
		newAdjustCmd(app),
		newResetCmd(app),
		newProjectsCmd(app),
		newReportsCmd(app),
	)

	return root
}

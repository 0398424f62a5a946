package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/rovas"
	"github.com/alexanderramin/tally/internal/tracker"
	"github.com/alexanderramin/tally/internal/vcs"
	"github.com/alexanderramin/tally/internal/workflow"
	"github.com/spf13/cobra"
)

const activityScanInterval = 2 * time.Second

func newStartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the accrual and reporting daemon",
		Long: "Starts the per-second accrual clock and a commit watcher per configured\n" +
			"repository. Runs until interrupted; SIGHUP re-reads the inactivity tolerance.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Snapshot()
			logger := slog.New(slog.NewTextHandler(app.LogWriter, nil))
			notifier := NewNotifier(app.Out)

			policy, err := domain.ParseActivityPolicy(cfg.ActivityPolicy)
			if err != nil {
				logger.Warn("invalid activity policy, using signal-recency", "value", cfg.ActivityPolicy)
				policy = domain.PolicySignalRecency
			}

			clock := tracker.NewAccrualClock(
				app.Counters,
				cfg.InactivityToleranceSeconds,
				tracker.WithPolicy(policy),
				tracker.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := clock.Load(ctx); err != nil {
				return fmt.Errorf("restoring accrued time: %w", err)
			}

			var observer rovas.Observer = rovas.NoopObserver{}
			if cfg.LogCalls {
				observer = rovas.NewLogObserver(app.LogWriter)
			}
			client := rovas.NewClient(cfg.BaseURL, observer)

			wf := workflow.NewWorkflow(
				clock, app.Config, client,
				NewPrompter(), notifier,
				app.History, app.Submissions, logger,
			)

			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				tracker.Run(ctx, clock)
			}()

			roots := cfg.Repositories
			if len(roots) == 0 {
				logger.Warn("no repositories configured; accruing against the current directory only")
				roots = []string{"."}
			}

			source := tracker.NewMtimeSource(roots, activityScanInterval)
			wg.Add(1)
			go func() {
				defer wg.Done()
				source.Run(ctx, clock.RecordActivity)
			}()

			interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
			for _, dir := range cfg.Repositories {
				watcher := workflow.NewCommitWatcher(vcs.NewGitRepository(dir), wf, interval, logger)
				watcher.Prime(ctx)

				wg.Add(1)
				go func() {
					defer wg.Done()
					watcher.Run(ctx)
				}()
			}

			// Tolerance is the one setting applied live, on SIGHUP.
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)

			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					case <-hup:
						fresh := app.Config.Snapshot()
						clock.SetInactivityTolerance(fresh.InactivityToleranceSeconds)
						notifier.Info(fmt.Sprintf("Inactivity tolerance updated to %d seconds.",
							fresh.InactivityToleranceSeconds))
					}
				}
			}()

			notifier.Info("Time tracking started.")

			<-ctx.Done()
			wg.Wait()
			wf.WaitForFees()
			return nil
		},
	}

	return cmd
}

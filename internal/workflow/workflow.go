package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/rovas"
	"github.com/alexanderramin/tally/internal/vcs"
	"github.com/google/uuid"
)

// Workflow turns a newly observed commit into a confirmed work report and a
// dependent usage-fee charge.
type Workflow struct {
	clock       TimeSource
	cfg         config.Source
	client      rovas.Client
	prompter    Prompter
	notifier    Notifier
	history     repository.ProjectHistoryRepo
	submissions repository.SubmissionRepo
	logger      *slog.Logger
	now         func() time.Time

	feeWG sync.WaitGroup
}

// NewWorkflow wires a Workflow from its collaborators.
func NewWorkflow(
	clock TimeSource,
	cfg config.Source,
	client rovas.Client,
	prompter Prompter,
	notifier Notifier,
	history repository.ProjectHistoryRepo,
	submissions repository.SubmissionRepo,
	logger *slog.Logger,
) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		clock:       clock,
		cfg:         cfg,
		client:      client,
		prompter:    prompter,
		notifier:    notifier,
		history:     history,
		submissions: submissions,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleNewCommit runs the submission flow for one new revision. The caller
// has already deduplicated: this revision is known to be new and marked
// seen. Every early return below is a deliberate quiet outcome, not an
// error path.
func (wf *Workflow) HandleNewCommit(ctx context.Context, repo vcs.Repository, revision string) {
	cfg := wf.cfg.Snapshot()
	if !preconditionsMet(cfg) {
		return
	}

	proofURL := wf.proofURL(ctx, repo, revision)

	ok, err := wf.prompter.Confirm(ctx,
		fmt.Sprintf("Create a Rovas work report for commit %s?", revision))
	if err != nil || !ok {
		return
	}

	projectID, err := wf.resolveProjectID(ctx, cfg)
	if err != nil {
		return
	}

	seconds := wf.clock.AccumulatedSeconds()
	hours := domain.ElapsedHours(seconds)

	payload := rovas.WorkReportPayload{
		Classification: domain.ReportClassification,
		Description:    domain.ReportDescription(revision, proofURL),
		ActivityName:   domain.ReportActivityName,
		Hours:          hours,
		WebAddress:     proofURL,
		ProjectID:      projectID,
		DateStarted:    wf.now().Unix(),
		AccessToken:    domain.NonceToken(),
		PublishStatus:  domain.ReportPublishStatus,
	}
	creds := rovas.Credentials{APIKey: cfg.APIKey, Token: cfg.APIToken}

	result, err := wf.client.CreateWorkReport(ctx, creds, payload)
	if err != nil {
		wf.notifier.Error("Error creating Rovas work report: " + err.Error())
		wf.record(ctx, revision, projectID, hours, 0, domain.OutcomeFailed)
		return
	}

	if result.ReportID == 0 {
		wf.notifier.Warn("Work report submitted, but the Rovas ID was not found in the response.")
		wf.record(ctx, revision, projectID, hours, 0, domain.OutcomeCreatedNoID)
		return
	}

	wf.notifier.Info(fmt.Sprintf("Rovas work report created! Rovas ID: %d", result.ReportID))
	wf.record(ctx, revision, projectID, hours, result.ReportID, domain.OutcomeCreated)

	wf.chargeUsageFee(ctx, creds, result.ReportID, hours)
}

// preconditionsMet gates submission on a complete configuration. A missing
// value means "not set up yet" and the whole flow is a quiet no-op.
func preconditionsMet(cfg config.Config) bool {
	return cfg.APIKey != "" && cfg.APIToken != "" && cfg.ProjectID != "" && cfg.PaidStatus
}

// proofURL derives the commit permalink; a repository without a remote
// yields an empty proof, which is still submittable.
func (wf *Workflow) proofURL(ctx context.Context, repo vcs.Repository, revision string) string {
	remote, err := repo.RemoteURL(ctx)
	if err != nil {
		if !errors.Is(err, vcs.ErrNoRemote) {
			wf.logger.Warn("remote url lookup failed", "repo", repo.Dir(), "error", err)
		}
		return ""
	}
	return vcs.CommitPermalink(remote, revision)
}

// resolveProjectID offers the configured default plus history, persisting a
// newly entered id for next time. Any cancellation aborts the submission.
func (wf *Workflow) resolveProjectID(ctx context.Context, cfg config.Config) (string, error) {
	history, err := wf.history.List(ctx)
	if err != nil {
		wf.logger.Warn("project history unavailable", "error", err)
		history = nil
	}

	id, enteredNew, err := wf.prompter.PickProjectID(ctx, cfg.ProjectID, history)
	if err != nil {
		return "", err
	}
	if enteredNew {
		if err := wf.history.Add(ctx, id); err != nil {
			wf.logger.Warn("persisting project id failed", "project_id", id, "error", err)
		}
	}
	return id, nil
}

// chargeUsageFee files the dependent fee in a detached goroutine. Its
// outcome is never surfaced to the user; failures are only logged.
func (wf *Workflow) chargeUsageFee(ctx context.Context, creds rovas.Credentials, reportID int64, hours float64) {
	fee := domain.UsageFee(hours)
	payload := rovas.UsageFeePayload{
		ProjectID: domain.FeeOwnerProjectID,
		ReportID:  reportID,
		UsageFee:  fee,
		Note:      domain.FeeNote,
	}

	// Outlive the poll that spawned it; the client applies its own timeout.
	feeCtx := context.WithoutCancel(ctx)

	wf.feeWG.Add(1)
	go func() {
		defer wf.feeWG.Done()
		if err := wf.client.CreateUsageFee(feeCtx, creds, payload); err != nil {
			wf.logger.Warn("usage fee submission failed",
				"report_id", reportID, "fee", fee, "error", err)
			return
		}
		wf.logger.Info("usage fee submitted", "report_id", reportID, "fee", fee)
	}()
}

// WaitForFees blocks until in-flight fee submissions finish. Used on
// shutdown and in tests.
func (wf *Workflow) WaitForFees() {
	wf.feeWG.Wait()
}

func (wf *Workflow) record(ctx context.Context, revision, projectID string, hours float64, reportID int64, outcome domain.SubmissionOutcome) {
	s := &domain.Submission{
		ID:        uuid.New().String(),
		Revision:  revision,
		ProjectID: projectID,
		Hours:     hours,
		ReportID:  reportID,
		Outcome:   outcome,
		CreatedAt: wf.now().UTC(),
	}
	if err := wf.submissions.Create(ctx, s); err != nil {
		wf.logger.Warn("recording submission failed", "revision", revision, "error", err)
	}
}

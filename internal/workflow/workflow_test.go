package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/rovas"
	"github.com/alexanderramin/tally/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu     sync.Mutex
	head   string
	remote string
	err    error
}

func (f *fakeRepo) Head(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.head, f.err
}

func (f *fakeRepo) RemoteURL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remote == "" {
		return "", vcs.ErrNoRemote
	}
	return f.remote, nil
}

func (f *fakeRepo) Dir() string { return "/work/repo" }

func (f *fakeRepo) setHead(h string) {
	f.mu.Lock()
	f.head = h
	f.mu.Unlock()
}

type fakeTimeSource struct{ seconds int }

func (f fakeTimeSource) AccumulatedSeconds() int { return f.seconds }

type fakePrompter struct {
	mu        sync.Mutex
	confirms  int
	answer    bool
	confirmCh chan struct{} // when set, Confirm blocks until closed

	pickID    string
	pickNew   bool
	pickErr   error
	pickCalls int
}

func (f *fakePrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.mu.Lock()
	f.confirms++
	ch := f.confirmCh
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return f.answer, nil
}

func (f *fakePrompter) PickProjectID(ctx context.Context, configured string, history []string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pickCalls++
	if f.pickErr != nil {
		return "", false, f.pickErr
	}
	if f.pickID == "" {
		return configured, false, nil
	}
	return f.pickID, f.pickNew, nil
}

func (f *fakePrompter) confirmCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirms
}

type fakeNotifier struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (f *fakeNotifier) Info(msg string) {
	f.mu.Lock()
	f.infos = append(f.infos, msg)
	f.mu.Unlock()
}

func (f *fakeNotifier) Warn(msg string) {
	f.mu.Lock()
	f.warns = append(f.warns, msg)
	f.mu.Unlock()
}

func (f *fakeNotifier) Error(msg string) {
	f.mu.Lock()
	f.errors = append(f.errors, msg)
	f.mu.Unlock()
}

type fakeClient struct {
	mu         sync.Mutex
	reportErr  error
	reportID   int64
	reports    []rovas.WorkReportPayload
	fees       []rovas.UsageFeePayload
	feeErr     error
	lastCreds  rovas.Credentials
}

func (f *fakeClient) CreateWorkReport(ctx context.Context, creds rovas.Credentials, p rovas.WorkReportPayload) (*rovas.WorkReportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreds = creds
	f.reports = append(f.reports, p)
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return &rovas.WorkReportResult{ReportID: f.reportID}, nil
}

func (f *fakeClient) CreateUsageFee(ctx context.Context, creds rovas.Credentials, p rovas.UsageFeePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fees = append(f.fees, p)
	return f.feeErr
}

func (f *fakeClient) feeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fees)
}

type fakeHistory struct {
	mu    sync.Mutex
	ids   []string
	added []string
}

func (f *fakeHistory) List(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...), nil
}

func (f *fakeHistory) Add(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.added = append(f.added, id)
	return nil
}

func (f *fakeHistory) Remove(_ context.Context, id string) error { return nil }

type fakeSubmissions struct {
	mu      sync.Mutex
	entries []*domain.Submission
}

func (f *fakeSubmissions) Create(_ context.Context, s *domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, s)
	return nil
}

func (f *fakeSubmissions) ListRecent(context.Context, int) ([]*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Submission(nil), f.entries...), nil
}

// ── harness ──────────────────────────────────────────────────────────────────

type harness struct {
	repo        *fakeRepo
	clock       fakeTimeSource
	prompter    *fakePrompter
	notifier    *fakeNotifier
	client      *fakeClient
	history     *fakeHistory
	submissions *fakeSubmissions
	wf          *Workflow
	watcher     *CommitWatcher
}

func completeConfig() config.Config {
	cfg := config.Default()
	cfg.APIKey = "key"
	cfg.APIToken = "tok"
	cfg.ProjectID = "12345"
	cfg.PaidStatus = true
	return cfg
}

func newHarness(t *testing.T, cfg config.Config, seconds int) *harness {
	t.Helper()
	h := &harness{
		repo:        &fakeRepo{head: "A", remote: "https://github.com/org/repo.git"},
		clock:       fakeTimeSource{seconds: seconds},
		prompter:    &fakePrompter{answer: true},
		notifier:    &fakeNotifier{},
		client:      &fakeClient{reportID: 999},
		history:     &fakeHistory{},
		submissions: &fakeSubmissions{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.wf = NewWorkflow(h.clock, config.Static{Config: cfg}, h.client, h.prompter, h.notifier, h.history, h.submissions, logger)
	h.watcher = NewCommitWatcher(h.repo, h.wf, time.Hour, logger)
	return h
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestWatcher_NoChangeNoPrompt(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	ctx := context.Background()

	h.watcher.Prime(ctx)
	h.watcher.Poll(ctx)

	assert.Equal(t, 0, h.prompter.confirmCount())
	assert.Equal(t, "A", h.watcher.LastSeen())
}

func TestWatcher_NewCommitPromptsOnce(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	ctx := context.Background()

	h.watcher.Prime(ctx)
	h.repo.setHead("B")
	h.watcher.Poll(ctx)

	assert.Equal(t, 1, h.prompter.confirmCount())
	assert.Equal(t, "B", h.watcher.LastSeen())

	// Same head again: no further prompt.
	h.watcher.Poll(ctx)
	assert.Equal(t, 1, h.prompter.confirmCount())
}

func TestWatcher_DeclineStillMarksSeen(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.prompter.answer = false
	ctx := context.Background()

	h.watcher.Prime(ctx)
	h.repo.setHead("B")
	h.watcher.Poll(ctx)

	assert.Equal(t, "B", h.watcher.LastSeen())
	assert.Empty(t, h.client.reports)

	// Declined commit does not re-prompt.
	h.watcher.Poll(ctx)
	assert.Equal(t, 1, h.prompter.confirmCount())
}

func TestWorkflow_PreconditionGateIsSilent(t *testing.T) {
	cfg := completeConfig()
	cfg.APIKey = ""
	h := newHarness(t, cfg, 3600)
	ctx := context.Background()

	h.watcher.Prime(ctx)
	h.repo.setHead("B")
	h.watcher.Poll(ctx)

	// No prompt, no messages, no network; head still marked seen.
	assert.Equal(t, 0, h.prompter.confirmCount())
	assert.Empty(t, h.notifier.infos)
	assert.Empty(t, h.notifier.errors)
	assert.Empty(t, h.client.reports)
	assert.Equal(t, "B", h.watcher.LastSeen())
}

func TestWorkflow_UnpaidStatusIsSilent(t *testing.T) {
	cfg := completeConfig()
	cfg.PaidStatus = false
	h := newHarness(t, cfg, 3600)

	h.wf.HandleNewCommit(context.Background(), h.repo, "B")
	assert.Equal(t, 0, h.prompter.confirmCount())
}

func TestWorkflow_SubmitsPayload(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	require.Len(t, h.client.reports, 1)
	p := h.client.reports[0]
	assert.Equal(t, domain.ReportClassification, p.Classification)
	assert.Equal(t, domain.ReportActivityName, p.ActivityName)
	assert.Equal(t, 1.0, p.Hours)
	assert.Equal(t, "https://github.com/org/repo/commit/abc123", p.WebAddress)
	assert.Contains(t, p.Description, "abc123")
	assert.Contains(t, p.Description, p.WebAddress)
	assert.Equal(t, "12345", p.ProjectID)
	assert.Len(t, p.AccessToken, 16)
	assert.Equal(t, domain.ReportPublishStatus, p.PublishStatus)
	assert.Equal(t, rovas.Credentials{APIKey: "key", Token: "tok"}, h.client.lastCreds)

	require.Len(t, h.notifier.infos, 1)
	assert.Contains(t, h.notifier.infos[0], "999")
}

func TestWorkflow_HoursFloor(t *testing.T) {
	h := newHarness(t, completeConfig(), 36)

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	require.Len(t, h.client.reports, 1)
	assert.Equal(t, 0.01, h.client.reports[0].Hours)
}

func TestWorkflow_FeeFollowsSuccess(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	require.Len(t, h.client.fees, 1)
	fee := h.client.fees[0]
	assert.Equal(t, domain.FeeOwnerProjectID, fee.ProjectID)
	assert.Equal(t, int64(999), fee.ReportID)
	assert.Equal(t, 0.30, fee.UsageFee)
	assert.Equal(t, domain.FeeNote, fee.Note)
}

func TestWorkflow_PrimaryFailureSkipsFee(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.client.reportErr = &rovas.StatusError{StatusCode: 500, Body: "boom"}

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	assert.Equal(t, 0, h.client.feeCount())
	require.Len(t, h.notifier.errors, 1)
	assert.Contains(t, h.notifier.errors[0], "500")
	assert.Contains(t, h.notifier.errors[0], "boom")

	require.Len(t, h.submissions.entries, 1)
	assert.Equal(t, domain.OutcomeFailed, h.submissions.entries[0].Outcome)
}

func TestWorkflow_MissingReportIDWarnsSkipsFee(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.client.reportID = 0

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	assert.Equal(t, 0, h.client.feeCount())
	require.Len(t, h.notifier.warns, 1)
	assert.Empty(t, h.notifier.errors)

	require.Len(t, h.submissions.entries, 1)
	assert.Equal(t, domain.OutcomeCreatedNoID, h.submissions.entries[0].Outcome)
}

func TestWorkflow_FeeFailureNeverSurfaced(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.client.feeErr = &rovas.StatusError{StatusCode: 502, Body: "gateway"}

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	// The user saw only the success message.
	assert.Len(t, h.notifier.infos, 1)
	assert.Empty(t, h.notifier.warns)
	assert.Empty(t, h.notifier.errors)
}

func TestWorkflow_CancelledProjectPickAborts(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.prompter.pickErr = ErrCancelled

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	assert.Empty(t, h.client.reports)
	assert.Empty(t, h.notifier.errors)
}

func TestWorkflow_NewProjectIDPersisted(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.prompter.pickID = "77777"
	h.prompter.pickNew = true

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	assert.Equal(t, []string{"77777"}, h.history.added)
	require.Len(t, h.client.reports, 1)
	assert.Equal(t, "77777", h.client.reports[0].ProjectID)
}

func TestWorkflow_NoRemoteStillSubmits(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	h.repo.remote = ""

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	require.Len(t, h.client.reports, 1)
	assert.Equal(t, "", h.client.reports[0].WebAddress)
}

func TestWorkflow_SuccessRecordsSubmission(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)

	h.wf.HandleNewCommit(context.Background(), h.repo, "abc123")
	h.wf.WaitForFees()

	require.Len(t, h.submissions.entries, 1)
	s := h.submissions.entries[0]
	assert.Equal(t, "abc123", s.Revision)
	assert.Equal(t, "12345", s.ProjectID)
	assert.Equal(t, 1.0, s.Hours)
	assert.Equal(t, int64(999), s.ReportID)
	assert.Equal(t, domain.OutcomeCreated, s.Outcome)
}

func TestWatcher_InFlightGuardSkipsOverlap(t *testing.T) {
	h := newHarness(t, completeConfig(), 3600)
	ctx := context.Background()

	h.watcher.Prime(ctx)
	h.repo.setHead("B")

	release := make(chan struct{})
	h.prompter.confirmCh = release

	done := make(chan struct{})
	go func() {
		h.watcher.Poll(ctx) // blocks in Confirm
		close(done)
	}()

	// Wait until the first poll is inside the prompt.
	require.Eventually(t, func() bool { return h.prompter.confirmCount() == 1 },
		time.Second, 5*time.Millisecond)

	// Overlapping poll is skipped entirely.
	h.repo.setHead("C")
	h.watcher.Poll(ctx)
	assert.Equal(t, 1, h.prompter.confirmCount())

	close(release)
	<-done
	h.wf.WaitForFees()
}

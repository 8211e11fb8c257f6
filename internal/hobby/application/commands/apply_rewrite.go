package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/application/services"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// DefaultBackupBranch names the backup branch for a rewrite started at now.
func DefaultBackupBranch(now time.Time) string {
	return "backup-" + now.Format("20060102-150405")
}

// ApplyRewriteCommand applies a planned rewrite.
type ApplyRewriteCommand struct {
	Plan         *PlanRewriteResult
	BackupBranch string
	NewEmail     string
}

// ApplyRewriteResult describes an applied rewrite.
type ApplyRewriteResult struct {
	Run          domain.RewriteRun
	BackupBranch string
}

// ApplyRewriteHandler handles the ApplyRewriteCommand.
type ApplyRewriteHandler struct {
	rewriter HistoryRewriter
	runs     domain.RewriteRunRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewApplyRewriteHandler creates a new ApplyRewriteHandler.
func NewApplyRewriteHandler(rewriter HistoryRewriter, runs domain.RewriteRunRepository, logger *slog.Logger) *ApplyRewriteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyRewriteHandler{
		rewriter: rewriter,
		runs:     runs,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle executes the ApplyRewriteCommand.
func (h *ApplyRewriteHandler) Handle(ctx context.Context, cmd ApplyRewriteCommand) (*ApplyRewriteResult, error) {
	plan := cmd.Plan
	if plan == nil || plan.Schedule == nil || plan.Schedule.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to rewrite", domain.ErrEmptyInput)
	}

	// Never hand git a schedule that breaks the hobby-hour rules.
	windows := domain.NewWindowCalculator(plan.Hours)
	if err := services.NewScheduleValidator(windows).ValidateOrError(plan.Commits, plan.Schedule); err != nil {
		return nil, err
	}

	startedAt := h.now()
	backup := cmd.BackupBranch
	if backup == "" {
		backup = DefaultBackupBranch(startedAt)
	}

	if err := h.rewriter.CreateBackup(ctx, backup, plan.Branch); err != nil {
		return nil, fmt.Errorf("failed to create backup branch %s: %w", backup, err)
	}
	h.logger.Info("backup branch created", "branch", plan.Branch, "backup_branch", backup)

	run := domain.NewRewriteRun(plan.Branch, backup, plan.Schedule, startedAt)

	if err := h.rewriter.Rewrite(ctx, plan.Branch, plan.Schedule, cmd.NewEmail); err != nil {
		run.Fail(h.now(), err.Error())
		h.record(ctx, run)
		return nil, fmt.Errorf("rewrite failed, restore with 'git reset --hard %s': %w", backup, err)
	}

	run.Succeed(h.now())
	h.record(ctx, run)
	h.logger.Info("history rewritten",
		"branch", plan.Branch,
		"commits", run.CommitCount,
		"backup_branch", backup,
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	)

	return &ApplyRewriteResult{Run: run, BackupBranch: backup}, nil
}

// record stores the run. A ledger failure is logged and never fails a
// rewrite that already happened.
func (h *ApplyRewriteHandler) record(ctx context.Context, run domain.RewriteRun) {
	if h.runs == nil {
		return
	}
	if err := h.runs.Create(ctx, run); err != nil {
		h.logger.Warn("failed to record rewrite run",
			"run_id", run.ID.String(),
			"error", err,
		)
	}
}

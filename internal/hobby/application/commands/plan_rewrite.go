package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/nightshift/internal/hobby/application/services"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// PlanRewriteCommand contains the data needed to plan a rewrite.
type PlanRewriteCommand struct {
	Branch string
	Hours  domain.HobbyHours
}

// PlanRewriteResult is a validated schedule ready to be applied.
type PlanRewriteResult struct {
	Branch   string
	Hours    domain.HobbyHours
	Commits  []domain.Commit
	Schedule *domain.Schedule
	Dirty    bool
	Summary  domain.Summary
}

// PlanRewriteHandler handles the PlanRewriteCommand.
type PlanRewriteHandler struct {
	source CommitSource
	logger *slog.Logger
}

// NewPlanRewriteHandler creates a new PlanRewriteHandler.
func NewPlanRewriteHandler(source CommitSource, logger *slog.Logger) *PlanRewriteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanRewriteHandler{source: source, logger: logger}
}

// Handle executes the PlanRewriteCommand. Nothing in the repository changes.
func (h *PlanRewriteHandler) Handle(ctx context.Context, cmd PlanRewriteCommand) (*PlanRewriteResult, error) {
	if err := cmd.Hours.Validate(); err != nil {
		return nil, err
	}

	state, err := h.source.CheckState(ctx, cmd.Branch)
	if err != nil {
		return nil, err
	}

	commits, err := h.source.LoadCommits(ctx, cmd.Branch)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w: branch %s has no commits", domain.ErrEmptyInput, cmd.Branch)
	}
	if err := domain.RequireLinear(commits); err != nil {
		return nil, err
	}

	windows := domain.NewWindowCalculator(cmd.Hours)
	schedule, err := services.NewTimestampScheduler(windows).Schedule(commits)
	if err != nil {
		return nil, err
	}
	if err := services.NewScheduleValidator(windows).ValidateOrError(commits, schedule); err != nil {
		return nil, err
	}

	h.logger.Info("rewrite planned",
		"branch", cmd.Branch,
		"commits", schedule.Len(),
		"dirty", state.Dirty,
	)

	return &PlanRewriteResult{
		Branch:   cmd.Branch,
		Hours:    cmd.Hours,
		Commits:  commits,
		Schedule: schedule,
		Dirty:    state.Dirty,
		Summary:  domain.Summarize(commits, schedule, cmd.Hours),
	}, nil
}

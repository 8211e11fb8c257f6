package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/felixgeelhaar/nightshift/internal/hobby/infrastructure/git"
	"github.com/felixgeelhaar/nightshift/internal/hobby/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCommitSource struct {
	mock.Mock
}

func (m *mockCommitSource) CheckState(ctx context.Context, branch string) (git.State, error) {
	args := m.Called(ctx, branch)
	return args.Get(0).(git.State), args.Error(1)
}

func (m *mockCommitSource) LoadCommits(ctx context.Context, branch string) ([]domain.Commit, error) {
	args := m.Called(ctx, branch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

type mockHistoryRewriter struct {
	mock.Mock
}

func (m *mockHistoryRewriter) CreateBackup(ctx context.Context, backupBranch, branch string) error {
	args := m.Called(ctx, backupBranch, branch)
	return args.Error(0)
}

func (m *mockHistoryRewriter) Rewrite(ctx context.Context, branch string, schedule *domain.Schedule, newEmail string) error {
	args := m.Called(ctx, branch, schedule, newEmail)
	return args.Error(0)
}

// January 2024: the 15th is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func linearHistory() []domain.Commit {
	return []domain.Commit{
		{Hash: "a1b2c3d4e5", AuthorDate: at(15, 10, 0), CommitterDate: at(15, 10, 0), LinesAdded: 40, ParentCount: 0},
		{Hash: "b2c3d4e5f6", AuthorDate: at(15, 11, 30), CommitterDate: at(15, 11, 30), LinesAdded: 120, LinesDeleted: 20, ParentCount: 1},
		{Hash: "c3d4e5f6a7", AuthorDate: at(16, 9, 15), CommitterDate: at(16, 9, 15), LinesAdded: 10, ParentCount: 1},
	}
}

func planFor(t *testing.T, commits []domain.Commit) *PlanRewriteResult {
	t.Helper()
	source := new(mockCommitSource)
	source.On("CheckState", mock.Anything, "main").Return(git.State{}, nil)
	source.On("LoadCommits", mock.Anything, "main").Return(commits, nil)

	plan, err := NewPlanRewriteHandler(source, nil).Handle(context.Background(), PlanRewriteCommand{
		Branch: "main",
		Hours:  domain.DefaultHobbyHours(),
	})
	require.NoError(t, err)
	return plan
}

func TestPlanRewriteHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("plans a linear history", func(t *testing.T) {
		source := new(mockCommitSource)
		handler := NewPlanRewriteHandler(source, nil)

		source.On("CheckState", ctx, "main").Return(git.State{Dirty: true}, nil)
		source.On("LoadCommits", ctx, "main").Return(linearHistory(), nil)

		plan, err := handler.Handle(ctx, PlanRewriteCommand{Branch: "main", Hours: domain.DefaultHobbyHours()})

		require.NoError(t, err)
		assert.Equal(t, "main", plan.Branch)
		assert.True(t, plan.Dirty)
		assert.Equal(t, 3, plan.Schedule.Len())
		assert.Equal(t, at(15, 20, 0), plan.Schedule.First().NewAuthorDate())
		assert.Equal(t, 3, plan.Summary.TotalCommits)
		source.AssertExpectations(t)
	})

	t.Run("rejects invalid hobby hours", func(t *testing.T) {
		source := new(mockCommitSource)
		handler := NewPlanRewriteHandler(source, nil)

		hours := domain.DefaultHobbyHours()
		hours.StartHour = 24

		_, err := handler.Handle(ctx, PlanRewriteCommand{Branch: "main", Hours: hours})

		assert.ErrorIs(t, err, domain.ErrInvalidHobbyHours)
		source.AssertNotCalled(t, "CheckState", mock.Anything, mock.Anything)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		source := new(mockCommitSource)
		handler := NewPlanRewriteHandler(source, nil)

		source.On("CheckState", ctx, "gone").Return(git.State{}, domain.ErrBranchNotFound)

		_, err := handler.Handle(ctx, PlanRewriteCommand{Branch: "gone", Hours: domain.DefaultHobbyHours()})

		assert.ErrorIs(t, err, domain.ErrBranchNotFound)
		source.AssertNotCalled(t, "LoadCommits", mock.Anything, mock.Anything)
	})

	t.Run("fails on empty branch", func(t *testing.T) {
		source := new(mockCommitSource)
		handler := NewPlanRewriteHandler(source, nil)

		source.On("CheckState", ctx, "main").Return(git.State{}, nil)
		source.On("LoadCommits", ctx, "main").Return([]domain.Commit{}, nil)

		_, err := handler.Handle(ctx, PlanRewriteCommand{Branch: "main", Hours: domain.DefaultHobbyHours()})

		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("rejects merges", func(t *testing.T) {
		source := new(mockCommitSource)
		handler := NewPlanRewriteHandler(source, nil)

		commits := linearHistory()
		commits[1].ParentCount = 2
		source.On("CheckState", ctx, "main").Return(git.State{}, nil)
		source.On("LoadCommits", ctx, "main").Return(commits, nil)

		plan, err := handler.Handle(ctx, PlanRewriteCommand{Branch: "main", Hours: domain.DefaultHobbyHours()})

		assert.Nil(t, plan)
		assert.ErrorIs(t, err, domain.ErrNonLinearHistory)
		assert.Contains(t, err.Error(), "b2c3d4e")
	})
}

func TestApplyRewriteHandler_Handle(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2024, time.March, 2, 14, 30, 5, 0, time.UTC)

	newHandler := func(rewriter HistoryRewriter, runs domain.RewriteRunRepository) *ApplyRewriteHandler {
		h := NewApplyRewriteHandler(rewriter, runs, nil)
		h.now = func() time.Time { return started }
		return h
	}

	t.Run("backs up, rewrites and records the run", func(t *testing.T) {
		plan := planFor(t, linearHistory())
		rewriter := new(mockHistoryRewriter)
		runs := persistence.NewMemoryRewriteRunRepository()

		rewriter.On("CreateBackup", ctx, "backup-20240302-143005", "main").Return(nil)
		rewriter.On("Rewrite", ctx, "main", plan.Schedule, "").Return(nil)

		result, err := newHandler(rewriter, runs).Handle(ctx, ApplyRewriteCommand{Plan: plan})

		require.NoError(t, err)
		assert.Equal(t, "backup-20240302-143005", result.BackupBranch)
		assert.Equal(t, domain.RewriteRunApplied, result.Run.Status)
		assert.Equal(t, 3, result.Run.CommitCount)
		rewriter.AssertExpectations(t)

		recorded, err := runs.ListRecent(ctx, "main", 0)
		require.NoError(t, err)
		require.Len(t, recorded, 1)
		assert.Equal(t, result.Run.ID, recorded[0].ID)
	})

	t.Run("uses the requested backup branch and email", func(t *testing.T) {
		plan := planFor(t, linearHistory())
		rewriter := new(mockHistoryRewriter)

		rewriter.On("CreateBackup", ctx, "before-nightshift", "main").Return(nil)
		rewriter.On("Rewrite", ctx, "main", plan.Schedule, "me@example.com").Return(nil)

		result, err := newHandler(rewriter, nil).Handle(ctx, ApplyRewriteCommand{
			Plan:         plan,
			BackupBranch: "before-nightshift",
			NewEmail:     "me@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "before-nightshift", result.BackupBranch)
		rewriter.AssertExpectations(t)
	})

	t.Run("records failure and names the backup", func(t *testing.T) {
		plan := planFor(t, linearHistory())
		rewriter := new(mockHistoryRewriter)
		runs := persistence.NewMemoryRewriteRunRepository()

		rewriter.On("CreateBackup", ctx, mock.Anything, "main").Return(nil)
		rewriter.On("Rewrite", ctx, "main", plan.Schedule, "").Return(errors.New("filter-branch exited 1"))

		result, err := newHandler(rewriter, runs).Handle(ctx, ApplyRewriteCommand{Plan: plan})

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup-20240302-143005")

		recorded, _ := runs.ListRecent(ctx, "", 0)
		require.Len(t, recorded, 1)
		assert.Equal(t, domain.RewriteRunFailed, recorded[0].Status)
		assert.Equal(t, "filter-branch exited 1", recorded[0].FailureReason)
	})

	t.Run("stops when the backup cannot be created", func(t *testing.T) {
		plan := planFor(t, linearHistory())
		rewriter := new(mockHistoryRewriter)

		rewriter.On("CreateBackup", ctx, mock.Anything, "main").Return(errors.New("branch exists"))

		_, err := newHandler(rewriter, nil).Handle(ctx, ApplyRewriteCommand{Plan: plan})

		require.Error(t, err)
		rewriter.AssertNotCalled(t, "Rewrite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuses a schedule outside hobby hours", func(t *testing.T) {
		commits := linearHistory()[:1]
		schedule := domain.NewSchedule([]domain.ScheduledCommit{
			domain.NewScheduledCommit(commits[0], at(15, 12, 0), time.UTC),
		})
		plan := &PlanRewriteResult{
			Branch:   "main",
			Hours:    domain.DefaultHobbyHours(),
			Commits:  commits,
			Schedule: schedule,
		}
		rewriter := new(mockHistoryRewriter)

		_, err := newHandler(rewriter, nil).Handle(ctx, ApplyRewriteCommand{Plan: plan})

		assert.ErrorIs(t, err, domain.ErrValidationFailure)
		rewriter.AssertNotCalled(t, "CreateBackup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuses an empty plan", func(t *testing.T) {
		_, err := newHandler(new(mockHistoryRewriter), nil).Handle(ctx, ApplyRewriteCommand{})
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})
}

func TestDefaultBackupBranch(t *testing.T) {
	assert.Equal(t, "backup-20240105-070809", DefaultBackupBranch(time.Date(2024, 1, 5, 7, 8, 9, 0, time.UTC)))
}

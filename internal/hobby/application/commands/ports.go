package commands

import (
	"context"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/felixgeelhaar/nightshift/internal/hobby/infrastructure/git"
)

// CommitSource reads the history of a branch.
type CommitSource interface {
	CheckState(ctx context.Context, branch string) (git.State, error)
	LoadCommits(ctx context.Context, branch string) ([]domain.Commit, error)
}

// HistoryRewriter backs up and rewrites a branch.
type HistoryRewriter interface {
	CreateBackup(ctx context.Context, backupBranch, branch string) error
	Rewrite(ctx context.Context, branch string, schedule *domain.Schedule, newEmail string) error
}

package domain

import "context"

// RewriteRunRepository stores the rewrite ledger.
type RewriteRunRepository interface {
	Create(ctx context.Context, run RewriteRun) error
	// ListRecent returns runs newest first. An empty branch lists every branch.
	ListRecent(ctx context.Context, branch string, limit int) ([]RewriteRun, error)
}

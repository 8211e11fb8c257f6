package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRewriteRunRepository persists rewrite runs in PostgreSQL.
type PostgresRewriteRunRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRewriteRunRepository creates a new repository.
func NewPostgresRewriteRunRepository(pool *pgxpool.Pool) *PostgresRewriteRunRepository {
	return &PostgresRewriteRunRepository{pool: pool}
}

// Create stores a finished rewrite run.
func (r *PostgresRewriteRunRepository) Create(ctx context.Context, run domain.RewriteRun) error {
	query := `
		INSERT INTO rewrite_runs (
			id, branch, backup_branch, commit_count, first_timestamp, last_timestamp,
			status, failure_reason, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Branch,
		run.BackupBranch,
		run.CommitCount,
		timePtr(run.FirstTimestamp),
		timePtr(run.LastTimestamp),
		string(run.Status),
		run.FailureReason,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

// ListRecent returns the latest runs, newest first.
func (r *PostgresRewriteRunRepository) ListRecent(ctx context.Context, branch string, limit int) ([]domain.RewriteRun, error) {
	query := `
		SELECT id, branch, backup_branch, commit_count, first_timestamp, last_timestamp,
			   status, failure_reason, started_at, finished_at
		FROM rewrite_runs
		WHERE ($1 = '' OR branch = $1)
		ORDER BY started_at DESC
	`
	args := []any{branch}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]domain.RewriteRun, 0)
	for rows.Next() {
		var run domain.RewriteRun
		var status string
		var first, last *time.Time

		if err := rows.Scan(
			&run.ID,
			&run.Branch,
			&run.BackupBranch,
			&run.CommitCount,
			&first,
			&last,
			&status,
			&run.FailureReason,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}

		run.Status = domain.RewriteRunStatus(status)
		if first != nil {
			run.FirstTimestamp = *first
		}
		if last != nil {
			run.LastTimestamp = *last
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/google/uuid"
)

// sortableTime keeps fixed-width fractions so TEXT ordering matches time ordering.
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRewriteRunRepository persists rewrite runs in SQLite.
type SQLiteRewriteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRewriteRunRepository creates a new SQLite rewrite run repository.
func NewSQLiteRewriteRunRepository(db *sql.DB) *SQLiteRewriteRunRepository {
	return &SQLiteRewriteRunRepository{db: db}
}

// Create stores a finished rewrite run.
func (r *SQLiteRewriteRunRepository) Create(ctx context.Context, run domain.RewriteRun) error {
	query := `
		INSERT INTO rewrite_runs (
			id, branch, backup_branch, commit_count, first_timestamp, last_timestamp,
			status, failure_reason, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var failureReason sql.NullString
	if run.FailureReason != "" {
		failureReason = sql.NullString{String: run.FailureReason, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID.String(),
		run.Branch,
		run.BackupBranch,
		run.CommitCount,
		nullTime(run.FirstTimestamp),
		nullTime(run.LastTimestamp),
		string(run.Status),
		failureReason,
		run.StartedAt.UTC().Format(sortableTime),
		run.FinishedAt.UTC().Format(sortableTime),
	)
	return err
}

// ListRecent returns the latest runs, newest first.
func (r *SQLiteRewriteRunRepository) ListRecent(ctx context.Context, branch string, limit int) ([]domain.RewriteRun, error) {
	query := `
		SELECT id, branch, backup_branch, commit_count, first_timestamp, last_timestamp,
			   status, failure_reason, started_at, finished_at
		FROM rewrite_runs
		WHERE (? = '' OR branch = ?)
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, branch, branch, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]domain.RewriteRun, 0)
	for rows.Next() {
		var run domain.RewriteRun
		var idStr, status string
		var firstStr, lastStr, failureReason sql.NullString
		var startedStr, finishedStr string

		if err := rows.Scan(
			&idStr,
			&run.Branch,
			&run.BackupBranch,
			&run.CommitCount,
			&firstStr,
			&lastStr,
			&status,
			&failureReason,
			&startedStr,
			&finishedStr,
		); err != nil {
			return nil, err
		}

		run.ID, _ = uuid.Parse(idStr)
		run.Status = domain.RewriteRunStatus(status)
		run.FailureReason = failureReason.String
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr)
		if firstStr.Valid {
			run.FirstTimestamp, _ = time.Parse(time.RFC3339, firstStr.String)
		}
		if lastStr.Valid {
			run.LastTimestamp, _ = time.Parse(time.RFC3339, lastStr.String)
		}

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// nullTime keeps the commit's own offset; rewritten timestamps are shown
// in the author's zone.
func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

// limitOrAll maps a non-positive limit to SQLite's "no limit".
func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

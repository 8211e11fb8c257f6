package domain

import (
	"time"

	"github.com/google/uuid"
)

// RewriteRunStatus describes how a rewrite ended.
type RewriteRunStatus string

const (
	RewriteRunApplied RewriteRunStatus = "applied"
	RewriteRunFailed  RewriteRunStatus = "failed"
)

// RewriteRun captures one applied (or attempted) rewrite for auditing, so
// the backup branch of every rewrite can be found later.
type RewriteRun struct {
	ID             uuid.UUID
	Branch         string
	BackupBranch   string
	CommitCount    int
	FirstTimestamp time.Time
	LastTimestamp  time.Time
	Status         RewriteRunStatus
	FailureReason  string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// NewRewriteRun starts a run record for a schedule about to be applied.
func NewRewriteRun(branch, backupBranch string, schedule *Schedule, startedAt time.Time) RewriteRun {
	run := RewriteRun{
		ID:           uuid.New(),
		Branch:       branch,
		BackupBranch: backupBranch,
		StartedAt:    startedAt.UTC(),
	}
	if schedule != nil && !schedule.IsEmpty() {
		run.CommitCount = schedule.Len()
		run.FirstTimestamp = schedule.First().NewAuthorDate()
		run.LastTimestamp = schedule.Last().NewAuthorDate()
	}
	return run
}

// Succeed marks the run as applied.
func (r *RewriteRun) Succeed(at time.Time) {
	r.Status = RewriteRunApplied
	r.FailureReason = ""
	r.FinishedAt = at.UTC()
}

// Fail marks the run as failed with a reason.
func (r *RewriteRun) Fail(at time.Time, reason string) {
	r.Status = RewriteRunFailed
	r.FailureReason = reason
	r.FinishedAt = at.UTC()
}

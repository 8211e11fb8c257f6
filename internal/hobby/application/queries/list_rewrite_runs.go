package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// DefaultRunLimit caps history listings when no limit is given.
const DefaultRunLimit = 20

// ListRewriteRunsQuery contains the parameters for listing rewrite runs.
type ListRewriteRunsQuery struct {
	Branch string
	Limit  int
}

// RewriteRunDTO is a rewrite run prepared for display.
type RewriteRunDTO struct {
	ID             string
	Branch         string
	BackupBranch   string
	CommitCount    int
	FirstTimestamp string
	LastTimestamp  string
	Status         string
	FailureReason  string
	StartedAt      string
	Duration       string
}

// ListRewriteRunsHandler handles the ListRewriteRunsQuery.
type ListRewriteRunsHandler struct {
	runs domain.RewriteRunRepository
}

// NewListRewriteRunsHandler creates a new ListRewriteRunsHandler.
func NewListRewriteRunsHandler(runs domain.RewriteRunRepository) *ListRewriteRunsHandler {
	return &ListRewriteRunsHandler{runs: runs}
}

// Handle returns recorded runs, newest first.
func (h *ListRewriteRunsHandler) Handle(ctx context.Context, query ListRewriteRunsQuery) ([]RewriteRunDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	runs, err := h.runs.ListRecent(ctx, query.Branch, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]RewriteRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toDTO(run))
	}
	return dtos, nil
}

func toDTO(run domain.RewriteRun) RewriteRunDTO {
	dto := RewriteRunDTO{
		ID:            run.ID.String(),
		Branch:        run.Branch,
		BackupBranch:  run.BackupBranch,
		CommitCount:   run.CommitCount,
		Status:        string(run.Status),
		FailureReason: run.FailureReason,
		StartedAt:     run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		Duration:      run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
	}
	if !run.FirstTimestamp.IsZero() {
		dto.FirstTimestamp = run.FirstTimestamp.Format("2006-01-02 15:04")
	}
	if !run.LastTimestamp.IsZero() {
		dto.LastTimestamp = run.LastTimestamp.Format("2006-01-02 15:04")
	}
	return dto
}

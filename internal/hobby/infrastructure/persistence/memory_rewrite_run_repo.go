package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// MemoryRewriteRunRepository keeps rewrite runs for the life of the process.
// It backs the ledger when persistence is disabled.
type MemoryRewriteRunRepository struct {
	mu   sync.RWMutex
	runs []domain.RewriteRun
}

// NewMemoryRewriteRunRepository creates an empty in-memory repository.
func NewMemoryRewriteRunRepository() *MemoryRewriteRunRepository {
	return &MemoryRewriteRunRepository{}
}

// Create stores a run.
func (r *MemoryRewriteRunRepository) Create(_ context.Context, run domain.RewriteRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

// ListRecent returns the latest runs, newest first.
func (r *MemoryRewriteRunRepository) ListRecent(_ context.Context, branch string, limit int) ([]domain.RewriteRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]domain.RewriteRun, 0, len(r.runs))
	for _, run := range r.runs {
		if branch == "" || run.Branch == branch {
			runs = append(runs, run)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

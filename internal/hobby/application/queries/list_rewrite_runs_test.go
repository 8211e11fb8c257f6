package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRewriteRunRepo struct {
	mock.Mock
}

func (m *mockRewriteRunRepo) Create(ctx context.Context, run domain.RewriteRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRewriteRunRepo) ListRecent(ctx context.Context, branch string, limit int) ([]domain.RewriteRun, error) {
	args := m.Called(ctx, branch, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RewriteRun), args.Error(1)
}

func TestListRewriteRunsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2024, 3, 2, 14, 30, 0, 0, time.UTC)

	run := domain.RewriteRun{
		ID:             uuid.New(),
		Branch:         "main",
		BackupBranch:   "backup-20240302-143000",
		CommitCount:    12,
		FirstTimestamp: time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC),
		LastTimestamp:  time.Date(2024, 1, 20, 3, 45, 0, 0, time.UTC),
		Status:         domain.RewriteRunApplied,
		StartedAt:      started,
		FinishedAt:     started.Add(1500 * time.Millisecond),
	}

	t.Run("maps runs to DTOs", func(t *testing.T) {
		repo := new(mockRewriteRunRepo)
		repo.On("ListRecent", ctx, "main", 5).Return([]domain.RewriteRun{run}, nil)

		dtos, err := NewListRewriteRunsHandler(repo).Handle(ctx, ListRewriteRunsQuery{Branch: "main", Limit: 5})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, run.ID.String(), dtos[0].ID)
		assert.Equal(t, "backup-20240302-143000", dtos[0].BackupBranch)
		assert.Equal(t, 12, dtos[0].CommitCount)
		assert.Equal(t, "applied", dtos[0].Status)
		assert.Equal(t, "2024-01-15 20:00", dtos[0].FirstTimestamp)
		assert.Equal(t, "2024-01-20 03:45", dtos[0].LastTimestamp)
		assert.Equal(t, "1.5s", dtos[0].Duration)
		repo.AssertExpectations(t)
	})

	t.Run("applies the default limit", func(t *testing.T) {
		repo := new(mockRewriteRunRepo)
		repo.On("ListRecent", ctx, "", DefaultRunLimit).Return([]domain.RewriteRun{}, nil)

		dtos, err := NewListRewriteRunsHandler(repo).Handle(ctx, ListRewriteRunsQuery{})

		require.NoError(t, err)
		assert.Empty(t, dtos)
		repo.AssertExpectations(t)
	})

	t.Run("propagates errors", func(t *testing.T) {
		repo := new(mockRewriteRunRepo)
		repo.On("ListRecent", ctx, "", DefaultRunLimit).Return(nil, errors.New("database locked"))

		_, err := NewListRewriteRunsHandler(repo).Handle(ctx, ListRewriteRunsQuery{})

		assert.EqualError(t, err, "database locked")
	})
}

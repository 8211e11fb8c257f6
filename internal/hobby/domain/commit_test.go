package domain_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit_Basics(t *testing.T) {
	c := domain.Commit{Hash: "0123456789abcdef", LinesAdded: 12, LinesDeleted: 3, ParentCount: 1}

	assert.Equal(t, 15, c.WorkSize())
	assert.Equal(t, "0123456", c.ShortHash())
	assert.False(t, c.IsMerge())
	assert.Equal(t, "abc", domain.Commit{Hash: "abc"}.ShortHash())
}

func TestRequireLinear(t *testing.T) {
	linear := []domain.Commit{
		{Hash: "a1", ParentCount: 0},
		{Hash: "b2", ParentCount: 1},
	}
	require.NoError(t, domain.RequireLinear(linear))

	withMerge := append(linear, domain.Commit{Hash: "c3c3c3c3c3", ParentCount: 2})
	err := domain.RequireLinear(withMerge)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonLinearHistory)

	var nonLinear *domain.NonLinearHistoryError
	require.True(t, errors.As(err, &nonLinear))
	require.Len(t, nonLinear.Merges, 1)
	assert.Equal(t, "c3c3c3c3c3", nonLinear.Merges[0].Hash)
	assert.Contains(t, err.Error(), "c3c3c3c")
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput        = errors.New("no events")
	ErrNonLinearHistory  = errors.New("non-linear history")
	ErrValidationFailure = errors.New("schedule validation failed")
	ErrInvalidHobbyHours = errors.New("invalid hobby hours")
	ErrNotARepository    = errors.New("not a git repository")
	ErrBranchNotFound    = errors.New("branch does not exist")
	ErrRewriteAborted    = errors.New("rewrite aborted")
)

// NonLinearHistoryError reports the merge commits that make a branch
// unusable for rescheduling.
type NonLinearHistoryError struct {
	Merges []Commit
}

func (e *NonLinearHistoryError) Error() string {
	hashes := make([]string, 0, len(e.Merges))
	for _, c := range e.Merges {
		hashes = append(hashes, c.ShortHash())
	}
	return fmt.Sprintf("%s: %d merge commit(s): %s", ErrNonLinearHistory, len(e.Merges), strings.Join(hashes, ", "))
}

// Is makes errors.Is(err, ErrNonLinearHistory) match.
func (e *NonLinearHistoryError) Is(target error) bool {
	return target == ErrNonLinearHistory
}

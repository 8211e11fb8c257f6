package domain

import "time"

// Commit is a read-only snapshot of one commit on the branch being rewritten.
type Commit struct {
	Hash          string
	AuthorDate    time.Time
	CommitterDate time.Time
	LinesAdded    int
	LinesDeleted  int
	Subject       string
	ParentCount   int
}

// WorkSize is the total number of changed lines.
func (c Commit) WorkSize() int {
	return c.LinesAdded + c.LinesDeleted
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return c.ParentCount > 1
}

// ShortHash returns the abbreviated hash used in messages.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// FindMerges returns the commits that have more than one parent.
func FindMerges(commits []Commit) []Commit {
	var merges []Commit
	for _, c := range commits {
		if c.IsMerge() {
			merges = append(merges, c)
		}
	}
	return merges
}

// RequireLinear fails with a NonLinearHistoryError when any commit is a merge.
func RequireLinear(commits []Commit) error {
	if merges := FindMerges(commits); len(merges) > 0 {
		return &NonLinearHistoryError{Merges: merges}
	}
	return nil
}

package domain

import "time"

// ScheduledCommit pairs a commit with its reassigned timestamp. Author and
// committer dates receive the same value.
type ScheduledCommit struct {
	commit    Commit
	newCivil  time.Time
	timestamp time.Time
}

// NewScheduledCommit places civil (a wall-clock time) in zone. Every entry of
// one schedule must share the same zone, otherwise wall-clock order and the
// order of the written instants can disagree.
func NewScheduledCommit(commit Commit, civil time.Time, zone *time.Location) ScheduledCommit {
	civil = Civil(civil)
	return ScheduledCommit{
		commit:    commit,
		newCivil:  civil,
		timestamp: InLocation(civil, zone),
	}
}

// ScheduleZone is the fixed UTC offset a schedule is written in: the offset
// of the first commit's author date. A fixed offset has no DST transitions.
func ScheduleZone(commits []Commit) *time.Location {
	if len(commits) == 0 {
		return time.UTC
	}
	_, offset := commits[0].AuthorDate.Zone()
	return time.FixedZone("", offset)
}

func (s ScheduledCommit) Commit() Commit              { return s.commit }
func (s ScheduledCommit) Hash() string                { return s.commit.Hash }
func (s ScheduledCommit) NewAuthorDate() time.Time    { return s.timestamp }
func (s ScheduledCommit) NewCommitterDate() time.Time { return s.timestamp }

// Civil returns the new timestamp as zone-less wall clock.
func (s ScheduledCommit) Civil() time.Time { return s.newCivil }

// Shift is the distance between the original and new author date.
func (s ScheduledCommit) Shift() time.Duration {
	return s.timestamp.Sub(s.commit.AuthorDate)
}

// Schedule is the ordered result of rescheduling a branch.
type Schedule struct {
	entries []ScheduledCommit
}

// NewSchedule creates a schedule from ordered entries.
func NewSchedule(entries []ScheduledCommit) *Schedule {
	copied := make([]ScheduledCommit, len(entries))
	copy(copied, entries)
	return &Schedule{entries: copied}
}

// Entries returns a copy of the scheduled commits.
func (s *Schedule) Entries() []ScheduledCommit {
	copied := make([]ScheduledCommit, len(s.entries))
	copy(copied, s.entries)
	return copied
}

func (s *Schedule) Len() int                 { return len(s.entries) }
func (s *Schedule) At(i int) ScheduledCommit { return s.entries[i] }
func (s *Schedule) IsEmpty() bool            { return len(s.entries) == 0 }

// First returns the earliest scheduled commit. The schedule must not be empty.
func (s *Schedule) First() ScheduledCommit { return s.entries[0] }

// Last returns the latest scheduled commit. The schedule must not be empty.
func (s *Schedule) Last() ScheduledCommit { return s.entries[len(s.entries)-1] }

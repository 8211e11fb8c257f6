package services

import (
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// TimestampScheduler moves every commit of a linear branch into hobby
// hours while keeping order and pacing.
type TimestampScheduler struct {
	windows *domain.WindowCalculator
}

// NewTimestampScheduler creates a scheduler for the given policy.
func NewTimestampScheduler(windows *domain.WindowCalculator) *TimestampScheduler {
	return &TimestampScheduler{windows: windows}
}

// Schedule assigns a new timestamp to each commit, in order.
//
// Every new timestamp is written in the first commit's UTC offset.
// The first commit lands at the start of the window at or after its
// original time. Every later commit keeps at least the larger of its rate
// floor and the configured share of its original gap to the previous
// commit. A commit that does not fit in the open window moves to the first
// later window that can hold it.
func (s *TimestampScheduler) Schedule(commits []domain.Commit) (*domain.Schedule, error) {
	if len(commits) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if err := domain.RequireLinear(commits); err != nil {
		return nil, err
	}

	hours := s.windows.Hours()
	zone := domain.ScheduleZone(commits)
	window := s.windows.WindowAt(commits[0].AuthorDate)
	current := window.Start

	entries := make([]domain.ScheduledCommit, 0, len(commits))
	entries = append(entries, domain.NewScheduledCommit(commits[0], current, zone))

	for i := 1; i < len(commits); i++ {
		gap := commits[i].AuthorDate.Sub(commits[i-1].AuthorDate)
		candidate := current.Add(hours.RequiredGap(gap, commits[i].WorkSize()))

		if candidate.Before(window.End) {
			current = candidate
		} else {
			window, current = s.advance(window, candidate)
		}

		entries = append(entries, domain.NewScheduledCommit(commits[i], current, zone))
	}

	return domain.NewSchedule(entries), nil
}

// advance walks forward from window until one ends after candidate and
// returns it with the earliest permitted time in it.
func (s *TimestampScheduler) advance(window domain.Window, candidate time.Time) (domain.Window, time.Time) {
	for !candidate.Before(window.End) {
		window = s.windows.NextWindowAfter(window)
	}
	if candidate.Before(window.Start) {
		return window, window.Start
	}
	return window, candidate
}

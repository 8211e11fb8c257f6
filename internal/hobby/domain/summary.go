package domain

import (
	"fmt"
	"time"
)

// SampleSize is the number of changes shown in a summary.
const SampleSize = 5

// SampleChange shows how one commit moves.
type SampleChange struct {
	ShortHash    string
	Original     time.Time
	Adjusted     time.Time
	LinesChanged int
	Shift        time.Duration
}

// Summary describes a proposed rewrite for display.
type Summary struct {
	Hours              HobbyHours
	TotalCommits       int
	MergeCommits       int
	OriginalStart      time.Time
	OriginalEnd        time.Time
	OriginalSpanDays   int
	AdjustedStart      time.Time
	AdjustedEnd        time.Time
	AdjustedSpanNights int
	Samples            []SampleChange
	Remaining          int
}

// Summarize builds the summary for commits and their schedule. Times are
// reported as civil wall clock.
func Summarize(commits []Commit, schedule *Schedule, hours HobbyHours) Summary {
	s := Summary{
		Hours:        hours,
		TotalCommits: len(commits),
		MergeCommits: len(FindMerges(commits)),
	}
	if len(commits) == 0 || schedule == nil || schedule.IsEmpty() {
		return s
	}

	s.OriginalStart = Civil(commits[0].AuthorDate)
	s.OriginalEnd = Civil(commits[len(commits)-1].AuthorDate)
	s.OriginalSpanDays = wholeDays(commits[len(commits)-1].AuthorDate.Sub(commits[0].AuthorDate))

	s.AdjustedStart = schedule.First().Civil()
	s.AdjustedEnd = schedule.Last().Civil()
	s.AdjustedSpanNights = wholeDays(s.AdjustedEnd.Sub(s.AdjustedStart))

	for i, entry := range schedule.Entries() {
		if i >= SampleSize {
			break
		}
		s.Samples = append(s.Samples, SampleChange{
			ShortHash:    entry.Commit().ShortHash(),
			Original:     Civil(entry.Commit().AuthorDate),
			Adjusted:     entry.Civil(),
			LinesChanged: entry.Commit().WorkSize(),
			Shift:        entry.Shift(),
		})
	}
	if schedule.Len() > SampleSize {
		s.Remaining = schedule.Len() - SampleSize
	}
	return s
}

// FormatShift renders a shift as "+3h05m" or "-0h30m".
func FormatShift(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%s%dh%02dm", sign, hours, minutes)
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

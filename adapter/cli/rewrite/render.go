package rewrite

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/nightshift/internal/hobby/application/queries"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

const (
	minuteLayout = "2006-01-02 15:04"
	dayLayout    = "2006-01-02"
	subjectWidth = 50
)

var rule = strings.Repeat("=", 60)

// RenderSummary prints the proposed rewrite.
func RenderSummary(w io.Writer, branch, newEmail string, s domain.Summary, dryRun bool) {
	fmt.Fprint(w, "\nGit History Timestamp Adjustment")
	if dryRun {
		fmt.Fprint(w, " - Dry Run")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nConfiguration:")
	fmt.Fprintf(w, "  Branch: %s\n", branch)
	fmt.Fprintf(w, "  Weekday hobby hours: %02d:00 - %02d:00\n", s.Hours.StartHour, s.Hours.EndHour)
	fmt.Fprintln(w, "  Weekend hobby hours: 00:00 - 24:00 (all day)")
	fmt.Fprintf(w, "  Minimum rate: %g lines/hour\n", s.Hours.CodingRate)
	fmt.Fprintf(w, "  Distance factor: %g\n", s.Hours.DistanceFactor)
	if newEmail != "" {
		fmt.Fprintf(w, "  New email: %s\n", newEmail)
	}

	fmt.Fprintln(w, "\nAnalysis:")
	fmt.Fprintf(w, "  Total commits: %d\n", s.TotalCommits)
	fmt.Fprintf(w, "  Merge commits: %d ✓\n", s.MergeCommits)
	if s.TotalCommits > 0 {
		fmt.Fprintf(w, "  Original span: %s to %s (%d days)\n",
			s.OriginalStart.Format(minuteLayout), s.OriginalEnd.Format(minuteLayout), s.OriginalSpanDays)
		fmt.Fprintf(w, "  Adjusted span: %s to %s (%d nights)\n",
			s.AdjustedStart.Format(minuteLayout), s.AdjustedEnd.Format(minuteLayout), s.AdjustedSpanNights)
	}

	fmt.Fprintln(w, "\nSample changes:")
	for _, sample := range s.Samples {
		fmt.Fprintf(w, "  %s: %s -> %s (%d lines, %s)\n",
			sample.ShortHash,
			sample.Original.Format(minuteLayout),
			sample.Adjusted.Format(minuteLayout),
			sample.LinesChanged,
			domain.FormatShift(sample.Shift),
		)
	}
	if s.Remaining > 0 {
		fmt.Fprintf(w, "  ... and %d more commits\n", s.Remaining)
	}

	fmt.Fprintln(w, "\nConstraints satisfied:")
	fmt.Fprintln(w, "  ✓ All timestamps within hobby hours")
	fmt.Fprintln(w, "  ✓ Chronological order preserved")
	fmt.Fprintln(w, "  ✓ Minimum coding rate satisfied")
	fmt.Fprintf(w, "  ✓ Temporal distance ≥%d%% preserved\n", int(s.Hours.DistanceFactor*100))

	if dryRun {
		fmt.Fprintf(w, "\nWould rewrite %d commits across %d nights.\n", s.TotalCommits, s.AdjustedSpanNights)
		fmt.Fprintln(w, "Run without --dry-run to apply changes.")
		return
	}
	fmt.Fprintf(w, "\nWill rewrite %d commits across %d nights.\n", s.TotalCommits, s.AdjustedSpanNights)
}

// RenderMerges explains why a branch with merges cannot be rewritten.
func RenderMerges(w io.Writer, branch string, merges []domain.Commit) {
	fmt.Fprintln(w, "\nERROR: Cannot process branch with merge commits.")
	fmt.Fprintf(w, "\nBranch '%s' contains merge commits at:\n", branch)
	for _, c := range merges {
		fmt.Fprintf(w, "  - %s (%s - %s)\n", c.ShortHash(), truncate(c.Subject, subjectWidth), c.AuthorDate.Format(dayLayout))
	}
	fmt.Fprintln(w, "\nThis tool only works with linear history (no merges).")
	fmt.Fprintln(w, "\nSuggestions:")
	fmt.Fprintln(w, "  1. Use a different branch with linear history")
	fmt.Fprintln(w, "  2. Create a squashed copy of your branch")
	fmt.Fprintln(w, "  3. Rebase to create linear history (git rebase -i)")
}

// RenderViolations lists every broken constraint.
func RenderViolations(w io.Writer, violations []domain.Violation) {
	fmt.Fprintln(w, "\nVALIDATION ERRORS:")
	for _, v := range violations {
		fmt.Fprintf(w, "  - %s\n", v.String())
	}
}

// RenderRuns prints the rewrite ledger.
func RenderRuns(w io.Writer, runs []queries.RewriteRunDTO) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No rewrites recorded.")
		return
	}

	fmt.Fprintln(w, "Recorded rewrites")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, run := range runs {
		fmt.Fprintf(w, "%s %-7s %s -> %s (%d commits", run.StartedAt, run.Status, run.Branch, run.BackupBranch, run.CommitCount)
		if run.FirstTimestamp != "" {
			fmt.Fprintf(w, ", %s to %s", run.FirstTimestamp, run.LastTimestamp)
		}
		fmt.Fprintln(w, ")")
		if run.FailureReason != "" {
			fmt.Fprintf(w, "    reason: %s\n", run.FailureReason)
		}
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

package services

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// Tolerance absorbs rounding when comparing gaps.
const Tolerance = time.Second

// ScheduleValidator re-checks a schedule from scratch before anything is
// written back to the repository.
type ScheduleValidator struct {
	windows *domain.WindowCalculator
}

// NewScheduleValidator creates a validator for the given policy.
func NewScheduleValidator(windows *domain.WindowCalculator) *ScheduleValidator {
	return &ScheduleValidator{windows: windows}
}

// Validate returns every violation found. An empty result means the
// schedule is safe to apply.
func (v *ScheduleValidator) Validate(original []domain.Commit, schedule *domain.Schedule) []domain.Violation {
	var violations []domain.Violation
	if schedule == nil {
		return []domain.Violation{{
			Kind:    domain.ViolationMismatch,
			Message: "no schedule to validate",
		}}
	}
	if schedule.Len() != len(original) {
		return []domain.Violation{{
			Kind:    domain.ViolationMismatch,
			Message: fmt.Sprintf("schedule has %d commits, branch has %d", schedule.Len(), len(original)),
		}}
	}

	hours := v.windows.Hours()
	entries := schedule.Entries()
	for i, entry := range entries {
		short := original[i].ShortHash()
		if entry.Hash() != original[i].Hash {
			violations = append(violations, domain.Violation{
				Hash:    original[i].Hash,
				Kind:    domain.ViolationMismatch,
				Message: fmt.Sprintf("commit %s scheduled out of place (found %s)", short, entry.Commit().ShortHash()),
			})
			continue
		}

		newTime := entry.NewAuthorDate()
		if wall := domain.Civil(newTime); !v.windows.IsInsideWindow(wall) {
			violations = append(violations, domain.Violation{
				Hash:    entry.Hash(),
				Kind:    domain.ViolationOutsideWindow,
				Message: fmt.Sprintf("commit %s timestamp %s is outside hobby hours", short, wall.Format("2006-01-02 15:04:05")),
			})
		}

		if i == 0 {
			continue
		}

		// Order and pacing apply to the instants git will record.
		prevTime := entries[i-1].NewAuthorDate()
		if !newTime.After(prevTime) {
			violations = append(violations, domain.Violation{
				Hash:    entry.Hash(),
				Kind:    domain.ViolationOrder,
				Message: fmt.Sprintf("commit %s breaks chronological order", short),
			})
		}

		newGap := newTime.Sub(prevTime)
		minDistance := hours.MinimumDistance(original[i].AuthorDate.Sub(original[i-1].AuthorDate))
		if newGap < minDistance-Tolerance {
			violations = append(violations, domain.Violation{
				Hash: entry.Hash(),
				Kind: domain.ViolationDistance,
				Message: fmt.Sprintf("commit %s temporal distance too small: %.0fs < %.0fs required",
					short, newGap.Seconds(), minDistance.Seconds()),
			})
		}

		minCoding := hours.MinimumDuration(original[i].WorkSize())
		if newGap < minCoding-Tolerance {
			violations = append(violations, domain.Violation{
				Hash: entry.Hash(),
				Kind: domain.ViolationCodingRate,
				Message: fmt.Sprintf("commit %s coding rate too fast: %.0fs for %d lines",
					short, newGap.Seconds(), original[i].WorkSize()),
			})
		}
	}

	return violations
}

// ValidateOrError returns a *domain.ValidationError when the schedule
// breaks any invariant.
func (v *ScheduleValidator) ValidateOrError(original []domain.Commit, schedule *domain.Schedule) error {
	if violations := v.Validate(original, schedule); len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

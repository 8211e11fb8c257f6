package domain

import (
	"fmt"
	"strings"
)

// ViolationKind names the invariant a scheduled commit breaks.
type ViolationKind string

const (
	ViolationOutsideWindow ViolationKind = "outside-window"
	ViolationOrder         ViolationKind = "order"
	ViolationDistance      ViolationKind = "distance"
	ViolationCodingRate    ViolationKind = "coding-rate"
	ViolationMismatch      ViolationKind = "mismatch"
)

// Violation describes one broken invariant.
type Violation struct {
	Hash    string
	Kind    ViolationKind
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Kind, v.Message)
}

// ValidationError carries every violation found in a rejected schedule.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailure, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrValidationFailure) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailure
}

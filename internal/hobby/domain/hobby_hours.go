package domain

import (
	"fmt"
	"time"
)

const (
	DefaultStartHour      = 20
	DefaultEndHour        = 4
	DefaultCodingRate     = 100.0
	DefaultDistanceFactor = 0.5
	DefaultFloorMinutes   = 5
)

// HobbyHours configures the permitted windows and the pacing floors.
// An EndHour at or before StartHour means the weekday window crosses midnight.
type HobbyHours struct {
	StartHour      int
	EndHour        int
	CodingRate     float64 // work units (changed lines) per hour
	DistanceFactor float64 // share of the original gap that must survive
	FloorMinutes   int     // minimum duration of any commit
}

// DefaultHobbyHours returns weekday evenings 20:00-04:00 at 100 lines/hour.
func DefaultHobbyHours() HobbyHours {
	return HobbyHours{
		StartHour:      DefaultStartHour,
		EndHour:        DefaultEndHour,
		CodingRate:     DefaultCodingRate,
		DistanceFactor: DefaultDistanceFactor,
		FloorMinutes:   DefaultFloorMinutes,
	}
}

// Validate checks the configuration ranges.
func (h HobbyHours) Validate() error {
	if h.StartHour < 0 || h.StartHour > 23 {
		return fmt.Errorf("%w: start hour %d outside 0-23", ErrInvalidHobbyHours, h.StartHour)
	}
	if h.EndHour < 0 || h.EndHour > 23 {
		return fmt.Errorf("%w: end hour %d outside 0-23", ErrInvalidHobbyHours, h.EndHour)
	}
	if h.CodingRate <= 0 {
		return fmt.Errorf("%w: coding rate must be positive", ErrInvalidHobbyHours)
	}
	if h.DistanceFactor <= 0 || h.DistanceFactor > 1 {
		return fmt.Errorf("%w: distance factor %.2f outside (0,1]", ErrInvalidHobbyHours, h.DistanceFactor)
	}
	if h.FloorMinutes <= 0 {
		return fmt.Errorf("%w: floor minutes must be positive", ErrInvalidHobbyHours)
	}
	return nil
}

// CrossesMidnight reports whether the weekday window ends on the next day.
func (h HobbyHours) CrossesMidnight() bool {
	return h.EndHour <= h.StartHour
}

// WindowDuration returns the length of a full weekday window.
func (h HobbyHours) WindowDuration() time.Duration {
	if h.CrossesMidnight() {
		return time.Duration(24-h.StartHour+h.EndHour) * time.Hour
	}
	return time.Duration(h.EndHour-h.StartHour) * time.Hour
}

// Floor returns the minimum duration of any commit.
func (h HobbyHours) Floor() time.Duration {
	return time.Duration(h.FloorMinutes) * time.Minute
}

// MinimumDuration converts a work size into the shortest plausible time
// needed to produce it.
func (h HobbyHours) MinimumDuration(workSize int) time.Duration {
	byRate := time.Duration(float64(workSize) / h.CodingRate * float64(time.Hour))
	if floor := h.Floor(); byRate < floor {
		return floor
	}
	return byRate
}

// MinimumDistance returns the share of an original gap that must be kept.
// Negative gaps (author dates out of topological order) keep nothing.
func (h HobbyHours) MinimumDistance(originalGap time.Duration) time.Duration {
	if originalGap <= 0 {
		return 0
	}
	return time.Duration(float64(originalGap) * h.DistanceFactor)
}

// RequiredGap is the larger of the distance floor and the rate floor.
func (h HobbyHours) RequiredGap(originalGap time.Duration, workSize int) time.Duration {
	byDistance := h.MinimumDistance(originalGap)
	byRate := h.MinimumDuration(workSize)
	if byDistance > byRate {
		return byDistance
	}
	return byRate
}

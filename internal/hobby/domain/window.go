package domain

import "time"

// WindowKind is the window policy that applies to a calendar day.
type WindowKind string

const (
	WindowKindWeekdaySameDay  WindowKind = "weekday-same-day"
	WindowKindWeekdayCrossing WindowKind = "weekday-crossing-midnight"
	WindowKindWeekend         WindowKind = "weekend"
)

// Window is a half-open permitted interval [Start, End) in civil time.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	t = Civil(t)
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Civil drops the zone of t and keeps its wall clock. All window arithmetic
// runs on civil times so that days are always 24 hours long.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// InLocation puts the wall clock of a civil time back into loc.
func InLocation(civil time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(civil.Year(), civil.Month(), civil.Day(), civil.Hour(), civil.Minute(), civil.Second(), civil.Nanosecond(), loc)
}

// WindowCalculator answers window questions for one HobbyHours policy.
type WindowCalculator struct {
	hours HobbyHours
}

// NewWindowCalculator creates a calculator for the given policy.
func NewWindowCalculator(hours HobbyHours) *WindowCalculator {
	return &WindowCalculator{hours: hours}
}

// Hours returns the policy the calculator was built with.
func (c *WindowCalculator) Hours() HobbyHours {
	return c.hours
}

// KindAt resolves the window policy for the day of t.
func (c *WindowCalculator) KindAt(t time.Time) WindowKind {
	if isWeekend(Civil(t).Weekday()) {
		return WindowKindWeekend
	}
	if c.hours.CrossesMidnight() {
		return WindowKindWeekdayCrossing
	}
	return WindowKindWeekdaySameDay
}

// IsInsideWindow reports whether t falls in hobby hours. Weekday windows
// are checked by hour alone, so the early-morning tail of a window that
// crosses midnight counts as inside.
func (c *WindowCalculator) IsInsideWindow(t time.Time) bool {
	hour := Civil(t).Hour()
	switch c.KindAt(t) {
	case WindowKindWeekend:
		return true
	case WindowKindWeekdayCrossing:
		return hour >= c.hours.StartHour || hour < c.hours.EndHour
	default:
		return hour >= c.hours.StartHour && hour < c.hours.EndHour
	}
}

// NextWindowStart returns the start of the window containing t, or of the
// first window after it. A weekend instant maps to that day's midnight.
func (c *WindowCalculator) NextWindowStart(t time.Time) time.Time {
	t = Civil(t)
	day := midnight(t)
	start := day.Add(c.startOffset())
	hour := t.Hour()

	switch c.KindAt(t) {
	case WindowKindWeekend:
		return day

	case WindowKindWeekdayCrossing:
		if hour >= c.hours.StartHour {
			return start
		}
		if hour < c.hours.EndHour {
			prev := day.AddDate(0, 0, -1)
			if isWeekend(prev.Weekday()) {
				// Monday morning: the weekend ended at midnight, the tail
				// of the evening window starts there.
				return day
			}
			return prev.Add(c.startOffset())
		}
		if next := day.AddDate(0, 0, 1); isWeekend(next.Weekday()) {
			return next
		}
		return start

	default:
		if hour < c.hours.EndHour {
			return start
		}
		next := day.AddDate(0, 0, 1)
		if isWeekend(next.Weekday()) {
			return next
		}
		return next.Add(c.startOffset())
	}
}

// WindowEnd returns the end of the window that starts at start.
func (c *WindowCalculator) WindowEnd(start time.Time) time.Time {
	start = Civil(start)
	day := midnight(start)

	switch c.KindAt(start) {
	case WindowKindWeekend:
		return nextMonday(day)

	case WindowKindWeekdayCrossing:
		if start.Hour() < c.hours.EndHour {
			return day.Add(c.endOffset())
		}
		next := day.AddDate(0, 0, 1)
		if isWeekend(next.Weekday()) {
			// Friday night runs straight into the weekend window.
			return next
		}
		return next.Add(c.endOffset())

	default:
		return day.Add(c.endOffset())
	}
}

// WindowAt returns the window containing t, or the first one after it.
func (c *WindowCalculator) WindowAt(t time.Time) Window {
	start := c.NextWindowStart(t)
	return Window{Start: start, End: c.WindowEnd(start)}
}

// NextWindowAfter returns the first window that starts at or after w.End.
// The search begins one hour past the boundary so the same window is
// never selected again.
func (c *WindowCalculator) NextWindowAfter(w Window) Window {
	search := w.End.Add(time.Hour)
	for {
		next := c.WindowAt(search)
		if !next.Start.Before(w.End) && next.End.After(next.Start) {
			return next
		}
		search = search.Add(time.Hour)
	}
}

func (c *WindowCalculator) startOffset() time.Duration {
	return time.Duration(c.hours.StartHour) * time.Hour
}

func (c *WindowCalculator) endOffset() time.Duration {
	return time.Duration(c.hours.EndHour) * time.Hour
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMonday(day time.Time) time.Time {
	days := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return day.AddDate(0, 0, days)
}

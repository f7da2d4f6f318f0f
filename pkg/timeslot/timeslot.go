// Package timeslot provides day-relative time arithmetic for the
// availability engine: parsing "HH:MM" strings, combining them with a
// calendar date, expanding a window into fixed-step slots, and the
// half-open interval overlap test.
package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrBadTimeOfDay is returned when a time-of-day string is not "HH:MM".
var ErrBadTimeOfDay = errors.New("time of day must be HH:MM")

// TimeOfDay is a wall-clock time within a day, independent of any date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// String renders the time back as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Hour*60+t.Minute < u.Hour*60+u.Minute
}

// On combines the time-of-day with a calendar date in the given location,
// producing a timezone-aware instant.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// Slot is one half-open candidate window [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

// Slots expands the window [start, end) on the given day into consecutive
// step-minute slots. A trailing slot that would extend past end is dropped.
// Returns nil when start >= end or step is not positive.
func Slots(day time.Time, start, end TimeOfDay, step time.Duration, loc *time.Location) []Slot {
	if step <= 0 {
		return nil
	}
	from := start.On(day, loc)
	to := end.On(day, loc)

	var out []Slot
	for t := from; !t.Add(step).After(to); t = t.Add(step) {
		out = append(out, Slot{Start: t, End: t.Add(step)})
	}
	return out
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WeekdayIndex returns the weekday of t as 0..6 with Monday as 0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

package booking

import (
	"time"

	"github.com/petnav/petnav/internal/domain/clinic"
	"github.com/petnav/petnav/pkg/timeslot"
)

// Window is one concrete open stretch of a single day.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindows computes a vet's open windows for one day.
//
// Precedence: a vet closure zeroes the day, then a clinic closure. The base
// comes from the vet's own weekly rules when any exist for the weekday,
// otherwise from the clinic's. A vet override replaces the base outright; a
// clinic override clips every window to its intersection. Rules with
// start >= end contribute nothing. An override whose window is inverted or
// malformed still takes precedence, so it leaves nothing open rather than
// falling back to the base hours.
func ResolveWindows(day time.Time, loc *time.Location,
	clinicExc, vetExc *clinic.Exception,
	clinicRules, vetRules []*clinic.HourRule) []Window {

	if vetExc.Kind() == clinic.ExceptionClosed {
		return nil
	}
	if clinicExc.Kind() == clinic.ExceptionClosed {
		return nil
	}

	base := clinicRules
	if len(vetRules) > 0 {
		base = vetRules
	}

	var windows []Window
	for _, r := range base {
		start, end, ok := r.Window()
		if !ok {
			continue
		}
		windows = append(windows, Window{Start: start.On(day, loc), End: end.On(day, loc)})
	}

	if vetExc.Kind() == clinic.ExceptionOverride {
		windows = nil
		if start, end, ok := vetExc.OverrideWindow(); ok {
			windows = []Window{{Start: start.On(day, loc), End: end.On(day, loc)}}
		}
	}

	if clinicExc.Kind() == clinic.ExceptionOverride {
		start, end, ok := clinicExc.OverrideWindow()
		if !ok {
			return nil
		}
		clip := Window{Start: start.On(day, loc), End: end.On(day, loc)}
		var clipped []Window
		for _, w := range windows {
			if inter, ok := intersect(w, clip); ok {
				clipped = append(clipped, inter)
			}
		}
		windows = clipped
	}

	return windows
}

func intersect(a, b Window) (Window, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !start.Before(end) {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}

// ExpandWindows cuts each open window into consecutive fixed-step slots,
// dropping a trailing slot that would not fit.
func ExpandWindows(windows []Window, step time.Duration) []timeslot.Slot {
	if step <= 0 {
		return nil
	}
	var out []timeslot.Slot
	for _, w := range windows {
		for t := w.Start; !t.Add(step).After(w.End); t = t.Add(step) {
			out = append(out, timeslot.Slot{Start: t, End: t.Add(step)})
		}
	}
	return out
}

// FilterBusy drops candidate slots that overlap an occupied interval.
// A slot touching a booking boundary stays.
func FilterBusy(slots []timeslot.Slot, busy []Interval) []timeslot.Slot {
	var out []timeslot.Slot
	for _, s := range slots {
		taken := false
		for _, b := range busy {
			if timeslot.Overlaps(s.Start, s.End, b.Start, b.End) {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, s)
		}
	}
	return out
}

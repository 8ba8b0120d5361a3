package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "schedgen/internal/log"
	"schedgen/internal/model"
)

// maxOccurrencesPerEvent caps recurrence expansion so a pathological RRULE
// cannot blow up a run.
const maxOccurrencesPerEvent = 5000

// BusyIntervals normalizes parsed events into loc, expands recurring events
// within the window, and returns anonymized intervals overlapping w. Every
// emitted interval carries the literal "Busy" summary; source titles never
// reach this layer at all.
//
// Interval validity is deliberately not checked: a feed that produces an
// end before its start passes through unchanged, matching the permissive
// overlap filter.
func BusyIntervals(events []ParsedEvent, w Window, loc *time.Location) []model.BusyInterval {
	out := make([]model.BusyInterval, 0, len(events))

	for _, ev := range events {
		start := ev.Start.normalize(loc)
		end := ev.End.normalize(loc)

		if ev.RawRRule == "" {
			if w.Overlaps(start, end) {
				out = append(out, busy(start, end))
			}
			continue
		}

		out = append(out, expandRecurring(ev, start, end, w, loc)...)
	}

	return out
}

// normalize rebuilds the value in loc: date-only values become local
// midnight, floating values keep their wall clock with loc attached, zoned
// values are converted.
func (v TimeValue) normalize(loc *time.Location) time.Time {
	t := v.Time
	switch {
	case v.DateOnly:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case v.Floating:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	default:
		return t.In(loc)
	}
}

// expandRecurring emits one interval per occurrence of a recurring event
// inside the window, honoring EXDATE. If the RRULE cannot be parsed the
// event degrades to its base interval, so a bad rule still blocks the slot
// it was defined on.
func expandRecurring(ev ParsedEvent, start, end time.Time, w Window, loc *time.Location) []model.BusyInterval {
	out := make([]model.BusyInterval, 0)

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Warn("unparseable RRULE, keeping base event only", "rrule", ev.RawRRule, "err", err)
		if w.Overlaps(start, end) {
			out = append(out, busy(start, end))
		}
		return out
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.normalize(loc))
	}

	// Look back far enough that an occurrence straddling the window start is
	// still found; the per-occurrence overlap test does the real filtering.
	dur := end.Sub(start)
	from := w.Start
	if dur > 0 {
		from = from.Add(-dur)
	}

	occs := set.Between(from, w.End, true)
	if len(occs) > maxOccurrencesPerEvent {
		appLog.Warn("recurrence expansion truncated", "rrule", ev.RawRRule, "cap", maxOccurrencesPerEvent)
		occs = occs[:maxOccurrencesPerEvent]
	}

	for _, occStart := range occs {
		occEnd := occStart.Add(dur)
		if w.Overlaps(occStart, occEnd) {
			out = append(out, busy(occStart, occEnd))
		}
	}

	return out
}

func busy(start, end time.Time) model.BusyInterval {
	return model.BusyInterval{
		Start:   start,
		End:     end,
		Summary: model.BusyLabel,
	}
}

package ics

import "time"

// Window is the half-open [Start, End) span within which busy intervals are
// collected. It is computed once per run and shared by all feeds.
type Window struct {
	Start time.Time
	End   time.Time
}

// FetchWindow returns the window covering the current week plus the next
// four: local midnight of the Monday of now's week in loc, through 35 days
// later.
func FetchWindow(now time.Time, loc *time.Location) Window {
	now = now.In(loc)
	monday := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 35),
	}
}

// Overlaps reports whether [start, end) intersects the window under the
// half-open test: kept only if start < Window.End and end > Window.Start.
// An event straddling either boundary is therefore retained.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

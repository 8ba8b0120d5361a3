package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "schedgen/internal/log"
)

// TimeValue is a parsed ICS date or date-time together with how the feed
// wrote it, which decides how it is later normalized into the display zone.
type TimeValue struct {
	time.Time

	// DateOnly marks a VALUE=DATE value (all-day semantics). The Time holds
	// the calendar date at UTC midnight as a placeholder.
	DateOnly bool

	// Floating marks a local date-time with no TZID and no UTC suffix. The
	// Time holds the wall clock in UTC as a placeholder.
	Floating bool
}

// ParsedEvent is a VEVENT reduced to the fields the busy pipeline needs.
// Anything already known to be non-blocking (transparent, marked free,
// missing a start) never becomes a ParsedEvent.
type ParsedEvent struct {
	Start TimeValue
	End   TimeValue

	// RawRRule is the RRULE value verbatim; empty for one-off events.
	RawRRule string
	ExDates  []TimeValue
}

// ParseFeed parses an ICS payload into the events that can block time.
// Per VEVENT:
//
//   - events without a DTSTART are skipped
//   - TRANSP:TRANSPARENT events are skipped (free time by the standard)
//   - X-MICROSOFT-CDO-BUSYSTATUS:FREE events are skipped (Outlook's marker)
//   - a missing DTEND falls back to DTSTART (zero-duration event)
//
// Individual malformed events are logged and skipped; parsing continues.
func ParseFeed(body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]ParsedEvent, 0)

	for _, ve := range cal.Events() {
		ev, ok, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Warn("skipping malformed event", "err", perr)
			continue
		}
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseVEvent extracts one event. ok is false when the event is valid but
// does not block time.
func parseVEvent(ve *ical.VEvent) (ParsedEvent, bool, error) {
	var out ParsedEvent

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, false, nil
	}

	if p := ve.GetProperty(ical.ComponentProperty("TRANSP")); p != nil && strings.EqualFold(strings.TrimSpace(p.Value), "TRANSPARENT") {
		return out, false, nil
	}
	if p := ve.GetProperty(ical.ComponentProperty("X-MICROSOFT-CDO-BUSYSTATUS")); p != nil && strings.EqualFold(strings.TrimSpace(p.Value), "FREE") {
		return out, false, nil
	}

	start, err := parseTimeValue(dtStart)
	if err != nil {
		return out, false, err
	}
	out.Start = start

	// DTEND is optional; a bare DTSTART means a zero-duration event.
	out.End = start
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
		end, err := parseTimeValue(dtEnd)
		if err != nil {
			return out, false, err
		}
		out.End = end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	// EXDATE can appear multiple times and each value can hold a
	// comma-separated list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			single := *p
			single.Value = part
			if tv, err := parseTimeValue(&single); err == nil {
				out.ExDates = append(out.ExDates, tv)
			}
		}
	}

	return out, true, nil
}

// parseTimeValue decodes a DTSTART/DTEND/EXDATE property into a TimeValue,
// honoring VALUE=DATE, a trailing Z, and a TZID parameter. A TZID naming a
// zone the host does not know degrades to a floating value, which later
// gets the configured zone attached.
func parseTimeValue(p *ical.IANAProperty) (TimeValue, error) {
	v := strings.TrimSpace(p.Value)
	if v == "" {
		return TimeValue{}, errors.New("empty time value")
	}

	// Date-only: VALUE=DATE parameter or no time component at all.
	dateOnly := !strings.Contains(v, "T")
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			dateOnly = true
		}
	}
	if dateOnly {
		t, err := time.Parse("20060102", v)
		if err != nil {
			return TimeValue{}, err
		}
		return TimeValue{Time: t, DateOnly: true}, nil
	}

	// UTC form, e.g. 20250101T090000Z.
	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse("20060102T150405Z", v)
		if err != nil {
			return TimeValue{}, err
		}
		return TimeValue{Time: t}, nil
	}

	// Zoned local form via TZID parameter.
	if params := p.ICalParameters; params != nil {
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 && tzs[0] != "" {
			if loc, err := time.LoadLocation(tzs[0]); err == nil {
				t, err := time.ParseInLocation("20060102T150405", v, loc)
				if err != nil {
					return TimeValue{}, err
				}
				return TimeValue{Time: t}, nil
			}
			// Unknown TZID (e.g. a vendor name only defined by an embedded
			// VTIMEZONE); fall through and treat the value as floating.
		}
	}

	// Floating local time.
	t, err := time.Parse("20060102T150405", v)
	if err != nil {
		return TimeValue{}, err
	}
	return TimeValue{Time: t, Floating: true}, nil
}

package domain

import (
	"time"

	"github.com/vitalboard/vitalboard-server/internal/errors"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// RangeMode selects how a date range is derived from its anchor.
type RangeMode string

// Range modes.
const (
	// RangeLastN covers the N days ending at the anchor.
	RangeLastN RangeMode = "LAST_N"
	// RangeThisMonth covers the anchor's calendar month up to the anchor.
	RangeThisMonth RangeMode = "THIS_MONTH"
	// RangeCustom covers a user-supplied start date up to the anchor.
	RangeCustom RangeMode = "CUSTOM"
)

// Valid returns true if the mode is a recognized value.
func (m RangeMode) Valid() bool {
	switch m {
	case RangeLastN, RangeThisMonth, RangeCustom:
		return true
	default:
		return false
	}
}

// DateRangeState is an immutable date window derived from a mode and an
// anchor date. Transitions return a new value; the receiver is never
// modified. Start and End are inclusive calendar days at midnight UTC,
// and Start <= End always holds.
//
// The state does not clamp to the dataset's earliest date. Clamping, if
// any, belongs to the query layer so these transitions stay pure.
type DateRangeState struct {
	Mode   RangeMode `json:"mode"`
	N      int       `json:"n,omitempty"` // window size, meaningful only for LAST_N
	Anchor time.Time `json:"anchor"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	// CustomStart is the user-supplied start, retained across mode and
	// anchor changes so returning to CUSTOM restores it. Zero until set.
	CustomStart time.Time `json:"custom_start,omitempty"`
}

// ParseDate parses a strict YYYY-MM-DD date and normalizes it to
// midnight UTC. Malformed input returns a date parse error; callers must
// surface it rather than substitute today.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.DateParsef("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Day(t.Year(), t.Month(), t.Day()), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day constructs a calendar day at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewDateRange creates a LAST_N range ending at anchor.
func NewDateRange(anchor time.Time, n int) DateRangeState {
	s := DateRangeState{Mode: RangeLastN, N: n, Anchor: normalizeDay(anchor)}
	return s.recompute()
}

// SetMode switches the range mode, preserving the anchor. For LAST_N the
// window size n must be positive; other modes ignore n.
func (s DateRangeState) SetMode(mode RangeMode, n int) (DateRangeState, error) {
	if !mode.Valid() {
		return s, errors.Validationf("invalid range mode %q", mode)
	}
	if mode == RangeLastN && n < 1 {
		return s, errors.Validationf("window size must be positive, got %d", n)
	}

	next := s
	next.Mode = mode
	if mode == RangeLastN {
		next.N = n
	}
	return next.recompute(), nil
}

// SetAnchor moves the reference date and recomputes the window under the
// current mode. The mode is preserved, so arrow navigation and end-date
// pickers keep the user's chosen window shape. A retained custom start
// survives anchor changes.
func (s DateRangeState) SetAnchor(anchor time.Time) DateRangeState {
	next := s
	next.Anchor = normalizeDay(anchor)
	return next.recompute()
}

// SetCustomStart sets the user-supplied start date. Only legal in CUSTOM
// mode. If the new start lands after the current end, the end collapses
// up to meet it.
func (s DateRangeState) SetCustomStart(start time.Time) (DateRangeState, error) {
	if s.Mode != RangeCustom {
		return s, errors.InvalidSelectionf("custom start only applies in CUSTOM mode, current mode is %s", s.Mode)
	}

	next := s
	next.CustomStart = normalizeDay(start)
	next.Start = next.CustomStart
	if next.Start.After(next.End) {
		next.End = next.Start
	}
	return next, nil
}

// SingleDay reports whether the range covers exactly one calendar day.
// Consumers pick different renderings for single-day windows.
func (s DateRangeState) SingleDay() bool {
	return s.Start.Equal(s.End)
}

// Days returns the inclusive day count of the window.
func (s DateRangeState) Days() int {
	return int(s.End.Sub(s.Start).Hours()/24) + 1
}

// recompute derives Start/End from Mode, N, Anchor, and CustomStart.
func (s DateRangeState) recompute() DateRangeState {
	switch s.Mode {
	case RangeLastN:
		n := s.N
		if n < 1 {
			n = 1
		}
		s.Start = s.Anchor.AddDate(0, 0, -(n - 1))
		s.End = s.Anchor
	case RangeThisMonth:
		s.Start = firstOfMonth(s.Anchor)
		s.End = minDay(s.Anchor, lastOfMonth(s.Anchor))
	case RangeCustom:
		start := s.CustomStart
		if start.IsZero() {
			start = s.Anchor.AddDate(0, 0, -6)
		}
		s.Start = start
		s.End = s.Anchor
		if s.Start.After(s.End) {
			s.End = s.Start
		}
	}
	return s
}

func normalizeDay(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

func firstOfMonth(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), 1)
}

func lastOfMonth(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), 1).AddDate(0, 1, -1)
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

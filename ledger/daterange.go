// Package ledger keeps a wizard's working set internally consistent. Its
// functions are pure over their inputs: a failed validation returns the
// input collection untouched together with the violation, never a partial
// mutation.
package ledger

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidDate is returned for zero or unparseable dates.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD form input.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseClock parses an HH:MM form input onto the given date.
func ParseClock(date time.Time, value string) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil || date.IsZero() {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// DaysBetweenInclusive counts calendar days from start to end, both ends
// included. A range starting and ending on the same day counts as one.
func DaysBetweenInclusive(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDate
	}
	diff := TruncateDate(end).Sub(TruncateDate(start))
	return int(math.Floor(diff.Hours()/24)) + 1, nil
}

// EndDateFromDuration back-computes the end date for a phase lasting
// durationDays, first day included.
func EndDateFromDuration(start time.Time, durationDays int) (time.Time, error) {
	if start.IsZero() || durationDays < 1 {
		return time.Time{}, ErrInvalidDate
	}
	return start.AddDate(0, 0, durationDays-1), nil
}

// IntervalsOverlap reports whether two inclusive date intervals intersect.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

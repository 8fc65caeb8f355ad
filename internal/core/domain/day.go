package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date format (must be YYYY-MM-DD)")
)

// DayLayout is the canonical form of a calendar day, always in UTC.
const DayLayout = "2006-01-02"

// DayKey identifies one UTC calendar day with no time component.
// Because the layout is fixed-width and zero-padded, lexicographic
// ordering of DayKeys matches chronological ordering.
type DayKey string

// ParseDayKey validates a YYYY-MM-DD string and returns its canonical key.
// It rejects anything else, including valid timestamps with a time part.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return "", ErrInvalidDate
	}
	// time.Parse accepts a few non-canonical spellings (e.g. "2024-1-02"
	// is rejected, but a round-trip guards against future layout drift).
	if t.Format(DayLayout) != s {
		return "", ErrInvalidDate
	}
	return DayKey(s), nil
}

// DayOf truncates a timestamp to its UTC calendar day.
// Two instants within the same UTC day always map to the same key.
func DayOf(t time.Time) DayKey {
	return DayKey(t.UTC().Format(DayLayout))
}

// Time returns midnight UTC of the day. DayKeys are only built through
// ParseDayKey or DayOf, so the parse cannot fail.
func (d DayKey) Time() time.Time {
	t, _ := time.ParseInLocation(DayLayout, string(d), time.UTC)
	return t
}

func (d DayKey) Prev() DayKey {
	return DayOf(d.Time().AddDate(0, 0, -1))
}

func (d DayKey) Next() DayKey {
	return DayOf(d.Time().AddDate(0, 0, 1))
}

func (d DayKey) After(other DayKey) bool {
	return string(d) > string(other)
}

func (d DayKey) Before(other DayKey) bool {
	return string(d) < string(other)
}

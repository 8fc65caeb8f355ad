package domain

import (
	"encoding/json"
	"sort"
)

// CompletionSet holds the days a habit was marked done. Each day appears
// at most once; the set itself enforces that invariant rather than
// relying on a storage-level constraint.
type CompletionSet struct {
	days map[DayKey]struct{}
}

func NewCompletionSet(days ...DayKey) CompletionSet {
	s := CompletionSet{days: make(map[DayKey]struct{}, len(days))}
	for _, d := range days {
		s.days[d] = struct{}{}
	}
	return s
}

// Toggle flips membership for day and reports the resulting state:
// true when the day is now present, false when it was removed.
// Toggling the same day twice restores the original membership.
func (s *CompletionSet) Toggle(day DayKey) bool {
	if s.days == nil {
		s.days = make(map[DayKey]struct{})
	}
	if _, ok := s.days[day]; ok {
		delete(s.days, day)
		return false
	}
	s.days[day] = struct{}{}
	return true
}

func (s *CompletionSet) Contains(day DayKey) bool {
	_, ok := s.days[day]
	return ok
}

func (s *CompletionSet) Len() int {
	return len(s.days)
}

// Sorted returns every completed day in ascending order.
func (s *CompletionSet) Sorted() []DayKey {
	out := make([]DayKey, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Range returns the completed days within [from, to], ascending.
func (s *CompletionSet) Range(from, to DayKey) []DayKey {
	out := make([]DayKey, 0)
	for _, d := range s.Sorted() {
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CountInMonth reports how many completed days fall in the given
// year/month, used by the summary read path.
func (s *CompletionSet) CountInMonth(year int, month int) int {
	n := 0
	for d := range s.days {
		t := d.Time()
		if t.Year() == year && int(t.Month()) == month {
			n++
		}
	}
	return n
}

func (s CompletionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *CompletionSet) UnmarshalJSON(data []byte) error {
	var days []DayKey
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*s = NewCompletionSet(days...)
	return nil
}

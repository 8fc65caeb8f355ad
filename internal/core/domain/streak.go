package domain

// CurrentStreak counts the unbroken run of completed days ending at
// today, where today is the caller's current UTC day.
//
// A habit not yet marked today does not break the streak until the day
// actually elapses: when today is absent but yesterday is present, the
// backward scan starts at yesterday instead. Only when both are absent
// is the streak zero.
func CurrentStreak(set *CompletionSet, today DayKey) int {
	start := today
	if !set.Contains(start) {
		start = today.Prev()
		if !set.Contains(start) {
			return 0
		}
	}

	streak := 0
	for d := start; set.Contains(d); d = d.Prev() {
		streak++
	}
	return streak
}

// LongestStreak returns the longest consecutive run anywhere in the
// set's history, regardless of whether it is still alive.
func LongestStreak(set *CompletionSet) int {
	days := set.Sorted()
	if len(days) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Next() == days[i] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

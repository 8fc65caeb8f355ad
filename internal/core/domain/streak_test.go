package domain_test

import (
	"testing"

	"github.com/lucafaro/habitgrid/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCurrentStreak(t *testing.T) {
	today := domain.DayKey("2025-04-10")
	daysAgo := func(n int) domain.DayKey {
		d := today
		for i := 0; i < n; i++ {
			d = d.Prev()
		}
		return d
	}

	tests := []struct {
		name string
		days []domain.DayKey
		want int
	}{
		{
			name: "Empty set",
			days: nil,
			want: 0,
		},
		{
			name: "Single day today",
			days: []domain.DayKey{today},
			want: 1,
		},
		{
			name: "Single day yesterday (streak still alive)",
			days: []domain.DayKey{daysAgo(1)},
			want: 1,
		},
		{
			name: "Single day two days ago (streak broken)",
			days: []domain.DayKey{daysAgo(2)},
			want: 0,
		},
		{
			name: "Three consecutive days ending today",
			days: []domain.DayKey{today, daysAgo(1), daysAgo(2)},
			want: 3,
		},
		{
			name: "Today not yet marked, yesterday fallback",
			days: []domain.DayKey{daysAgo(1), daysAgo(2)},
			want: 2,
		},
		{
			name: "One-day gap does not extend past it",
			days: []domain.DayKey{today, daysAgo(1), daysAgo(3), daysAgo(4)},
			want: 2,
		},
		{
			name: "Gap at yesterday and today",
			days: []domain.DayKey{daysAgo(2), daysAgo(3)},
			want: 0,
		},
		{
			name: "Crosses a month boundary",
			days: []domain.DayKey{"2025-04-10", "2025-04-09", "2025-04-08", "2025-04-07", "2025-04-06", "2025-04-05", "2025-04-04", "2025-04-03", "2025-04-02", "2025-04-01", "2025-03-31", "2025-03-30"},
			want: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := domain.NewCompletionSet(tt.days...)
			assert.Equal(t, tt.want, domain.CurrentStreak(&set, today))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []domain.DayKey
		want int
	}{
		{
			name: "Empty set",
			days: nil,
			want: 0,
		},
		{
			name: "Single day",
			days: []domain.DayKey{"2025-01-01"},
			want: 1,
		},
		{
			name: "Longest run in the past",
			days: []domain.DayKey{"2025-04-10", "2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04"},
			want: 4,
		},
		{
			name: "Two equal runs",
			days: []domain.DayKey{"2025-01-01", "2025-01-02", "2025-02-01", "2025-02-02"},
			want: 2,
		},
		{
			name: "Run across a year boundary",
			days: []domain.DayKey{"2024-12-30", "2024-12-31", "2025-01-01"},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := domain.NewCompletionSet(tt.days...)
			assert.Equal(t, tt.want, domain.LongestStreak(&set))
		})
	}
}

package services

import (
	"context"

	"github.com/lucafaro/habitgrid/internal/core/domain"
)

// SummaryService builds the read models behind the habit detail view.
// It reuses HabitService's resolution so summary and heatmap obey the
// same not-found/forbidden semantics as every other operation.
type SummaryService struct {
	habits *HabitService
	clock  Clock
}

func NewSummaryService(habits *HabitService, clock Clock) *SummaryService {
	return &SummaryService{
		habits: habits,
		clock:  clock,
	}
}

func (s *SummaryService) GetSummary(ctx context.Context, ownerID, habitID string) (*domain.HabitSummary, error) {
	habit, err := s.habits.Get(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summary := &domain.HabitSummary{
		HabitID:       habit.ID,
		Name:          habit.Name,
		Color:         habit.Color,
		CurrentStreak: habit.CurrentStreak,
		LongestStreak: domain.LongestStreak(&habit.Completions),
		TotalDaysDone: habit.Completions.Len(),
		DaysThisMonth: habit.Completions.CountInMonth(now.Year(), int(now.Month())),
	}

	if days := habit.Completions.Sorted(); len(days) > 0 {
		summary.FirstLogged = days[0]
	}
	return summary, nil
}

// GetHeatmap returns the habit's completed days inside [from, to].
// Empty bounds fall back to the window the dashboard renders: roughly
// nine months back, one week forward.
func (s *SummaryService) GetHeatmap(ctx context.Context, ownerID, habitID, fromStr, toStr string) (*domain.Heatmap, error) {
	habit, err := s.habits.resolve(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	to := domain.DayOf(now.AddDate(0, 0, 7))
	if toStr != "" {
		if to, err = domain.ParseDayKey(toStr); err != nil {
			return nil, err
		}
	}

	from := domain.DayOf(now.AddDate(0, -9, 0))
	if fromStr != "" {
		if from, err = domain.ParseDayKey(fromStr); err != nil {
			return nil, err
		}
	}

	return &domain.Heatmap{
		HabitID: habit.ID,
		Color:   habit.Color,
		From:    from,
		To:      to,
		Days:    habit.Completions.Range(from, to),
	}, nil
}

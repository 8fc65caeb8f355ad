package services_test

import (
	"context"
	"testing"

	"github.com/lucafaro/habitgrid/internal/core/domain"
	"github.com/lucafaro/habitgrid/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryServiceGetSummary(t *testing.T) {
	ctx := context.Background()
	today := domain.DayOf(testClock.Now()) // 2025-04-10

	repo := NewMockRepo()
	habitSvc := newTestService(repo)
	svc := services.NewSummaryService(habitSvc, testClock)

	h, err := habitSvc.Create(ctx, services.CreateHabitInput{OwnerID: "user-a", Name: "Gym"})
	require.NoError(t, err)

	// Current run: yesterday + today. Longest run: five days in March.
	for _, day := range []domain.DayKey{
		today, today.Prev(),
		"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05",
	} {
		require.NoError(t, repo.AddCompletion(ctx, h.ID, day))
	}

	summary, err := svc.GetSummary(ctx, "user-a", h.ID)
	require.NoError(t, err)

	assert.Equal(t, h.ID, summary.HabitID)
	assert.Equal(t, "Gym", summary.Name)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.Equal(t, 5, summary.LongestStreak)
	assert.Equal(t, 7, summary.TotalDaysDone)
	assert.Equal(t, 2, summary.DaysThisMonth)
	assert.Equal(t, domain.DayKey("2025-03-01"), summary.FirstLogged)

	t.Run("Empty habit", func(t *testing.T) {
		empty, err := habitSvc.Create(ctx, services.CreateHabitInput{OwnerID: "user-a", Name: "New"})
		require.NoError(t, err)

		summary, err := svc.GetSummary(ctx, "user-a", empty.ID)
		require.NoError(t, err)
		assert.Zero(t, summary.CurrentStreak)
		assert.Zero(t, summary.LongestStreak)
		assert.Zero(t, summary.TotalDaysDone)
		assert.Empty(t, summary.FirstLogged)
	})

	t.Run("Wrong owner is forbidden", func(t *testing.T) {
		_, err := svc.GetSummary(ctx, "user-b", h.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Unknown habit is not found", func(t *testing.T) {
		_, err := svc.GetSummary(ctx, "user-a", "missing-id")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestSummaryServiceGetHeatmap(t *testing.T) {
	ctx := context.Background()

	repo := NewMockRepo()
	habitSvc := newTestService(repo)
	svc := services.NewSummaryService(habitSvc, testClock)

	h, err := habitSvc.Create(ctx, services.CreateHabitInput{OwnerID: "user-a", Name: "Gym"})
	require.NoError(t, err)

	for _, day := range []domain.DayKey{"2025-01-15", "2025-04-01", "2025-04-09"} {
		require.NoError(t, repo.AddCompletion(ctx, h.ID, day))
	}

	t.Run("Explicit window", func(t *testing.T) {
		hm, err := svc.GetHeatmap(ctx, "user-a", h.ID, "2025-04-01", "2025-04-30")
		require.NoError(t, err)
		assert.Equal(t, []domain.DayKey{"2025-04-01", "2025-04-09"}, hm.Days)
		assert.Equal(t, domain.DayKey("2025-04-01"), hm.From)
		assert.Equal(t, domain.DayKey("2025-04-30"), hm.To)
	})

	t.Run("Default window spans about nine months", func(t *testing.T) {
		hm, err := svc.GetHeatmap(ctx, "user-a", h.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, domain.DayKey("2024-07-10"), hm.From)
		assert.Equal(t, domain.DayKey("2025-04-17"), hm.To)
		assert.Equal(t, []domain.DayKey{"2025-01-15", "2025-04-01", "2025-04-09"}, hm.Days)
	})

	t.Run("Bad bound rejected", func(t *testing.T) {
		_, err := svc.GetHeatmap(ctx, "user-a", h.ID, "01/04/2025", "")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}

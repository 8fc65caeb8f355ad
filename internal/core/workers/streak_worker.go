package workers

import (
	"context"
	"errors"
	"log"

	"github.com/lucafaro/habitgrid/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateLongestStreak(ctx context.Context, habitID string, longest int) error
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes a habit's stored longest streak after its
// completion set changes. The current streak is cheap and derived on
// read paths; only the longest streak is persisted.
type StreakWorker struct {
	habitRepo HabitRepository
	jobs      chan StreakJob
}

func NewStreakWorker(repo HabitRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo: repo,
		jobs:      make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks a request path; under backpressure the job is
// dropped and the streak catches up on the next toggle.
func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		// The habit may have been deleted between enqueue and processing.
		if !errors.Is(err, domain.ErrHabitNotFound) {
			log.Printf("Worker error fetching habit %s: %v", job.HabitID, err)
		}
		return
	}

	longest := domain.LongestStreak(&habit.Completions)
	if longest == habit.LongestStreak {
		return
	}

	if err := w.habitRepo.UpdateLongestStreak(ctx, habit.ID, longest); err != nil {
		log.Printf("Worker failed to update longest streak for %s: %v", habit.ID, err)
	}
}

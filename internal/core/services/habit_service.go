package services

import (
	"context"
	"sort"
	"sync"

	"github.com/lucafaro/habitgrid/internal/core/domain"
	"github.com/lucafaro/habitgrid/internal/core/workers"
)

type HabitService struct {
	repo   domain.HabitRepository
	worker *workers.StreakWorker
	clock  Clock

	// Per-habit mutation locks: at most one toggle or delete in flight
	// per habit, so concurrent toggles cannot both observe "absent" and
	// double-insert, or silently cancel each other out.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewHabitService(repo domain.HabitRepository, worker *workers.StreakWorker, clock Clock) *HabitService {
	return &HabitService{
		repo:   repo,
		worker: worker,
		clock:  clock,
		locks:  make(map[string]*sync.Mutex),
	}
}

type CreateHabitInput struct {
	OwnerID string
	Name    string
	Color   string
}

func (s *HabitService) lockHabit(id string) *sync.Mutex {
	s.mu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.OwnerID, input.Name, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// List returns the owner's habits, newest first, each decorated with
// its current streak for display.
func (s *HabitService) List(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	today := domain.DayOf(s.clock.Now())
	for _, h := range habits {
		h.CurrentStreak = domain.CurrentStreak(&h.Completions, today)
	}
	return habits, nil
}

// resolve fetches the habit and enforces ownership. Existence is
// checked first: a wrong owner asking about a missing id learns only
// "not found", never whether someone else owns it.
func (s *HabitService) resolve(ctx context.Context, ownerID, habitID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if !habit.OwnedBy(ownerID) {
		return nil, domain.ErrForbidden
	}
	return habit, nil
}

func (s *HabitService) Get(ctx context.Context, ownerID, habitID string) (*domain.Habit, error) {
	habit, err := s.resolve(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}

	habit.CurrentStreak = domain.CurrentStreak(&habit.Completions, domain.DayOf(s.clock.Now()))
	return habit, nil
}

type UpdateHabitInput struct {
	Name  *string
	Color *string
}

// Update renames and/or recolors a habit. Nil fields are left alone;
// an explicitly empty color restores the default.
func (s *HabitService) Update(ctx context.Context, ownerID, habitID string, input UpdateHabitInput) (*domain.Habit, error) {
	lock := s.lockHabit(habitID)
	defer lock.Unlock()

	habit, err := s.resolve(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := habit.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Color != nil {
		if err := habit.Recolor(*input.Color); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	habit.CurrentStreak = domain.CurrentStreak(&habit.Completions, domain.DayOf(s.clock.Now()))
	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, ownerID, habitID string) error {
	lock := s.lockHabit(habitID)
	defer lock.Unlock()

	if _, err := s.resolve(ctx, ownerID, habitID); err != nil {
		return err
	}

	// The lock entry is deliberately left in the map: pruning it while
	// another goroutine is still blocked on the mutex would let a third
	// caller mint a fresh lock for the same habit. Entries are tiny.
	return s.repo.Delete(ctx, habitID)
}

// ToggleCompletion flips one day's completion for the habit and returns
// the updated habit. The day key is normalized before any set operation
// and days after the clock's UTC today are rejected outright, so a bad
// request can never leave a partial mutation behind.
func (s *HabitService) ToggleCompletion(ctx context.Context, ownerID, habitID, dateString string) (*domain.Habit, error) {
	lock := s.lockHabit(habitID)
	defer lock.Unlock()

	habit, err := s.resolve(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}

	day, err := domain.ParseDayKey(dateString)
	if err != nil {
		return nil, err
	}

	today := domain.DayOf(s.clock.Now())
	if day.After(today) {
		return nil, domain.ErrFutureDate
	}

	if habit.Completions.Toggle(day) {
		err = s.repo.AddCompletion(ctx, habit.ID, day)
	} else {
		err = s.repo.RemoveCompletion(ctx, habit.ID, day)
	}
	if err != nil {
		return nil, err
	}

	s.worker.Enqueue(habit.ID)

	habit.CurrentStreak = domain.CurrentStreak(&habit.Completions, today)
	return habit, nil
}

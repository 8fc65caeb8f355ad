package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/lucafaro/habitgrid/internal/core/domain"
)

// InMemoryHabitRepository backs tests and single-process deployments.
// Habits are cloned on every read so callers can never mutate stored
// state without going back through the repository.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

var _ domain.HabitRepository = (*InMemoryHabitRepository)(nil)

func clone(h *domain.Habit) *domain.Habit {
	copied := *h
	copied.Completions = domain.NewCompletionSet(h.Completions.Sorted()...)
	return &copied
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = clone(habit)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return clone(habit), nil
}

func (r *InMemoryHabitRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.OwnerID == ownerID {
			habits = append(habits, clone(h))
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok {
		return domain.ErrHabitNotFound
	}

	stored.Name = habit.Name
	stored.Color = habit.Color
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitRepository) AddCompletion(ctx context.Context, habitID string, day domain.DayKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[habitID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	if !habit.Completions.Contains(day) {
		habit.Completions.Toggle(day)
	}
	return nil
}

func (r *InMemoryHabitRepository) RemoveCompletion(ctx context.Context, habitID string, day domain.DayKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[habitID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	if habit.Completions.Contains(day) {
		habit.Completions.Toggle(day)
	}
	return nil
}

func (r *InMemoryHabitRepository) UpdateLongestStreak(ctx context.Context, habitID string, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[habitID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	habit.LongestStreak = longest
	return nil
}

// InMemoryUserRepository mirrors the Postgres user repository for tests
// and local runs without a database.
type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

var _ domain.UserRepository = (*InMemoryUserRepository)(nil)

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	copied := *user
	r.store[user.ID] = &copied
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

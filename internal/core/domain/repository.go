package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")

	// ErrForbidden means the habit exists but belongs to another user.
	// It is only produced after existence has been established, so a
	// missing id never leaks ownership information.
	ErrForbidden = errors.New("habit belongs to another user")

	// ErrFutureDate rejects toggling a day strictly after the current
	// UTC calendar day.
	ErrFutureDate = errors.New("cannot toggle a future date")

	// ErrStorageUnavailable marks transient storage failures. The whole
	// operation may be retried by the caller; no partial mutation is
	// ever left behind.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type HabitRepository interface {
	// Create persists a new habit with its (empty) completion set.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit together with all its completions.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByOwnerID retrieves the owner's habits, newest first.
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Habit, error)

	// Update persists the habit's mutable display fields (name, color).
	// The completion set is untouched.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit and its completion set.
	Delete(ctx context.Context, id string) error

	// AddCompletion / RemoveCompletion commit one toggle outcome.
	// Implementations must be atomic per (habit, day): adding an
	// existing day or removing an absent one is a no-op, never an
	// error and never a duplicate row.
	AddCompletion(ctx context.Context, habitID string, day DayKey) error
	RemoveCompletion(ctx context.Context, habitID string, day DayKey) error

	// UpdateLongestStreak stores a recomputed longest streak.
	UpdateLongestStreak(ctx context.Context, habitID string, longest int) error
}

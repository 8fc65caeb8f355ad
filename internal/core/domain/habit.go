package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong = errors.New("habit name is too long (max 100 chars)")
	ErrInvalidColor     = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidOwnerID   = errors.New("invalid owner id")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	// DefaultColor matches the heatmap green the clients render by default.
	DefaultColor = "#27a844"
	MaxNameLen   = 100
)

// Habit is owned by exactly one user for its whole lifetime. ID, OwnerID
// and CreatedAt never change after creation.
type Habit struct {
	ID          string        `json:"id" db:"id"`
	OwnerID     string        `json:"owner_id" db:"owner_id"`
	Name        string        `json:"name" db:"name"`
	Color       string        `json:"color" db:"color"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	Completions CompletionSet `json:"completions"`

	// LongestStreak is recomputed in the background after each toggle.
	// CurrentStreak is derived on read paths and never persisted.
	LongestStreak int `json:"longest_streak" db:"longest_streak"`
	CurrentStreak int `json:"current_streak" db:"-"`
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

// NewHabit creates a habit with an empty completion set. An empty color
// falls back to DefaultColor; a supplied one must be #RGB or #RRGGBB.
func NewHabit(ownerID, name, color string) (*Habit, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}

	cleanName, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if color == "" {
		color = DefaultColor
	} else if !colorRegex.MatchString(color) {
		return nil, ErrInvalidColor
	}

	return &Habit{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        cleanName,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
		Completions: NewCompletionSet(),
	}, nil
}

// Rename replaces the display name with the same validation as creation.
func (h *Habit) Rename(name string) error {
	cleanName, err := validateName(name)
	if err != nil {
		return err
	}
	h.Name = cleanName
	return nil
}

// Recolor replaces the display color; empty restores the default.
func (h *Habit) Recolor(color string) error {
	if color == "" {
		h.Color = DefaultColor
		return nil
	}
	if !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	h.Color = color
	return nil
}

// OwnedBy reports whether ownerID is the habit's single owner.
func (h *Habit) OwnedBy(ownerID string) bool {
	return h.OwnerID == ownerID
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/lucafaro/habitgrid/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresHabitRepository persists habits across two tables: a habits
// row and one habit_completions row per completed day. The primary key
// on (habit_id, day) makes AddCompletion an atomic insert-if-absent,
// so a duplicate day can never be stored even by racing writers.
type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type habitRow struct {
	ID            string    `db:"id"`
	OwnerID       string    `db:"owner_id"`
	Name          string    `db:"name"`
	Color         string    `db:"color"`
	CreatedAt     time.Time `db:"created_at"`
	LongestStreak int       `db:"longest_streak"`
}

func (r habitRow) toDomain(days []domain.DayKey) *domain.Habit {
	return &domain.Habit{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Name:          r.Name,
		Color:         r.Color,
		CreatedAt:     r.CreatedAt,
		LongestStreak: r.LongestStreak,
		Completions:   domain.NewCompletionSet(days...),
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}

// pgErrCode extracts the SQLSTATE code from an error produced by the
// pgx driver, or "" when the error came from somewhere else.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (id, owner_id, name, color, created_at, longest_streak)
        VALUES ($1, $2, $3, $4, $5, 0)`

	_, err := r.db.ExecContext(ctx, query, h.ID, h.OwnerID, h.Name, h.Color, h.CreatedAt)
	if err != nil {
		return storageErr("insert habit", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := `SELECT id, owner_id, name, color, created_at, longest_streak FROM habits WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, storageErr("get habit", err)
	}

	days, err := r.completionsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain(days), nil
}

func (r *PostgresHabitRepository) completionsFor(ctx context.Context, habitID string) ([]domain.DayKey, error) {
	var stamps []time.Time
	query := `SELECT day FROM habit_completions WHERE habit_id = $1 ORDER BY day ASC`

	if err := r.db.SelectContext(ctx, &stamps, query, habitID); err != nil {
		return nil, storageErr("load completions", err)
	}

	days := make([]domain.DayKey, 0, len(stamps))
	for _, t := range stamps {
		days = append(days, domain.DayOf(t))
	}
	return days, nil
}

func (r *PostgresHabitRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Habit, error) {
	var rows []habitRow
	query := `
        SELECT id, owner_id, name, color, created_at, longest_streak
        FROM habits
        WHERE owner_id = $1
        ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, storageErr("list habits", err)
	}

	// One query for every completion of every listed habit, instead of
	// one round trip per habit.
	type completionRow struct {
		HabitID string    `db:"habit_id"`
		Day     time.Time `db:"day"`
	}
	var completions []completionRow
	completionQuery := `
        SELECT hc.habit_id, hc.day
        FROM habit_completions hc
        JOIN habits h ON h.id = hc.habit_id
        WHERE h.owner_id = $1`

	if err := r.db.SelectContext(ctx, &completions, completionQuery, ownerID); err != nil {
		return nil, storageErr("list completions", err)
	}

	byHabit := make(map[string][]domain.DayKey, len(rows))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], domain.DayOf(c.Day))
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for _, row := range rows {
		habits = append(habits, row.toDomain(byHabit[row.ID]))
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `UPDATE habits SET name = $1, color = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, h.Name, h.Color, h.ID)
	if err != nil {
		return storageErr("update habit", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("update habit", err)
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	// habit_completions rows go with the habit via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete habit", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete habit", err)
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) AddCompletion(ctx context.Context, habitID string, day domain.DayKey) error {
	query := `
        INSERT INTO habit_completions (habit_id, day)
        VALUES ($1, $2)
        ON CONFLICT (habit_id, day) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, habitID, string(day))
	if err != nil {
		// 23503: foreign key violation, the habit row is gone.
		if pgErrCode(err) == "23503" {
			return domain.ErrHabitNotFound
		}
		return storageErr("add completion", err)
	}
	return nil
}

func (r *PostgresHabitRepository) RemoveCompletion(ctx context.Context, habitID string, day domain.DayKey) error {
	query := `DELETE FROM habit_completions WHERE habit_id = $1 AND day = $2`

	if _, err := r.db.ExecContext(ctx, query, habitID, string(day)); err != nil {
		return storageErr("remove completion", err)
	}
	return nil
}

func (r *PostgresHabitRepository) UpdateLongestStreak(ctx context.Context, habitID string, longest int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE habits SET longest_streak = $1 WHERE id = $2`, longest, habitID)
	if err != nil {
		return storageErr("update longest streak", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("update longest streak", err)
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

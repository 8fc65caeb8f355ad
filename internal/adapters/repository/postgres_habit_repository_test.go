package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucafaro/habitgrid/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The pgx driver surfaces server errors as *pgconn.PgError, often a few
// wraps deep, so the SQLSTATE extraction must unwrap rather than
// type-assert the outermost error.
func TestPgErrCode(t *testing.T) {
	fkErr := fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: "23503"})
	assert.Equal(t, "23503", pgErrCode(fkErr))

	uniqueErr := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, "23505", pgErrCode(uniqueErr))

	assert.Equal(t, "", pgErrCode(fmt.Errorf("plain failure")))
	assert.Equal(t, "", pgErrCode(nil))
}

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "habitgrid_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "habitgrid_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE habit_completions, habits, users CASCADE")
	require.NoError(t, err, "Failed to clean up database for habit repository tests")
}

func TestPostgresHabitRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresHabitRepository(db)
	ctx := context.Background()

	habit, err := domain.NewHabit("integration-user", "Gym", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, habit))

	t.Run("GetByID round-trips", func(t *testing.T) {
		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, habit.Name, got.Name)
		assert.Equal(t, habit.OwnerID, got.OwnerID)
		assert.Equal(t, domain.DefaultColor, got.Color)
		assert.Equal(t, 0, got.Completions.Len())
	})

	t.Run("AddCompletion is idempotent per day", func(t *testing.T) {
		day := domain.DayKey("2025-04-01")

		require.NoError(t, repo.AddCompletion(ctx, habit.ID, day))
		require.NoError(t, repo.AddCompletion(ctx, habit.ID, day))

		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Completions.Len())
		assert.True(t, got.Completions.Contains(day))
	})

	t.Run("RemoveCompletion", func(t *testing.T) {
		day := domain.DayKey("2025-04-01")
		require.NoError(t, repo.RemoveCompletion(ctx, habit.ID, day))
		require.NoError(t, repo.RemoveCompletion(ctx, habit.ID, day))

		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.False(t, got.Completions.Contains(day))
	})

	t.Run("ListByOwnerID attaches completions", func(t *testing.T) {
		second, err := domain.NewHabit("integration-user", "Read", "#3366FF")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, second))
		require.NoError(t, repo.AddCompletion(ctx, second.ID, "2025-03-30"))
		require.NoError(t, repo.AddCompletion(ctx, second.ID, "2025-03-31"))

		list, err := repo.ListByOwnerID(ctx, "integration-user")
		require.NoError(t, err)
		require.Len(t, list, 2)

		for _, h := range list {
			if h.ID == second.ID {
				assert.Equal(t, 2, h.Completions.Len())
			}
		}
	})

	t.Run("UpdateLongestStreak", func(t *testing.T) {
		require.NoError(t, repo.UpdateLongestStreak(ctx, habit.ID, 4))
		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.LongestStreak)
	})

	t.Run("Delete cascades to completions", func(t *testing.T) {
		require.NoError(t, repo.AddCompletion(ctx, habit.ID, "2025-04-02"))
		require.NoError(t, repo.Delete(ctx, habit.ID))

		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		var count int
		require.NoError(t, db.Get(&count,
			"SELECT COUNT(*) FROM habit_completions WHERE habit_id = $1", habit.ID))
		assert.Zero(t, count)
	})

	t.Run("Missing habit", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing-id")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "missing-id"), domain.ErrHabitNotFound)
		assert.ErrorIs(t, repo.UpdateLongestStreak(ctx, "missing-id", 1), domain.ErrHabitNotFound)
	})
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefit/activity-metrics-api/internal/database"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// setupRepoTest creates a mocked database and repository for testing.
func setupRepoTest(t *testing.T) (sqlmock.Sqlmock, ActivityRepository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pool := &database.Pool{DB: db}
	return mock, NewActivityRepository(pool)
}

// activityRows builds a result set in the shape of the webhooks table.
func activityRows(created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "type", "data", "created_at"}).
		AddRow(int64(2), "user-1", "activity-details",
			[]byte(`{"activityDetails": [{"activityName": "Evening Run"}]}`), created).
		AddRow(int64(1), "user-1", "activity-details",
			[]byte(`{"activityDetails": [{"activityName": "Morning Run"}]}`), created.Add(-time.Hour))
}

func TestActivityRepositoryList(t *testing.T) {
	created := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	t.Run("lists newest first with limit", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		mock.ExpectQuery(`SELECT id, user_id, type, data, created_at FROM webhooks WHERE type = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("activity-details", 50).
			WillReturnRows(activityRows(created))

		activities, err := repo.List(context.Background(), ListOptions{Limit: 50})
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, int64(2), activities[0].ID)
		assert.Equal(t, "Evening Run", activities[0].ActivityName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies since and user filters", func(t *testing.T) {
		mock, repo := setupRepoTest(t)
		since := created.Add(-24 * time.Hour)

		mock.ExpectQuery(`SELECT id, user_id, type, data, created_at FROM webhooks WHERE type = \$1 AND created_at >= \$2 AND user_id = \$3 ORDER BY created_at DESC LIMIT \$4`).
			WithArgs("activity-details", since, "user-1", 10).
			WillReturnRows(activityRows(created))

		activities, err := repo.List(context.Background(), ListOptions{
			Limit:  10,
			Since:  since,
			UserID: "user-1",
		})
		require.NoError(t, err)
		assert.Len(t, activities, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		mock.ExpectQuery(`SELECT id, user_id, type, data, created_at FROM webhooks`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "data", "created_at"}))

		activities, err := repo.List(context.Background(), ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, activities)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepositoryGetByID(t *testing.T) {
	created := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		rows := sqlmock.NewRows([]string{"id", "user_id", "type", "data", "created_at"}).
			AddRow(int64(7), "user-1", "activity-details",
				[]byte(`{"activityDetails": [{"activityName": "Tempo"}]}`), created)

		mock.ExpectQuery(`SELECT id, user_id, type, data, created_at FROM webhooks WHERE id = \$1 AND type = \$2`).
			WithArgs(int64(7), "activity-details").
			WillReturnRows(rows)

		activity, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), activity.ID)
		assert.Equal(t, "Tempo", activity.ActivityName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		mock.ExpectQuery(`SELECT id, user_id, type, data, created_at FROM webhooks WHERE id = \$1 AND type = \$2`).
			WithArgs(int64(99), "activity-details").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "data", "created_at"}))

		activity, err := repo.GetByID(context.Background(), 99)
		assert.Nil(t, activity)
		require.Error(t, err)
		assert.True(t, utils.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepositoryCount(t *testing.T) {
	t.Run("count all", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM webhooks WHERE type = \$1`).
			WithArgs("activity-details").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

		count, err := repo.Count(context.Background(), ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count for user", func(t *testing.T) {
		mock, repo := setupRepoTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM webhooks WHERE type = \$1 AND user_id = \$2`).
			WithArgs("activity-details", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

		count, err := repo.Count(context.Background(), ListOptions{UserID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

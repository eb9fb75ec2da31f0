package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPoolTest(t *testing.T) (sqlmock.Sqlmock, *Pool) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock, &Pool{DB: db}
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		assert.NoError(t, pool.HealthCheck(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectPing().WillReturnError(assert.AnError)

		err := pool.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "health check failed")
	})

	t.Run("query returns wrong value", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(2))

		err := pool.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected result")
	})
}

func TestTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE webhooks").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec("UPDATE webhooks SET type = $1", "activity-details")
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and repanics on panic", func(t *testing.T) {
		mock, pool := setupPoolTest(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = pool.Transaction(context.Background(), func(tx *sql.Tx) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClose(t *testing.T) {
	_, pool := setupPoolTest(t)

	// Closing twice must not panic.
	pool.Close()
	pool.Close()

	var nilPool *Pool
	nilPool.Close()
}

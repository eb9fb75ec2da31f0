// Package migrations creates and upgrades the database schema. Each
// migration runs once and is recorded in a tracking table, so repeated
// startups are idempotent.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/database"
)

// Migration is one schema change with a unique, ordered name.
type Migration struct {
	Name string
	SQL  string
}

// Run applies all pending migrations in order inside transactions.
func Run(ctx context.Context, db *database.Pool) error {
	if err := ensureTrackingTable(ctx, db); err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range All() {
		if applied[m.Name] {
			continue
		}

		start := time.Now()
		err := db.Transaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %s failed: %w", m.Name, err)
			}
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES ($1, $2)", constants.TableMigrations),
				m.Name, time.Now().UTC(),
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("migration", m.Name).
			Dur("duration", time.Since(start)).
			Msg("Migration applied")
	}

	return nil
}

// ensureTrackingTable creates the migrations tracking table if missing.
func ensureTrackingTable(ctx context.Context, db *database.Pool) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL
		)`, constants.TableMigrations)

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the names of migrations already applied.
func appliedMigrations(ctx context.Context, db *database.Pool) (map[string]bool, error) {
	query := fmt.Sprintf("SELECT name FROM %s", constants.TableMigrations)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration name: %w", err)
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

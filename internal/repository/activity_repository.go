// Package repository provides data access to the webhooks table holding
// activity payloads.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/database"
	"github.com/tracefit/activity-metrics-api/internal/models"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// ListOptions narrows an activity listing.
type ListOptions struct {
	// Limit caps the number of rows returned. Non-positive means no cap.
	Limit int

	// Since, when non-zero, restricts the listing to rows created at or
	// after this time.
	Since time.Time

	// UserID, when non-empty, restricts the listing to one user.
	UserID string
}

// ActivityRepository defines methods for activity data access.
type ActivityRepository interface {
	// List returns activity-details rows newest first.
	List(ctx context.Context, opts ListOptions) ([]*models.Activity, error)

	// GetByID retrieves a single activity-details row by its ID.
	GetByID(ctx context.Context, id int64) (*models.Activity, error)

	// Count returns the number of activity-details rows matching the
	// options. The limit is ignored.
	Count(ctx context.Context, opts ListOptions) (int64, error)
}

// PostgresActivityRepository is a PostgreSQL implementation of
// ActivityRepository.
type PostgresActivityRepository struct {
	db *database.Pool
}

// NewActivityRepository creates a new PostgresActivityRepository.
func NewActivityRepository(db *database.Pool) ActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// activityColumns is the column list every activity query selects.
const activityColumns = "id, user_id, type, data, created_at"

// List returns activity-details rows newest first, applying the options
// as additional WHERE clauses.
//
// Parameters:
//   - ctx: Context for the database operation
//   - opts: Listing filters and the row cap
//
// Returns:
//   - []*models.Activity: The matching activities
//   - error: An error if the operation fails
func (r *PostgresActivityRepository) List(ctx context.Context, opts ListOptions) ([]*models.Activity, error) {
	query, args := buildListQuery(opts)

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	utils.LogDBQuery(query, args, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity := &models.Activity{}
		if err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Type,
			&activity.Data,
			&activity.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}

// buildListQuery assembles the listing SQL and its arguments from the
// options. The type filter is always present; since and user filters are
// appended with sequential placeholders.
func buildListQuery(opts ListOptions) (string, []interface{}) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		activityColumns, constants.TableWebhooks, constants.ColumnType,
	)
	args := []interface{}{constants.ActivityDetailsType}

	if !opts.Since.IsZero() {
		args = append(args, opts.Since)
		query += fmt.Sprintf(" AND %s >= $%d", constants.ColumnCreatedAt, len(args))
	}
	if opts.UserID != "" {
		args = append(args, opts.UserID)
		query += fmt.Sprintf(" AND %s = $%d", constants.ColumnUserID, len(args))
	}

	query += fmt.Sprintf(" ORDER BY %s DESC", constants.ColumnCreatedAt)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return query, args
}

// GetByID retrieves an activity-details row by ID.
//
// Parameters:
//   - ctx: Context for the database operation
//   - id: The row ID
//
// Returns:
//   - *models.Activity: The activity if found
//   - error: A NotFoundError if no row matches, or another error on failure
func (r *PostgresActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		activityColumns, constants.TableWebhooks, constants.ColumnID, constants.ColumnType,
	)

	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, id, constants.ActivityDetailsType)

	activity := &models.Activity{}
	err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Type,
		&activity.Data,
		&activity.CreatedAt,
	)
	utils.LogDBQuery(query, []interface{}{id}, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("activity", id)
		}
		return nil, fmt.Errorf("failed to get activity by ID: %w", err)
	}

	return activity, nil
}

// Count returns the number of activity-details rows matching the options.
//
// Parameters:
//   - ctx: Context for the database operation
//   - opts: Listing filters; the limit is ignored
//
// Returns:
//   - int64: The matching row count
//   - error: An error if the operation fails
func (r *PostgresActivityRepository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = $1",
		constants.TableWebhooks, constants.ColumnType,
	)
	args := []interface{}{constants.ActivityDetailsType}

	if !opts.Since.IsZero() {
		args = append(args, opts.Since)
		query += fmt.Sprintf(" AND %s >= $%d", constants.ColumnCreatedAt, len(args))
	}
	if opts.UserID != "" {
		args = append(args, opts.UserID)
		query += fmt.Sprintf(" AND %s = $%d", constants.ColumnUserID, len(args))
	}

	start := time.Now()
	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	utils.LogDBQuery(query, args, time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}

	return count, nil
}

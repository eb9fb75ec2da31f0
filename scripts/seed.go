// Package scripts provides development tooling: a tracked seeder that
// loads realistic activity payloads into an empty database.
package scripts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/database"
)

// seedName identifies the activity seed in the seeds tracking table, so
// running the seeder twice does not duplicate rows.
const seedName = "0001_sample_activities"

// Seed loads sample activity-details rows unless the seed already ran.
func Seed(ctx context.Context, db *database.Pool) error {
	if err := ensureSeedsTable(ctx, db); err != nil {
		return err
	}

	applied, err := seedApplied(ctx, db)
	if err != nil {
		return err
	}
	if applied {
		log.Info().Str("seed", seedName).Msg("Seed already applied, skipping")
		return nil
	}

	userID := uuid.NewString()
	activities := sampleActivities()

	err = db.Transaction(ctx, func(tx *sql.Tx) error {
		for i, payload := range activities {
			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("failed to marshal seed payload: %w", err)
			}

			createdAt := time.Now().UTC().AddDate(0, 0, -i)
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf("INSERT INTO %s (user_id, type, data, created_at) VALUES ($1, $2, $3, $4)",
					constants.TableWebhooks),
				userID, constants.ActivityDetailsType, data, createdAt,
			); err != nil {
				return fmt.Errorf("failed to insert seed activity: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES ($1, $2)", constants.TableSeeds),
			seedName, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("activities", len(activities)).Str("user_id", userID).
		Msg("Seed data loaded")
	return nil
}

// ensureSeedsTable creates the seeds tracking table if missing.
func ensureSeedsTable(ctx context.Context, db *database.Pool) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL
		)`, constants.TableSeeds)

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}
	return nil
}

// seedApplied reports whether the activity seed already ran.
func seedApplied(ctx context.Context, db *database.Pool) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE name = $1", constants.TableSeeds)

	var count int
	if err := db.QueryRowContext(ctx, query, seedName).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check seed state: %w", err)
	}
	return count > 0, nil
}

// sampleActivities builds activity-details payloads in the shape the push
// API delivers: a one-hour run, a two-hour ride, and a short swim.
func sampleActivities() []map[string]interface{} {
	return []map[string]interface{}{
		buildActivity("Morning Run", "RUNNING", 3600, 11500, 85, 80, 59.91, 10.75),
		buildActivity("Sunday Ride", "CYCLING", 7200, 58000, 420, 415, 59.95, 10.60),
		buildActivity("Pool Swim", "LAP_SWIMMING", 1800, 1500, 0, 0, 0, 0),
	}
}

// buildActivity assembles one payload with a sample every ten seconds.
func buildActivity(name, activityType string, durationSec int, distanceM, gainM, lossM, lat, lon float64) map[string]interface{} {
	sampleCount := durationSec / 10
	samples := make([]interface{}, 0, sampleCount)

	for i := 1; i <= sampleCount; i++ {
		progress := float64(i) / float64(sampleCount)
		sample := map[string]interface{}{
			"timerDurationInSeconds": float64(i * 10),
			"totalDistanceInMeters":  distanceM * progress,
			"speedMetersPerSecond":   distanceM / float64(durationSec) * (1 + 0.1*math.Sin(float64(i)/8)),
			"heartRate":              120 + 30*progress,
			"elevationInMeters":      20 + (gainM-lossM)*progress,
		}
		if lat != 0 && lon != 0 {
			sample["latitudeInDegree"] = lat + 0.0001*float64(i)
			sample["longitudeInDegree"] = lon + 0.0001*float64(i)
		}
		samples = append(samples, sample)
	}

	return map[string]interface{}{
		"activityDetails": []interface{}{
			map[string]interface{}{
				"activityName": name,
				"summary": map[string]interface{}{
					"activityType":                  activityType,
					"durationInSeconds":             float64(durationSec),
					"distanceInMeters":              distanceM,
					"totalElevationGainInMeters":    gainM,
					"totalElevationLossInMeters":    lossM,
					"averageSpeedInMetersPerSecond": distanceM / float64(durationSec),
				},
				"samples": samples,
			},
		},
	}
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/models"
	"github.com/tracefit/activity-metrics-api/internal/repository"
	"github.com/tracefit/activity-metrics-api/internal/utils"
	"github.com/tracefit/activity-metrics-api/internal/utils/cache"
)

// fakeActivityRepo is an in-memory ActivityRepository that records calls.
type fakeActivityRepo struct {
	activities []*models.Activity
	listCalls  int
	getCalls   int
	lastOpts   repository.ListOptions
}

func (f *fakeActivityRepo) List(_ context.Context, opts repository.ListOptions) ([]*models.Activity, error) {
	f.listCalls++
	f.lastOpts = opts

	out := f.activities
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id int64) (*models.Activity, error) {
	f.getCalls++
	for _, a := range f.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, utils.NewNotFoundError("activity", id)
}

func (f *fakeActivityRepo) Count(_ context.Context, _ repository.ListOptions) (int64, error) {
	return int64(len(f.activities)), nil
}

// newTestService builds a service over the fake repo with a short-lived
// cache.
func newTestService(t *testing.T, repo *fakeActivityRepo, settings Settings) *ActivityService {
	t.Helper()
	store := cache.NewStore(time.Minute, time.Minute, 0)
	t.Cleanup(store.Close)
	return NewActivityService(repo, store, settings)
}

// testActivity builds an activity with a realistic payload.
func testActivity(id int64, name string) *models.Activity {
	payload := map[string]interface{}{
		"activityDetails": []interface{}{
			map[string]interface{}{
				"activityName": name,
				"summary": map[string]interface{}{
					"durationInSeconds":             1800.0,
					"distanceInMeters":              6000.0,
					"averageSpeedInMetersPerSecond": 3.3333,
					"activityType":                  "RUNNING",
				},
				"samples": []interface{}{
					map[string]interface{}{
						"timerDurationInSeconds": 10.0,
						"totalDistanceInMeters":  33.0,
						"speedMetersPerSecond":   3.3,
						"latitudeInDegree":       60.1,
						"longitudeInDegree":      10.5,
					},
					map[string]interface{}{
						"timerDurationInSeconds": 20.0,
						"totalDistanceInMeters":  66.0,
						"speedMetersPerSecond":   3.3,
						"latitudeInDegree":       60.2,
						"longitudeInDegree":      10.6,
					},
				},
			},
		},
	}
	data, _ := json.Marshal(payload)

	return &models.Activity{
		ID:        id,
		UserID:    "user-1",
		Type:      constants.ActivityDetailsType,
		Data:      data,
		CreatedAt: time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC),
	}
}

func TestListActivities(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{
		testActivity(2, "Evening Run"),
		testActivity(1, "Morning Run"),
	}}
	svc := newTestService(t, repo, Settings{TargetUserID: "user-1"})

	listing, err := svc.ListActivities(context.Background(), 100, time.Time{})
	require.NoError(t, err)

	assert.Len(t, listing.Activities, 2)
	assert.Equal(t, int64(2), listing.Total)
	assert.Equal(t, 100, listing.Limit)
	assert.Equal(t, "Evening Run", listing.Activities[0].ActivityName)
	assert.Equal(t, "user-1", repo.lastOpts.UserID)
}

func TestListActivitiesClampsLimit(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestService(t, repo, Settings{})

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero uses default", limit: 0, wantLimit: constants.DefaultActivityLimit},
		{name: "below minimum", limit: 1, wantLimit: constants.MinActivityLimit},
		{name: "above maximum", limit: 999999, wantLimit: constants.MaxActivityLimit},
		{name: "in range", limit: 250, wantLimit: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := svc.ListActivities(context.Background(), tt.limit, time.Time{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, listing.Limit)
			assert.Equal(t, tt.wantLimit, repo.lastOpts.Limit)
		})
	}
}

func TestListActivitiesUsesCache(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{testActivity(1, "Run")}}
	svc := newTestService(t, repo, Settings{})

	_, err := svc.ListActivities(context.Background(), 100, time.Time{})
	require.NoError(t, err)
	_, err = svc.ListActivities(context.Background(), 100, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)

	// A different query shape misses the cache.
	_, err = svc.ListActivities(context.Background(), 50, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	// Flushing forces a reload.
	svc.FlushCache()
	_, err = svc.ListActivities(context.Background(), 100, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.listCalls)
}

func TestGetActivity(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{testActivity(7, "Tempo")}}
	svc := newTestService(t, repo, Settings{})

	detail, err := svc.GetActivity(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), detail.ID)
	assert.Equal(t, "Tempo", detail.ActivityName)
	assert.NotEmpty(t, detail.PayloadFields)
	require.NotNil(t, detail.Summary)
	require.NotNil(t, detail.Summary.DurationInSeconds)
	assert.InDelta(t, 1800.0, *detail.Summary.DurationInSeconds, 1e-9)

	_, err = svc.GetActivity(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestGetSamples(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{testActivity(7, "Tempo")}}
	svc := newTestService(t, repo, Settings{})

	view, err := svc.GetSamples(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), view.ActivityID)
	assert.Equal(t, 2, view.Series.Len())
	require.NotNil(t, view.Quality)
	assert.NotEmpty(t, view.Quality.Warnings)

	// Second call is served from cache.
	_, err = svc.GetSamples(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetTrack(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{testActivity(7, "Tempo")}}
	svc := newTestService(t, repo, Settings{})

	view, err := svc.GetTrack(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, view.Points, 2)
	assert.InDelta(t, 60.1, view.Points[0].Latitude, 1e-9)
	assert.InDelta(t, 10.6, view.Points[1].Longitude, 1e-9)
}

func TestGetMetrics(t *testing.T) {
	repo := &fakeActivityRepo{activities: []*models.Activity{testActivity(7, "Tempo")}}
	svc := newTestService(t, repo, Settings{})

	report, err := svc.GetMetrics(context.Background(), 7, 70, "")
	require.NoError(t, err)

	assert.Equal(t, constants.SportRunning, report.Sport)
	assert.InDelta(t, 1800.0, report.DurationSeconds, 1e-9)
	assert.Greater(t, report.RTSS, 0.0)

	// Weight is part of the cache key, so a different weight recomputes.
	_, err = svc.GetMetrics(context.Background(), 7, 80, "")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)

	// The sport override replaces the inferred sport and keys the cache.
	cycling, err := svc.GetMetrics(context.Background(), 7, 70, "bike")
	require.NoError(t, err)
	assert.Equal(t, constants.SportCycling, cycling.Sport)
	assert.Equal(t, 3, repo.getCalls)
}

// Package handlers implements the HTTP handlers of the activity dashboard
// API.
package handlers

import (
	"context"
	"time"

	"github.com/tracefit/activity-metrics-api/internal/metrics"
	"github.com/tracefit/activity-metrics-api/internal/service"
)

// ActivityServiceInterface defines the service methods the activity
// handlers depend on. Tests substitute a fake.
type ActivityServiceInterface interface {
	ListActivities(ctx context.Context, limit int, since time.Time) (*service.ActivityListing, error)
	GetActivity(ctx context.Context, id int64) (*service.ActivityDetail, error)
	GetSamples(ctx context.Context, id int64) (*service.SampleView, error)
	GetTrack(ctx context.Context, id int64) (*service.TrackView, error)
	GetMetrics(ctx context.Context, id int64, weightKg float64, sport string) (*metrics.Report, error)
}

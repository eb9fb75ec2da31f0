// Package service implements business logic for the activity dashboard API,
// assembling cached views on top of the repository layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/metrics"
	"github.com/tracefit/activity-metrics-api/internal/models"
	"github.com/tracefit/activity-metrics-api/internal/repository"
	"github.com/tracefit/activity-metrics-api/internal/utils/cache"
)

// Settings carries the dashboard-facing knobs the service needs.
type Settings struct {
	// TargetUserID, when non-empty, narrows every query to one user.
	TargetUserID string

	// DefaultLimit is the listing size used when the caller passes none.
	DefaultLimit int
}

// ActivityService assembles activity views for the API handlers. Results
// are cached for the store's TTL so repeated dashboard loads do not hit
// the database.
type ActivityService struct {
	repo     repository.ActivityRepository
	store    *cache.Store
	settings Settings
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo repository.ActivityRepository, store *cache.Store, settings Settings) *ActivityService {
	if settings.DefaultLimit == 0 {
		settings.DefaultLimit = constants.DefaultActivityLimit
	}
	return &ActivityService{repo: repo, store: store, settings: settings}
}

// ActivityListing is the response view of a listing query.
type ActivityListing struct {
	Activities []models.ActivitySummary `json:"activities"`
	Total      int64                    `json:"total"`
	Limit      int                      `json:"limit"`
}

// ActivityDetail is the response view of a single activity.
type ActivityDetail struct {
	models.ActivitySummary

	PayloadFields []models.PayloadField       `json:"payload_fields"`
	Summary       *models.ActivitySummaryData `json:"summary"`
}

// SampleView is the response view of an activity's cleaned telemetry.
type SampleView struct {
	ActivityID int64                 `json:"activity_id"`
	Series     *models.SampleSeries  `json:"series"`
	Quality    *models.QualityReport `json:"quality"`
}

// TrackView is the response view of an activity's GPS track.
type TrackView struct {
	ActivityID int64               `json:"activity_id"`
	Points     []models.TrackPoint `json:"points"`
}

// clampLimit bounds a requested listing size. Zero falls back to the
// configured default.
func (s *ActivityService) clampLimit(limit int) int {
	if limit == 0 {
		limit = s.settings.DefaultLimit
	}
	if limit < constants.MinActivityLimit {
		return constants.MinActivityLimit
	}
	if limit > constants.MaxActivityLimit {
		return constants.MaxActivityLimit
	}
	return limit
}

// ListActivities returns activity summaries newest first.
//
// Parameters:
//   - ctx: Context for the operation
//   - limit: Requested listing size, clamped to the allowed range
//   - since: When non-zero, only activities created at or after this time
//
// Returns:
//   - *ActivityListing: Summaries plus the total matching count
//   - error: An error if the operation fails
func (s *ActivityService) ListActivities(ctx context.Context, limit int, since time.Time) (*ActivityListing, error) {
	limit = s.clampLimit(limit)

	key := fmt.Sprintf("list:%d:%d:%s", limit, since.Unix(), s.settings.TargetUserID)
	if cached, ok := s.store.Get(key); ok {
		return cached.(*ActivityListing), nil
	}

	opts := repository.ListOptions{
		Limit:  limit,
		Since:  since,
		UserID: s.settings.TargetUserID,
	}

	activities, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, err
	}

	listing := &ActivityListing{
		Activities: make([]models.ActivitySummary, 0, len(activities)),
		Total:      total,
		Limit:      limit,
	}
	for _, activity := range activities {
		listing.Activities = append(listing.Activities, activity.Summarize())
	}

	s.store.Set(key, listing)
	log.Debug().Int("count", len(listing.Activities)).Int64("total", total).
		Msg("Activity listing assembled")

	return listing, nil
}

// GetActivity returns the detail view of one activity.
func (s *ActivityService) GetActivity(ctx context.Context, id int64) (*ActivityDetail, error) {
	key := fmt.Sprintf("activity:%d", id)
	if cached, ok := s.store.Get(key); ok {
		return cached.(*ActivityDetail), nil
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ActivityDetail{
		ActivitySummary: activity.Summarize(),
		PayloadFields:   activity.PayloadSummary(),
		Summary:         models.ExtractSummary(activity.Detail()),
	}

	s.store.Set(key, detail)
	return detail, nil
}

// GetSamples returns the cleaned telemetry of one activity with its
// quality report.
func (s *ActivityService) GetSamples(ctx context.Context, id int64) (*SampleView, error) {
	key := fmt.Sprintf("samples:%d", id)
	if cached, ok := s.store.Get(key); ok {
		return cached.(*SampleView), nil
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	series := models.ExtractSamples(activity.Detail())
	view := &SampleView{
		ActivityID: id,
		Series:     series,
		Quality:    models.AssessQuality(series),
	}

	s.store.Set(key, view)
	return view, nil
}

// GetTrack returns the GPS track of one activity.
func (s *ActivityService) GetTrack(ctx context.Context, id int64) (*TrackView, error) {
	key := fmt.Sprintf("track:%d", id)
	if cached, ok := s.store.Get(key); ok {
		return cached.(*TrackView), nil
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &TrackView{
		ActivityID: id,
		Points:     models.ExtractSamples(activity.Detail()).Track(),
	}

	s.store.Set(key, view)
	return view, nil
}

// GetMetrics returns the derived metrics report of one activity. The
// athlete weight feeds the energy estimate; non-positive weights use the
// default. A non-empty sport overrides the one inferred from the payload.
func (s *ActivityService) GetMetrics(ctx context.Context, id int64, weightKg float64, sport string) (*metrics.Report, error) {
	key := fmt.Sprintf("metrics:%d:%.1f:%s", id, weightKg, sport)
	if cached, ok := s.store.Get(key); ok {
		return cached.(*metrics.Report), nil
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := activity.Detail()
	report := metrics.Compute(
		models.ExtractSamples(detail),
		models.ExtractSummary(detail),
		weightKg,
		sport,
	)

	s.store.Set(key, report)
	return report, nil
}

// FlushCache drops all cached views. Used by the maintenance loop and by
// tests.
func (s *ActivityService) FlushCache() {
	s.store.Flush()
}

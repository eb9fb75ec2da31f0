package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefit/activity-metrics-api/internal/metrics"
	"github.com/tracefit/activity-metrics-api/internal/models"
	"github.com/tracefit/activity-metrics-api/internal/service"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// fakeActivityService implements ActivityServiceInterface for handler tests.
type fakeActivityService struct {
	listing   *service.ActivityListing
	detail    *service.ActivityDetail
	samples   *service.SampleView
	track     *service.TrackView
	report    *metrics.Report
	err       error
	lastLimit int
	lastSince time.Time
	lastID    int64
	lastKg    float64
	lastSport string
}

func (f *fakeActivityService) ListActivities(_ context.Context, limit int, since time.Time) (*service.ActivityListing, error) {
	f.lastLimit = limit
	f.lastSince = since
	return f.listing, f.err
}

func (f *fakeActivityService) GetActivity(_ context.Context, id int64) (*service.ActivityDetail, error) {
	f.lastID = id
	return f.detail, f.err
}

func (f *fakeActivityService) GetSamples(_ context.Context, id int64) (*service.SampleView, error) {
	f.lastID = id
	return f.samples, f.err
}

func (f *fakeActivityService) GetTrack(_ context.Context, id int64) (*service.TrackView, error) {
	f.lastID = id
	return f.track, f.err
}

func (f *fakeActivityService) GetMetrics(_ context.Context, id int64, weightKg float64, sport string) (*metrics.Report, error) {
	f.lastID = id
	f.lastKg = weightKg
	f.lastSport = sport
	return f.report, f.err
}

// newTestRouter mounts the handler on the routes the server uses.
func newTestRouter(h *ActivityHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Route("/{activityID}", func(r chi.Router) {
			r.Get("/", h.GetActivity)
			r.Get("/samples", h.GetSamples)
			r.Get("/track", h.GetTrack)
			r.Get("/metrics", h.GetMetrics)
		})
	})
	return r
}

// doRequest executes a GET request against the test router.
func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestListActivitiesHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeActivityService{listing: &service.ActivityListing{
			Activities: []models.ActivitySummary{{ID: 1, Label: "run"}},
			Total:      1,
			Limit:      100,
		}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities?limit=100")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, 100, svc.lastLimit)
	})

	t.Run("since accepts a bare date", func(t *testing.T) {
		svc := &fakeActivityService{listing: &service.ActivityListing{}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities?since=2025-06-01")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), svc.lastSince)
	})

	t.Run("invalid limit", func(t *testing.T) {
		svc := &fakeActivityService{}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities?limit=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("invalid since", func(t *testing.T) {
		svc := &fakeActivityService{}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities?since=yesterday")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("database unavailable", func(t *testing.T) {
		svc := &fakeActivityService{err: utils.NewUnavailableError(nil)}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.False(t, resp.Success)
	})
}

func TestGetActivityHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeActivityService{detail: &service.ActivityDetail{
			ActivitySummary: models.ActivitySummary{ID: 7, Label: "tempo"},
		}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities/7")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, int64(7), svc.lastID)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &fakeActivityService{}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities/zero")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeActivityService{err: utils.NewNotFoundError("activity", 99)}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities/99")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "not_found", resp.Error.Code)
	})
}

func TestGetSamplesHandler(t *testing.T) {
	svc := &fakeActivityService{samples: &service.SampleView{
		ActivityID: 7,
		Series:     &models.SampleSeries{},
		Quality:    &models.QualityReport{TimerMonotonic: true},
	}}
	router := newTestRouter(NewActivityHandler(svc))

	rec, resp := doRequest(t, router, "/api/activities/7/samples")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(7), svc.lastID)
}

func TestGetTrackHandler(t *testing.T) {
	svc := &fakeActivityService{track: &service.TrackView{
		ActivityID: 7,
		Points:     []models.TrackPoint{{Latitude: 60.1, Longitude: 10.5}},
	}}
	router := newTestRouter(NewActivityHandler(svc))

	rec, resp := doRequest(t, router, "/api/activities/7/track")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestGetMetricsHandler(t *testing.T) {
	t.Run("default weight", func(t *testing.T) {
		svc := &fakeActivityService{report: &metrics.Report{Sport: "running"}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities/7/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.0, svc.lastKg)
	})

	t.Run("explicit weight", func(t *testing.T) {
		svc := &fakeActivityService{report: &metrics.Report{Sport: "running"}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities/7/metrics?weight=68.5")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 68.5, svc.lastKg, 1e-9)
	})

	t.Run("invalid weight", func(t *testing.T) {
		svc := &fakeActivityService{}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities/7/metrics?weight=-5")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sport override", func(t *testing.T) {
		svc := &fakeActivityService{report: &metrics.Report{Sport: "cycling"}}
		router := newTestRouter(NewActivityHandler(svc))

		rec, _ := doRequest(t, router, "/api/activities/7/metrics?sport=cycling")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cycling", svc.lastSport)
	})

	t.Run("unsupported sport", func(t *testing.T) {
		svc := &fakeActivityService{}
		router := newTestRouter(NewActivityHandler(svc))

		rec, resp := doRequest(t, router, "/api/activities/7/metrics?sport=curling")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})
}

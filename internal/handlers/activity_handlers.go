package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// ActivityHandler handles activity-related HTTP requests.
type ActivityHandler struct {
	activityService ActivityServiceInterface
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// handleServiceError translates a service error into an HTTP response.
func handleServiceError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		utils.ErrorFromAppError(w, appErr)
		return
	}
	utils.ErrorFromAppError(w, utils.ParseError(err))
}

// parseActivityID extracts the activityID URL parameter.
func parseActivityID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "activityID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewValidationError("activityID", "Activity ID must be a positive integer")
	}
	return id, nil
}

// ListActivities handles GET /api/activities.
//
// Query parameters:
//   - limit: maximum number of activities to return (clamped server-side)
//   - since: RFC 3339 timestamp or YYYY-MM-DD date lower bound
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get(constants.QueryParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.BadRequest(w, "Invalid limit parameter", map[string]string{
				constants.QueryParamLimit: "must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	var since time.Time
	if raw := query.Get(constants.QueryParamSince); raw != "" {
		parsed, err := parseSince(raw)
		if err != nil {
			utils.BadRequest(w, "Invalid since parameter", map[string]string{
				constants.QueryParamSince: "must be an RFC 3339 timestamp or YYYY-MM-DD date",
			})
			return
		}
		since = parsed
	}

	listing, err := h.activityService.ListActivities(r.Context(), limit, since)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, listing)
}

// parseSince accepts both a full RFC 3339 timestamp and a bare date.
func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// GetActivity handles GET /api/activities/{activityID}.
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseActivityID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.activityService.GetActivity(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, detail)
}

// GetSamples handles GET /api/activities/{activityID}/samples.
func (h *ActivityHandler) GetSamples(w http.ResponseWriter, r *http.Request) {
	id, err := parseActivityID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.activityService.GetSamples(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, view)
}

// GetTrack handles GET /api/activities/{activityID}/track.
func (h *ActivityHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseActivityID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.activityService.GetTrack(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, view)
}

// metricsQuery holds the validated query parameters of the metrics
// endpoint.
type metricsQuery struct {
	Sport string `json:"sport" validate:"sport"`
}

// GetMetrics handles GET /api/activities/{activityID}/metrics.
//
// Query parameters:
//   - weight: athlete weight in kg for the energy estimate (optional)
//   - sport: overrides the sport inferred from the payload (optional)
func (h *ActivityHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := parseActivityID(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	query := r.URL.Query()

	weight := 0.0
	if raw := query.Get(constants.QueryParamWeight); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 500 {
			utils.BadRequest(w, "Invalid weight parameter", map[string]string{
				constants.QueryParamWeight: "must be a positive number of kilograms",
			})
			return
		}
		weight = parsed
	}

	params := metricsQuery{Sport: query.Get(constants.QueryParamSport)}
	if err := utils.ValidateStruct(params); err != nil {
		handleServiceError(w, err)
		return
	}

	report, err := h.activityService.GetMetrics(r.Context(), id, weight, params.Sport)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/handlers"
	"github.com/tracefit/activity-metrics-api/internal/middleware"
	"github.com/tracefit/activity-metrics-api/internal/utils"
)

// routes builds the router with the full middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	if s.config.Logging.RequestLog {
		r.Use(middleware.Logging)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(s.config.CORS.AllowedOrigins, s.config.CORS.AllowCredentials))

	// Operational endpoints stay outside the API key check.
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	activityHandler := handlers.NewActivityHandler(s.activityService)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKey(s.config.Dashboard.APIKey))

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", activityHandler.ListActivities)
			r.Route("/{activityID}", func(r chi.Router) {
				r.Get("/", activityHandler.GetActivity)
				r.Get("/samples", activityHandler.GetSamples)
				r.Get("/track", activityHandler.GetTrack)
				r.Get("/metrics", activityHandler.GetMetrics)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	return r
}

// healthStatus is the /health response body.
type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// handleHealth reports liveness plus database reachability. The response
// is 200 with a degraded status rather than an error code so load
// balancers keep the process alive while the database recovers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok", Database: "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), constants.HealthCheckQueryTimeout)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
	}

	utils.JSON(w, http.StatusOK, status)
}

// versionInfo is the /version response body.
type versionInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// handleVersion reports the build identity.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, versionInfo{
		Name:        s.config.App.Name,
		Version:     s.config.App.Version,
		Environment: s.config.App.Environment,
	})
}

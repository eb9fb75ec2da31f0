// Package server wires the HTTP server: routing, middleware, lifecycle,
// and the periodic maintenance loop.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/config"
	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/database"
	"github.com/tracefit/activity-metrics-api/internal/repository"
	"github.com/tracefit/activity-metrics-api/internal/service"
	"github.com/tracefit/activity-metrics-api/internal/utils/cache"
)

// Server represents the API server and its dependencies.
type Server struct {
	config          *config.AppConfig
	db              *database.Pool
	store           *cache.Store
	activityService *service.ActivityService
	httpServer      *http.Server
	stopMaintenance chan struct{}
}

// NewServer creates a new server over an established database connection.
func NewServer(cfg *config.AppConfig, db *database.Pool) *Server {
	store := cache.NewStore(
		cfg.Dashboard.CacheTTL,
		constants.CacheCleanupInterval,
		0,
	)

	repo := repository.NewActivityRepository(db)
	activityService := service.NewActivityService(repo, store, service.Settings{
		TargetUserID: cfg.Dashboard.TargetUserID,
		DefaultLimit: cfg.Dashboard.ActivityLimit,
	})

	s := &Server{
		config:          cfg,
		db:              db,
		store:           store,
		activityService: activityService,
		stopMaintenance: make(chan struct{}),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// Start runs the server until an interrupt or termination signal arrives,
// then shuts down gracefully.
func (s *Server) Start() error {
	go s.maintenanceLoop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.httpServer.Addr).Msg("Starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	return s.Shutdown()
}

// Shutdown stops the maintenance loop, drains in-flight requests, and
// closes the cache and database.
func (s *Server) Shutdown() error {
	close(s.stopMaintenance)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}

	s.store.Close()
	s.db.Close()

	log.Info().Msg("Server stopped")
	return nil
}

// maintenanceLoop periodically verifies database health and reports cache
// occupancy. A failed health check flushes the cache so stale views are
// not served once the database returns.
func (s *Server) maintenanceLoop() {
	ticker := time.NewTicker(constants.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runMaintenance()
		case <-s.stopMaintenance:
			return
		}
	}
}

// runMaintenance executes one maintenance pass.
func (s *Server) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.HealthCheckQueryTimeout)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("Maintenance health check failed, flushing cache")
		s.store.Flush()
		return
	}

	log.Debug().Int("cache_entries", s.store.Len()).Msg("Maintenance pass complete")
}

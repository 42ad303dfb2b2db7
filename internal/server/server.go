// Package server holds the application container: configuration, loggers,
// the PostgreSQL pool, Redis, the background job service and the HTTP
// server, together with their startup and shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/config"
	"github.com/deppfellow/talent-catalog/internal/database"
	"github.com/deppfellow/talent-catalog/internal/lib/job"
	loggerPkg "github.com/deppfellow/talent-catalog/internal/logger"
	"github.com/deppfellow/talent-catalog/internal/metrics"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container shared by repositories, services,
// middleware and handlers.
//
// Everything with a process lifetime lives here:
//   - Config, and the root Logger every request logger derives from
//   - LoggerService, owning the optional New Relic application
//   - DB, the pgx pool, and Redis, the country name cache
//   - Job, the asynq client and worker server
//   - Metrics, the Prometheus registry served on /metrics
//
// It is built once in main and passed down by pointer. Nothing in it is
// replaced after New returns, except the HTTP server set by
// SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService
	Metrics       *metrics.Metrics

	httpServer *http.Server
}

// New connects to PostgreSQL and Redis and prepares the job service.
//
// A failed Redis ping is logged, not fatal: the country name cache falls
// back to the database and enqueues are best effort. The job workers are
// started by the caller once their handlers are wired.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	// trace Redis commands as New Relic datastore segments
	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           job.NewJobService(logger, cfg),
		Metrics:       metrics.New(),
	}, nil
}

// SetupHTTPServer configures the listener around handler. Config timeouts
// are seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the process in dependency order:
//  1. the HTTP server stops accepting and drains in-flight requests
//  2. the job workers finish their running tasks
//  3. the PostgreSQL pool and the Redis client are closed
//
// ctx bounds only the HTTP drain; asynq enforces its own shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if err := s.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// Package server defines the core Server struct that composes the app's
// main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the contact store pool (MongoDB client or pgx pool)
//   - redis client
//   - background job worker server (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/contacts/internal/config"
	"github.com/deppfellow/contacts/internal/database"
	"github.com/deppfellow/contacts/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/contacts/internal/logger"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// Exactly one of Mongo and DB is set for the mongodb and postgres
	// drivers. Both are nil for the memory driver.
	Mongo *database.Mongo
	DB    *database.Database

	// Redis is nil when no redis address is configured.
	Redis *redis.Client

	// Job is nil unless job.enabled is set.
	Job *job.JobService

	httpServer *http.Server

	// closers release the resources opened by New, in reverse order.
	closers []closer
}

type closer struct {
	name  string
	close func(ctx context.Context) error
}

func (s *Server) addCloser(name string, fn func(ctx context.Context) error) {
	s.closers = append(s.closers, closer{name: name, close: fn})
}

// closeResources runs every closer, newest first, even when some fail.
func (s *Server) closeResources(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", c.name, err))
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// New constructs a Server and initializes the configured dependencies.
//
// Store connection failures abort startup. A Redis ping failure is logged
// and startup continues, since Redis only backs the cache and the jobs.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch cfg.Store.Driver {
	case config.DriverMongo:
		mongoStore, err := database.NewMongo(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		server.Mongo = mongoStore
		server.addCloser("mongo connection", mongoStore.Close)

	case config.DriverPostgres:
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
		server.addCloser("database connection", func(context.Context) error {
			return db.Close()
		})

	case config.DriverMemory:
		logger.Warn().Msg("using the in-memory contact store, data is lost on restart")
	}

	if cfg.Redis.Address != "" {
		// Redis connections are lazy.
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		if loggerService != nil && loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
		}

		server.Redis = redisClient
		server.addCloser("redis connection", func(context.Context) error {
			return redisClient.Close()
		})
	}

	if cfg.Job.Enabled {
		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(cfg, logger)

		// Stop also releases the asynq client when Start fails.
		server.addCloser("job server", func(context.Context) error {
			jobService.Stop()
			return nil
		})

		// asynq.Server.Start does not block; workers run in the background.
		if err := jobService.Start(); err != nil {
			closeErr := server.closeResources(context.Background())
			return nil, errors.Join(fmt.Errorf("failed to start job server: %w", err), closeErr)
		}
		server.Job = jobService
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         s.Config.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("addr", s.httpServer.Addr).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Driver).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases the job server, Redis
// and the store pool. Every resource is closed even when an earlier one
// fails; the errors are joined.
func (s *Server) Shutdown(ctx context.Context) error {
	var httpErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			httpErr = fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	return errors.Join(httpErr, s.closeResources(ctx))
}

// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the pinning provider client
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/salviega/sci-backend/internal/config"
	loggerPkg "github.com/salviega/sci-backend/internal/logger"
	"github.com/salviega/sci-backend/internal/pinning"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger(s)
//   - the pinning provider client
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// Pinner is the content-pinning provider client. It is constructed
	// once from config, never mutated afterwards, and shared read-only
	// across all concurrent request handlers.
	Pinner pinning.Pinner

	// httpServer is the standard library HTTP server instance.
	// It is configured in SetupHTTPServer and started in Start().
	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly. That is done in
// SetupHTTPServer + Start.
//
// The pinning client is built eagerly, so invalid provider credentials
// or an unreachable node fail the process at startup rather than on the
// first request.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	pinner, err := pinning.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinning provider: %w", err)
	}

	logger.Info().
		Str("provider", cfg.Pinning.Provider).
		Msg("pinning provider ready")

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Pinner:        pinner,
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
//
// The actual router/mux is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr: ":" + s.Config.Server.Port,

		Handler: handler,

		// These timeouts protect against slow clients and resource
		// exhaustion. Config stores int values, interpreted as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called
// first and blocks until the server stops or errors.
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

// Shutdown gracefully shuts down the HTTP server, finishing inflight
// requests until the context deadline. The pinning client holds no
// connections of its own, so nothing else needs teardown.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}

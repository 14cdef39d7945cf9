// Command api runs the sci-backend HTTP service: a relay that forwards
// client-submitted JSON objects and files to an IPFS pinning provider
// and answers with the resulting content identifier.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salviega/sci-backend/internal/config"
	"github.com/salviega/sci-backend/internal/logger"
	"github.com/salviega/sci-backend/internal/router"
	"github.com/salviega/sci-backend/internal/server"
	"github.com/salviega/sci-backend/internal/service"
)

// shutdownTimeout bounds how long inflight requests may run after a
// termination signal before the process exits.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// config.Load logs fatally on most failures; this covers the rest.
		os.Exit(1)
	}

	appLogger, loggerService, err := logger.New(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	srv, err := server.New(cfg, appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	services, err := service.NewService(srv)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize services")
	}

	e := router.New(srv, services)
	srv.SetupHTTPServer(e)

	// Run the server in the background so the main goroutine can wait
	// for termination signals.
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server failed")
		}

	case sig := <-quit:
		appLogger.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}

		appLogger.Info().Msg("server stopped")
	}
}

package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/salviega/sci-backend/internal/middleware"
	"github.com/salviega/sci-backend/internal/server"
)

// Handler is the base handler type that holds shared application dependencies.
//
// It is embedded by concrete handlers (UploadHandler, HealthHandler) so
// they can access shared resources via *server.Server (config, logger,
// pinner).
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
//
// It returns the struct by value: the struct only contains a pointer
// field, so copying it is cheap and still points to the same Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// requestScope bundles the per-request observability plumbing shared by
// all endpoints: the context-enhanced logger, the New Relic transaction
// (nil when tracing is disabled), and timing.
type requestScope struct {
	logger zerolog.Logger
	txn    *newrelic.Transaction
	start  time.Time
}

// beginRequest opens a requestScope for an endpoint.
//
// The logger comes from the ContextEnhancer middleware and already
// carries correlation fields (request_id, trace ids); operation names
// the endpoint for log filtering.
func beginRequest(c echo.Context, operation string) *requestScope {
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", operation).
		Logger()

	logger.Info().Msg("handling request")

	return &requestScope{
		logger: logger,
		txn:    txn,
		start:  time.Now(),
	}
}

// end records the outcome of the request on the transaction and in the
// logs, and passes err through unchanged so the global error handler
// can format the response.
func (rs *requestScope) end(err error) error {
	duration := time.Since(rs.start)

	if err != nil {
		rs.logger.Error().
			Err(err).
			Dur("total_duration", duration).
			Msg("handler execution failed")

		if rs.txn != nil {
			rs.txn.NoticeError(nrpkgerrors.Wrap(err))
			rs.txn.AddAttribute("handler.status", "error")
			rs.txn.AddAttribute("total.duration_ms", duration.Milliseconds())
		}
		return err
	}

	if rs.txn != nil {
		rs.txn.AddAttribute("handler.status", "success")
		rs.txn.AddAttribute("total.duration_ms", duration.Milliseconds())
	}

	rs.logger.Info().
		Dur("total_duration", duration).
		Msg("request completed successfully")

	return nil
}

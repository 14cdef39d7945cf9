// Package logger configure the application's logging,
// monitoring, and observability.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to instrument the codebase, forwarding logs,
// metrics, and traces for debugging
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/salviega/sci-backend/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is disabled (no license key), the service still exists
// but GetApplication returns nil and all integrations degrade to no-ops.
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when the
// integration is disabled.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	return ls.nrApp
}

// New builds the application logger and the optional New Relic service
// from observability config.
//
// Output selection:
//   - format "console": human-friendly console writer on stderr.
//   - format "json": JSON on stdout; when New Relic log forwarding is
//     enabled, logs are routed through zerologWriter so they are
//     decorated with trace metadata and forwarded to New Relic.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", obs.Logging.Level, err)
	}

	service := &LoggerService{}

	if obs.NewRelic.LicenseKey != "" {
		nrApp, err := newrelic.NewApplication(
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
			func(c *newrelic.Config) {
				if obs.NewRelic.DebugLogging {
					c.Logger = newrelic.NewDebugLogger(os.Stderr)
				}
			},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize New Relic: %w", err)
		}
		service.nrApp = nrApp
	}

	var logger zerolog.Logger

	switch {
	case obs.Logging.Format == "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	case service.nrApp != nil && obs.NewRelic.AppLogForwardingEnabled:
		writer := zerologWriter.New(os.Stdout, service.nrApp)
		logger = zerolog.New(writer)

	default:
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(level).With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &logger, service, nil
}

// WithTraceContext enriches a logger with New Relic trace correlation
// fields so log lines can be joined with their distributed trace.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	md := txn.GetTraceMetadata()
	builder := logger.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}

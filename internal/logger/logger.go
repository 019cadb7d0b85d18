// Package logger configures the application's logging, monitoring, and
// observability.
//
// It uses zerolog for structured logging and integrates with New Relic
// to forward logs, metrics, and traces. When no license key is
// configured the New Relic pieces degrade to no-ops.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService wraps the optional New Relic application instance.
//
// A nil inner application means APM is disabled; callers must check
// GetApplication() before using it.
type LoggerService struct {
	app *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when APM is
// not configured.
func (s *LoggerService) GetApplication() *newrelic.Application {
	return s.app
}

// Shutdown flushes buffered telemetry. Safe to call when APM is disabled.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s.app != nil {
		s.app.Shutdown(timeout)
	}
}

// New builds the application logger and the New Relic service wrapper.
//
// Behavior:
//   - log level comes from observability config (env-aware default)
//   - format "console" pretty-prints to stderr, anything else is JSON
//   - when a license key is present, logs are routed through the New
//     Relic zerolog writer so they carry trace linking metadata
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	service := &LoggerService{}

	if obs.NewRelic.LicenseKey != "" {
		app, err := newrelic.NewApplication(
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
			return nil, nil, fmt.Errorf("failed to initialize new relic: %w", err)
		}
		service.app = app
	}

	var out io.Writer = os.Stdout
	if obs.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	// Route JSON logs through the agent writer so they are forwarded
	// with trace context. Console output stays local-only.
	if service.app != nil && obs.Logging.Format != "console" {
		w := zerologWriter.New(out, service.app)
		out = w
	}

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &log, service, nil
}

// WithTraceContext returns a logger carrying trace.id and span.id fields
// from the given transaction so log lines correlate with traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return log
	}

	md := txn.GetTraceMetadata()
	builder := log.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}

// Package telemetry wires logging, tracing and error reporting for router services.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/argus-labs/xchain-router/pkg/telemetry/sentry"
)

const sentryFlushTimeout = 2 * time.Second

type Telemetry struct {
	Logger      zerolog.Logger
	Tracer      trace.Tracer
	serviceName string

	shutdown func(context.Context) error
}

// New builds telemetry from ROUTER_* environment variables, overridden by the non-empty fields of opts.
func New(opts Options) (Telemetry, error) {
	s, err := resolveSettings(opts)
	if err != nil {
		return Telemetry{}, err
	}

	ctx := context.Background()
	provider, err := newTracerProvider(ctx, s)
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to setup tracing")
	}
	if err := sentry.New(s.sentryOptions()); err != nil {
		if provider != nil {
			if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
				err = errors.Join(err, shutdownErr)
			}
		}
		return Telemetry{}, err
	}
	tracer, shutdown := installTracerProvider(provider, s.ServiceName)

	return Telemetry{
		Logger:      newLogger(s),
		Tracer:      tracer,
		serviceName: s.ServiceName,
		shutdown:    shutdown,
	}, nil
}

// Nop returns telemetry that discards logs and traces. Used in tests.
func Nop() Telemetry {
	return Telemetry{
		Logger: zerolog.Nop(),
		Tracer: noop.NewTracerProvider().Tracer("nop"),
	}
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	name := component
	if t.serviceName != "" {
		name = t.serviceName + "." + component
	}
	return t.Logger.With().Str("component", name).Logger()
}

// GetLoggerWithTrace returns a component-specific logger enriched with trace context.
func (t *Telemetry) GetLoggerWithTrace(ctx context.Context, component string) zerolog.Logger {
	logger := t.GetLogger(component)
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return logger
	}
	spanCtx := span.SpanContext()
	return logger.With().
		Str("trace_id", spanCtx.TraceID().String()).
		Str("span_id", spanCtx.SpanID().String()).
		Logger()
}

// CaptureError reports a handled error. It is a no-op unless Sentry is configured.
func (t *Telemetry) CaptureError(ctx context.Context, err error) {
	sentry.CaptureException(ctx, err)
}

// Shutdown flushes pending traces and error reports.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	sentry.Shutdown(ctx, sentryFlushTimeout)
	if t.shutdown != nil {
		return t.shutdown(ctx)
	}
	return nil
}

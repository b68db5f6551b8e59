package telemetry

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/argus-labs/xchain-router/pkg/assert"
)

// newTracerProvider builds the OTLP tracer provider, or returns nil when tracing is disabled. The
// provider is not installed globally; see installTracerProvider.
func newTracerProvider(ctx context.Context, opts settings) (*sdktrace.TracerProvider, error) {
	if !opts.TracingEnabled {
		return nil, nil //nolint:nilnil // nil provider means tracing is off
	}

	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		return nil, eris.Wrap(err, "failed to create resource")
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(opts.Endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, eris.Wrap(err, "failed to create OTLP trace exporter")
	}

	var sampler sdktrace.Sampler
	switch opts.TraceSampleRate {
	case 1.0:
		sampler = sdktrace.AlwaysSample()
	case 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.TraceSampleRate))
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

// installTracerProvider makes provider the global one and returns the service tracer with the function
// that flushes and stops it. A nil provider yields a no-op tracer.
func installTracerProvider(provider *sdktrace.TracerProvider, serviceName string) (trace.Tracer, func(context.Context) error) {
	if provider == nil {
		return noop.NewTracerProvider().Tracer(serviceName), func(context.Context) error { return nil }
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(provider)
	return provider.Tracer(serviceName), provider.Shutdown
}

func newLogger(s settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stdout
	switch s.LogFormat {
	case LogFormatPretty:
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	case LogFormatJSON:
	default:
		assert.That(false, "log format %q is validated before the logger is built", s.LogFormat)
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", s.ServiceName).
		Logger()
}

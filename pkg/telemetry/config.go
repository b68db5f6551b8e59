package telemetry

import (
	"maps"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/xchain-router/pkg/telemetry/sentry"
)

// LogFormat selects how log lines are written.
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatPretty LogFormat = "pretty"
)

// Config is read from ROUTER_* environment variables.
type Config struct {
	// TracingEnabled when false installs a no-op tracer and Endpoint is ignored.
	TracingEnabled bool `env:"ROUTER_TRACING_ENABLED" envDefault:"false"`

	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `env:"ROUTER_OTLP_ENDPOINT" envDefault:"jaeger:4317"`

	// TraceSampleRate is the fraction of root spans sampled, 0.0 to 1.0.
	TraceSampleRate float64 `env:"ROUTER_TRACE_SAMPLE_RATE" envDefault:"1.0"`

	LogLevel  string    `env:"ROUTER_LOG_LEVEL" envDefault:"info"`
	LogFormat LogFormat `env:"ROUTER_LOG_FORMAT" envDefault:"json"`

	// SentryDsn enables error reporting when set.
	SentryDsn string `env:"ROUTER_SENTRY_DSN"`
	SentryEnv string `env:"ROUTER_SENTRY_ENV"`
}

// Options are set by the program embedding the router. Empty fields keep the environment value.
type Options struct {
	// ServiceName tags logs, traces and reported errors. Required.
	ServiceName string
	LogLevel    string
	LogFormat   LogFormat
	// SentryTags are attached to every reported error next to the service name.
	SentryTags map[string]string
}

// settings is the environment config with the program's options applied.
type settings struct {
	Config
	ServiceName string
	SentryTags  map[string]string
}

func resolveSettings(opts Options) (settings, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return settings{}, eris.Wrap(err, "failed to parse telemetry config")
	}

	s := settings{Config: cfg, ServiceName: opts.ServiceName}
	if opts.LogLevel != "" {
		s.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		s.LogFormat = opts.LogFormat
	}
	s.SentryTags = map[string]string{"service": opts.ServiceName}
	maps.Copy(s.SentryTags, opts.SentryTags)

	if err := s.validate(); err != nil {
		return settings{}, eris.Wrap(err, "invalid telemetry settings")
	}
	return s, nil
}

func (s settings) validate() error {
	if s.ServiceName == "" {
		return eris.New("service name cannot be empty")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return eris.Errorf("invalid log level %q", s.LogLevel)
	}
	if s.LogFormat != LogFormatJSON && s.LogFormat != LogFormatPretty {
		return eris.Errorf("invalid log format %q (must be %q or %q)", s.LogFormat, LogFormatJSON, LogFormatPretty)
	}
	if !s.TracingEnabled {
		return nil
	}
	if s.Endpoint == "" {
		return eris.New("OTLP endpoint cannot be empty when tracing is enabled")
	}
	if s.TraceSampleRate < 0.0 || s.TraceSampleRate > 1.0 {
		return eris.Errorf("trace sample rate %v is outside [0, 1]", s.TraceSampleRate)
	}
	return nil
}

func (s settings) sentryOptions() sentry.Options {
	return sentry.Options{Dsn: s.SentryDsn, Environment: s.SentryEnv, Tags: s.SentryTags}
}

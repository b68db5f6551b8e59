package gateway

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"

	"github.com/argus-labs/xchain-router/pkg/telemetry"
)

// DefaultMaxMessageSize bounds the size of a message handed to Send.
const DefaultMaxMessageSize = 4096

// gatewayConfig holds the configuration for a Gateway.
// Configuration can be set via environment variables with the specified defaults.
type gatewayConfig struct {
	// Where router configs are persisted ("memory", "redis", "jetstream").
	StorageType string `env:"GATEWAY_STORAGE_TYPE" envDefault:"memory"`

	// Messages larger than this are rejected before any router is called.
	MaxMessageSize int `env:"GATEWAY_MAX_MESSAGE_SIZE" envDefault:"4096"`

	RedisAddress  string `env:"GATEWAY_REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"GATEWAY_REDIS_PASSWORD"`
	// Name of the hash holding one field per domain.
	RedisKey string `env:"GATEWAY_REDIS_KEY" envDefault:"gateway:routers"`

	NATSURL    string `env:"GATEWAY_NATS_URL" envDefault:"nats://localhost:4222"`
	NATSBucket string `env:"GATEWAY_NATS_BUCKET" envDefault:"gateway_routers"`
}

// loadConfig loads the gateway configuration from environment variables.
func loadConfig() (gatewayConfig, error) {
	cfg := gatewayConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse gateway config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

func (cfg *gatewayConfig) validate() error {
	if ParseStorageType(cfg.StorageType) == StorageUndefined {
		return eris.Errorf("invalid storage type: %s (must be 'memory', 'redis' or 'jetstream')", cfg.StorageType)
	}
	if cfg.MaxMessageSize <= 0 {
		return eris.New("max message size must be positive")
	}
	return nil
}

// applyToOptions applies the configuration values to the given Options.
func (cfg *gatewayConfig) applyToOptions(opt *Options) {
	opt.StorageType = ParseStorageType(cfg.StorageType)
	opt.MaxMessageSize = cfg.MaxMessageSize
	opt.RedisAddress = cfg.RedisAddress
	opt.RedisPassword = cfg.RedisPassword
	opt.RedisKey = cfg.RedisKey
	opt.NATSURL = cfg.NATSURL
	opt.NATSBucket = cfg.NATSBucket
}

type Options struct {
	MaxMessageSize int
	StorageType    StorageType
	// Storage, when set, is used instead of opening the storage selected by StorageType.
	Storage RouterStorage

	RedisAddress  string
	RedisPassword string
	RedisKey      string

	NATSURL    string
	NATSBucket string

	// Telemetry defaults to telemetry.Nop.
	Telemetry *telemetry.Telemetry
}

func newDefaultOptions() Options {
	return Options{
		MaxMessageSize: DefaultMaxMessageSize,
		StorageType:    StorageMemory,
	}
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.MaxMessageSize != 0 {
		opt.MaxMessageSize = newOpt.MaxMessageSize
	}
	if newOpt.StorageType != StorageUndefined {
		opt.StorageType = newOpt.StorageType
	}
	if newOpt.Storage != nil {
		opt.Storage = newOpt.Storage
	}
	if newOpt.RedisAddress != "" {
		opt.RedisAddress = newOpt.RedisAddress
	}
	if newOpt.RedisPassword != "" {
		opt.RedisPassword = newOpt.RedisPassword
	}
	if newOpt.RedisKey != "" {
		opt.RedisKey = newOpt.RedisKey
	}
	if newOpt.NATSURL != "" {
		opt.NATSURL = newOpt.NATSURL
	}
	if newOpt.NATSBucket != "" {
		opt.NATSBucket = newOpt.NATSBucket
	}
	if newOpt.Telemetry != nil {
		opt.Telemetry = newOpt.Telemetry
	}
}

func (opt *Options) validate() error {
	if opt.MaxMessageSize <= 0 {
		return eris.New("max message size must be positive")
	}
	if opt.Storage != nil {
		return nil
	}
	switch opt.StorageType {
	case StorageMemory:
	case StorageRedis:
		if opt.RedisAddress == "" {
			return eris.New("redis address cannot be empty")
		}
		if opt.RedisKey == "" {
			return eris.New("redis key cannot be empty")
		}
	case StorageJetStream:
		if opt.NATSURL == "" {
			return eris.New("NATS URL cannot be empty")
		}
		if opt.NATSBucket == "" {
			return eris.New("NATS bucket cannot be empty")
		}
	case StorageUndefined:
		return eris.New("invalid storage type")
	default:
		return eris.New("invalid storage type")
	}
	return nil
}

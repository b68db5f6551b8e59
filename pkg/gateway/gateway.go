// Package gateway owns the router of every remote domain. It keeps the router config registry,
// persists it, and hands outbound messages to the router serving their destination.
package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/argus-labs/xchain-router/pkg/router"
	"github.com/argus-labs/xchain-router/pkg/router/evm"
	"github.com/argus-labs/xchain-router/pkg/telemetry"
)

var (
	ErrRouterNotFound  = errors.New("router not found")
	ErrMessageTooLarge = errors.New("message too large")
)

// domainRouter pairs a built router with the config it was built from. It is never mutated; a new
// config replaces the whole value.
type domainRouter struct {
	config RouterConfig
	router router.Router
}

type Gateway struct {
	backend        evm.Backend
	storage        RouterStorage
	closeStorage   func() error
	maxMessageSize int

	tel telemetry.Telemetry
	log zerolog.Logger

	// writeMu serializes persisting a config with swapping its router so storage and memory agree.
	writeMu sync.Mutex
	mu      sync.RWMutex
	routers map[Domain]*domainRouter
}

// New creates a Gateway whose routers submit through backend. Options are read from GATEWAY_*
// environment variables and overridden by the non-zero fields of opts.
func New(ctx context.Context, backend evm.Backend, opts Options) (*Gateway, error) {
	if backend == nil {
		return nil, eris.New("EVM backend cannot be nil")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load gateway config")
	}
	options := newDefaultOptions()
	cfg.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid gateway options")
	}

	tel := telemetry.Nop()
	if options.Telemetry != nil {
		tel = *options.Telemetry
	}

	storage, closeStorage, err := openStorage(ctx, options)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		backend:        backend,
		storage:        storage,
		closeStorage:   closeStorage,
		maxMessageSize: options.MaxMessageSize,
		tel:            tel,
		routers:        make(map[Domain]*domainRouter),
	}
	g.log = g.tel.GetLogger("gateway")
	g.log.Info().
		Str("storage", options.StorageType.String()).
		Int("max_message_size", options.MaxMessageSize).
		Msg("Gateway created")
	return g, nil
}

func openStorage(ctx context.Context, opt Options) (RouterStorage, func() error, error) {
	nopClose := func() error { return nil }
	if opt.Storage != nil {
		return opt.Storage, nopClose, nil
	}

	switch opt.StorageType {
	case StorageMemory:
		return NewMemoryRouterStorage(), nopClose, nil
	case StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: opt.RedisAddress, Password: opt.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, eris.Wrapf(err, "failed to reach redis at %s", opt.RedisAddress)
		}
		return NewRedisRouterStorage(client, opt.RedisKey), client.Close, nil
	case StorageJetStream:
		conn, err := nats.Connect(opt.NATSURL, nats.Name("xchain-gateway"))
		if err != nil {
			return nil, nil, eris.Wrapf(err, "failed to connect to NATS at %s", opt.NATSURL)
		}
		storage, err := NewJetStreamRouterStorage(ctx, conn, opt.NATSBucket)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return storage, func() error {
			conn.Close()
			return nil
		}, nil
	case StorageUndefined:
		return nil, nil, eris.New("invalid storage type")
	default:
		return nil, nil, eris.New("invalid storage type")
	}
}

// SetDomainRouter builds and initializes the router described by cfg, persists cfg, and only then
// replaces the router serving domain. On error the previous router stays in place.
func (g *Gateway) SetDomainRouter(ctx context.Context, domain Domain, cfg RouterConfig) error {
	if err := cfg.Validate(); err != nil {
		return eris.Wrapf(err, "invalid router config for %s", domain)
	}
	rtr, err := cfg.build(g.backend, g.log.With().Str("domain", domain.String()).Logger())
	if err != nil {
		return err
	}
	if err := rtr.Init(ctx); err != nil {
		return eris.Wrapf(err, "failed to initialize router for %s", domain)
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := g.storage.Store(ctx, domain, cfg); err != nil {
		return eris.Wrapf(err, "failed to persist router config for %s", domain)
	}
	g.mu.Lock()
	g.routers[domain] = &domainRouter{config: cfg, router: rtr}
	g.mu.Unlock()

	g.log.Info().
		Str("domain", domain.String()).
		Str("kind", cfg.Kind.String()).
		Str("target", cfg.EVM.TargetContractAddress.Hex()).
		Msg("Domain router set")
	return nil
}

// DomainRouter returns the config of the router currently serving domain.
func (g *Gateway) DomainRouter(domain Domain) (RouterConfig, error) {
	dr, ok := g.lookup(domain)
	if !ok {
		return RouterConfig{}, eris.Wrapf(ErrRouterNotFound, "domain %s", domain)
	}
	return dr.config, nil
}

// Domains returns every domain with a router.
func (g *Gateway) Domains() []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Domain, 0, len(g.routers))
	for domain := range g.routers {
		out = append(out, domain)
	}
	return out
}

// Send hands msg to the router of domain. The message is sent exactly once; failures are returned to
// the caller and never retried. Router failures are returned as *router.SendError.
func (g *Gateway) Send(ctx context.Context, domain Domain, sender router.AccountID, msg []byte) (router.Receipt, error) {
	ctx, span := g.tel.Tracer.Start(ctx, "gateway.send", trace.WithAttributes(
		attribute.String("domain", domain.String()),
		attribute.String("sender", sender.Hex()),
		attribute.Int("message.size", len(msg)),
	))
	defer span.End()

	receipt, err := g.send(ctx, domain, sender, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log := g.tel.GetLoggerWithTrace(ctx, "gateway")
		log.Error().Err(err).Str("domain", domain.String()).Str("sender", sender.Hex()).Msg("Failed to send message")
		g.tel.CaptureError(ctx, err)
		return receipt, err
	}

	span.SetAttributes(attribute.String("tx.hash", receipt.TxHash.Hex()))
	g.log.Debug().
		Str("domain", domain.String()).
		Str("tx_hash", receipt.TxHash.Hex()).
		Uint64("gas_used", receipt.GasUsed).
		Msg("Message sent")
	return receipt, nil
}

func (g *Gateway) send(ctx context.Context, domain Domain, sender router.AccountID, msg []byte) (router.Receipt, error) {
	dr, ok := g.lookup(domain)
	if !ok {
		return router.Receipt{}, eris.Wrapf(ErrRouterNotFound, "domain %s", domain)
	}
	if len(msg) > g.maxMessageSize {
		return router.Receipt{}, eris.Wrapf(ErrMessageTooLarge, "%d bytes, max %d", len(msg), g.maxMessageSize)
	}
	// Not wrapped: callers classify the failure with router.IsEncodingError and router.IsSubmissionError.
	return dr.router.Send(ctx, sender, msg)
}

// Restore rebuilds the routers from storage. Every stored config must pass Validate. Restored routers
// are not re-initialized, so the chain is not contacted. On error the current routers are kept.
func (g *Gateway) Restore(ctx context.Context) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	configs, err := g.storage.All(ctx)
	if err != nil {
		return eris.Wrap(err, "failed to load router configs")
	}

	routers := make(map[Domain]*domainRouter, len(configs))
	for domain, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return eris.Wrapf(err, "invalid stored router config for %s", domain)
		}
		rtr, err := cfg.build(g.backend, g.log.With().Str("domain", domain.String()).Logger())
		if err != nil {
			return eris.Wrapf(err, "failed to restore router for %s", domain)
		}
		routers[domain] = &domainRouter{config: cfg, router: rtr}
	}

	g.mu.Lock()
	g.routers = routers
	g.mu.Unlock()

	g.log.Info().Int("routers", len(routers)).Msg("Restored domain routers")
	return nil
}

// Close releases the storage connection.
func (g *Gateway) Close() error {
	if err := g.closeStorage(); err != nil {
		return eris.Wrap(err, "failed to close router storage")
	}
	return nil
}

func (g *Gateway) lookup(domain Domain) (*domainRouter, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	dr, ok := g.routers[domain]
	return dr, ok
}

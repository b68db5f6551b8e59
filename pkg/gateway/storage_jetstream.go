package gateway

import (
	"context"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rotisserie/eris"
)

// JetStreamRouterStorage keeps router configs in a NATS JetStream key-value bucket, one key per domain.
type JetStreamRouterStorage struct {
	kv jetstream.KeyValue
}

var _ RouterStorage = (*JetStreamRouterStorage)(nil)

// NewJetStreamRouterStorage opens the bucket, creating it if it does not exist yet.
func NewJetStreamRouterStorage(ctx context.Context, conn *nats.Conn, bucket string) (*JetStreamRouterStorage, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create JetStream client")
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	if err != nil {
		if !eris.Is(err, jetstream.ErrBucketExists) {
			return nil, eris.Wrapf(err, "failed to create key-value bucket %s", bucket)
		}
		kv, err = js.KeyValue(ctx, bucket)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to get existing key-value bucket %s", bucket)
		}
	}
	return &JetStreamRouterStorage{kv: kv}, nil
}

func (j *JetStreamRouterStorage) Store(ctx context.Context, domain Domain, cfg RouterConfig) error {
	data, err := cfg.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := j.kv.Put(ctx, domain.key(), data); err != nil {
		return eris.Wrapf(err, "failed to store router config for %s", domain)
	}
	return nil
}

func (j *JetStreamRouterStorage) Load(ctx context.Context, domain Domain) (RouterConfig, error) {
	entry, err := j.kv.Get(ctx, domain.key())
	if err != nil {
		if eris.Is(err, jetstream.ErrKeyNotFound) {
			return RouterConfig{}, eris.Wrapf(ErrConfigNotFound, "domain %s", domain)
		}
		return RouterConfig{}, eris.Wrapf(err, "failed to load router config for %s", domain)
	}

	var cfg RouterConfig
	if err := cfg.UnmarshalBinary(entry.Value()); err != nil {
		return RouterConfig{}, eris.Wrapf(err, "corrupt router config for %s", domain)
	}
	return cfg, nil
}

func (j *JetStreamRouterStorage) All(ctx context.Context) (map[Domain]RouterConfig, error) {
	out := make(map[Domain]RouterConfig)

	lister, err := j.kv.ListKeys(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list router config keys")
	}
	defer func() {
		_ = lister.Stop()
	}()

	for key := range lister.Keys() {
		domain, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid domain key %q", key)
		}
		cfg, err := j.Load(ctx, Domain(domain))
		if err != nil {
			return nil, err
		}
		out[Domain(domain)] = cfg
	}
	return out, nil
}

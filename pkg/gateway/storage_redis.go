package gateway

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisRouterStorage keeps router configs in a single Redis hash: field is the domain, value the
// marshaled RouterConfig.
type RedisRouterStorage struct {
	client *redis.Client
	key    string
}

var _ RouterStorage = (*RedisRouterStorage)(nil)

func NewRedisRouterStorage(client *redis.Client, key string) *RedisRouterStorage {
	return &RedisRouterStorage{client: client, key: key}
}

func (r *RedisRouterStorage) Store(ctx context.Context, domain Domain, cfg RouterConfig) error {
	data, err := cfg.MarshalBinary()
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key, domain.key(), data).Err(); err != nil {
		return eris.Wrapf(err, "failed to store router config for %s", domain)
	}
	return nil
}

func (r *RedisRouterStorage) Load(ctx context.Context, domain Domain) (RouterConfig, error) {
	data, err := r.client.HGet(ctx, r.key, domain.key()).Bytes()
	if err != nil {
		if eris.Is(err, redis.Nil) {
			return RouterConfig{}, eris.Wrapf(ErrConfigNotFound, "domain %s", domain)
		}
		return RouterConfig{}, eris.Wrapf(err, "failed to load router config for %s", domain)
	}

	var cfg RouterConfig
	if err := cfg.UnmarshalBinary(data); err != nil {
		return RouterConfig{}, eris.Wrapf(err, "corrupt router config for %s", domain)
	}
	return cfg, nil
}

func (r *RedisRouterStorage) All(ctx context.Context) (map[Domain]RouterConfig, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, eris.Wrap(err, "failed to list router configs")
	}

	out := make(map[Domain]RouterConfig, len(fields))
	for field, value := range fields {
		domain, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid domain field %q", field)
		}
		var cfg RouterConfig
		if err := cfg.UnmarshalBinary([]byte(value)); err != nil {
			return nil, eris.Wrapf(err, "corrupt router config for %s", Domain(domain))
		}
		out[Domain(domain)] = cfg
	}
	return out, nil
}

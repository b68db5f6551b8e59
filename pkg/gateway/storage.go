package gateway

import (
	"context"
	"errors"
	"strings"
)

var ErrConfigNotFound = errors.New("router config not found")

// RouterStorage persists the router config of every domain so a restarted gateway can restore its routers.
type RouterStorage interface {
	// Store saves cfg for domain, replacing any previous config.
	Store(ctx context.Context, domain Domain, cfg RouterConfig) error

	// Load returns the config for domain, or ErrConfigNotFound.
	Load(ctx context.Context, domain Domain) (RouterConfig, error)

	// All returns every stored config keyed by domain.
	All(ctx context.Context) (map[Domain]RouterConfig, error)
}

// StorageType defines the type of router storage to use.
type StorageType uint8

const (
	StorageUndefined StorageType = iota
	StorageMemory
	StorageRedis
	StorageJetStream
)

const (
	memoryStorageString    = "MEMORY"
	redisStorageString     = "REDIS"
	jetStreamStorageString = "JETSTREAM"
	undefinedStorageString = "UNDEFINED"
)

func (s StorageType) String() string {
	switch s {
	case StorageMemory:
		return memoryStorageString
	case StorageRedis:
		return redisStorageString
	case StorageJetStream:
		return jetStreamStorageString
	case StorageUndefined:
		return undefinedStorageString
	default:
		return undefinedStorageString
	}
}

// ParseStorageType converts a case-insensitive string to a StorageType.
func ParseStorageType(s string) StorageType {
	switch strings.ToUpper(s) {
	case memoryStorageString:
		return StorageMemory
	case redisStorageString:
		return StorageRedis
	case jetStreamStorageString:
		return StorageJetStream
	default:
		return StorageUndefined
	}
}

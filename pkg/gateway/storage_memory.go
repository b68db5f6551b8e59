package gateway

import (
	"context"
	"maps"
	"sync"

	"github.com/rotisserie/eris"
)

// MemoryRouterStorage keeps router configs in process memory. Used when persistence is not needed.
type MemoryRouterStorage struct {
	mu      sync.RWMutex
	configs map[Domain]RouterConfig
}

var _ RouterStorage = (*MemoryRouterStorage)(nil)

func NewMemoryRouterStorage() *MemoryRouterStorage {
	return &MemoryRouterStorage{configs: make(map[Domain]RouterConfig)}
}

func (m *MemoryRouterStorage) Store(_ context.Context, domain Domain, cfg RouterConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[domain] = cfg
	return nil
}

func (m *MemoryRouterStorage) Load(_ context.Context, domain Domain) (RouterConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[domain]
	if !ok {
		return RouterConfig{}, eris.Wrapf(ErrConfigNotFound, "domain %s", domain)
	}
	return cfg, nil
}

func (m *MemoryRouterStorage) All(context.Context) (map[Domain]RouterConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.configs), nil
}

package gateway_test

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nats-io/nats-server/v2/server"
	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/xchain-router/pkg/gateway"
)

var testNATS *server.Server

func TestMain(m *testing.M) {
	tempDir := filepath.Join(os.TempDir(), "gateway-nats-test-"+strconv.Itoa(os.Getpid()))

	testNATS = natstest.RunServer(&server.Options{
		Host:                  "127.0.0.1",
		Port:                  -1,
		NoLog:                 true,
		NoSigs:                true,
		MaxControlLine:        4096,
		DisableShortFirstPing: true,
		JetStream:             true,
		StoreDir:              tempDir,
	})

	code := m.Run()

	testNATS.Shutdown()
	if err := os.RemoveAll(tempDir); err != nil {
		log.Printf("failed to remove temp dir: %v", err)
	}
	os.Exit(code)
}

func newRedisStorage(t *testing.T) *gateway.RedisRouterStorage {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return gateway.NewRedisRouterStorage(client, "gateway:routers")
}

func newJetStreamStorage(t *testing.T, bucket string) *gateway.JetStreamRouterStorage {
	t.Helper()
	require.NotNil(t, testNATS, "test NATS server is not running")

	conn, err := nats.Connect(testNATS.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	storage, err := gateway.NewJetStreamRouterStorage(context.Background(), conn, bucket)
	require.NoError(t, err)
	return storage
}

func TestRouterStorage(t *testing.T) {
	t.Parallel()

	storages := map[string]func(t *testing.T) gateway.RouterStorage{
		"memory": func(*testing.T) gateway.RouterStorage { return gateway.NewMemoryRouterStorage() },
		"redis":  func(t *testing.T) gateway.RouterStorage { return newRedisStorage(t) },
		"jetstream": func(t *testing.T) gateway.RouterStorage {
			return newJetStreamStorage(t, "routers_conformance")
		},
	}

	for name, newStorage := range storages {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			storage := newStorage(t)

			all, err := storage.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			_, err = storage.Load(ctx, 1)
			require.ErrorIs(t, err, gateway.ErrConfigNotFound)

			evmCfg := gateway.NewEVMRouterConfig(testEVMDomain())
			axelarCfg := gateway.NewAxelarEVMRouterConfig(testEVMDomain(), testDestination(t))
			require.NoError(t, storage.Store(ctx, 1, evmCfg))
			require.NoError(t, storage.Store(ctx, 1284, axelarCfg))

			loaded, err := storage.Load(ctx, 1284)
			require.NoError(t, err)
			assert.True(t, axelarCfg.Equal(loaded))

			// Storing again replaces the previous config.
			require.NoError(t, storage.Store(ctx, 1, axelarCfg))

			all, err = storage.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.True(t, axelarCfg.Equal(all[1]))
			assert.True(t, axelarCfg.Equal(all[1284]))
		})
	}
}

func TestJetStreamRouterStorage_ReopenBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	first := newJetStreamStorage(t, "routers_reopen")
	cfg := gateway.NewEVMRouterConfig(testEVMDomain())
	require.NoError(t, first.Store(ctx, 5, cfg))

	second := newJetStreamStorage(t, "routers_reopen")
	loaded, err := second.Load(ctx, 5)
	require.NoError(t, err)
	assert.True(t, cfg.Equal(loaded))
}

func TestRedisRouterStorage_CorruptValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	storage := gateway.NewRedisRouterStorage(client, "routers")

	s.HSet("routers", "7", "garbage")
	_, err := storage.Load(ctx, 7)
	require.ErrorIs(t, err, gateway.ErrInvalidEncodedConfig)

	_, err = storage.All(ctx)
	require.Error(t, err)
}

func TestParseStorageType(t *testing.T) {
	t.Parallel()

	for _, st := range []gateway.StorageType{gateway.StorageMemory, gateway.StorageRedis, gateway.StorageJetStream} {
		assert.Equal(t, st, gateway.ParseStorageType(st.String()))
	}
	assert.Equal(t, gateway.StorageRedis, gateway.ParseStorageType("redis"))
	assert.Equal(t, gateway.StorageUndefined, gateway.ParseStorageType("postgres"))
}

package providers

import (
	"context"
	"errors"
	"minedash/internal/structures"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

const kvStoreSize = 8 * 1024 * 1024

// KeyValueStoreInterface holds short lived login state and sessions.
type KeyValueStoreInterface interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Take returns the value and removes it, so a key can be consumed once.
	Take(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

type MemoryKeyValueStore struct {
	cache *freecache.Cache
}

func (m *MemoryKeyValueStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.cache.Set([]byte(key), value, max(int(ttl.Seconds()), 1))
}

func (m *MemoryKeyValueStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (m *MemoryKeyValueStore) Take(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := m.Get(ctx, key)
	if err != nil || !ok {
		return val, ok, err
	}
	if !m.cache.Del([]byte(key)) {
		// someone else consumed it in between
		return nil, false, nil
	}
	return val, true, nil
}

func (m *MemoryKeyValueStore) Delete(_ context.Context, key string) error {
	m.cache.Del([]byte(key))
	return nil
}

type RedisKeyValueStore struct {
	client *redis.Client
	prefix string
}

func (r *RedisKeyValueStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *RedisKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisKeyValueStore) Take(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.GetDel(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisKeyValueStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{cache: freecache.NewCache(kvStoreSize)}
}

// NewKeyValueStoreProvider uses redis when an address is configured, so that
// sessions survive restarts and can be shared between instances.
func NewKeyValueStoreProvider(conf *structures.Config, logger Logger) (KeyValueStoreInterface, func(), error) {
	if conf.Redis.Addr == "" {
		logger.Infof(TypeApp, "Session store: in-memory")
		return NewMemoryKeyValueStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	logger.Infof(TypeApp, "Session store: redis %s", conf.Redis.Addr)
	cleanup := func() {
		_ = client.Close()
	}
	return &RedisKeyValueStore{client: client, prefix: "minedash:"}, cleanup, nil
}

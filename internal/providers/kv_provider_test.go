package providers

import (
	"context"
	"minedash/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKeyValueStore_PutGet(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()

	require.NoError(t, kv.Put(ctx, "session:abc", []byte("90000001"), time.Minute))

	val, ok, err := kv.Get(ctx, "session:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("90000001"), val)

	_, ok, err = kv.Get(ctx, "session:missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKeyValueStore_TakeConsumesOnce(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()
	require.NoError(t, kv.Put(ctx, "state:t1", []byte("1"), time.Minute))

	val, ok, err := kv.Take(ctx, "state:t1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	_, ok, err = kv.Take(ctx, "state:t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKeyValueStore_Delete(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()
	require.NoError(t, kv.Put(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, kv.Delete(ctx, "k"))

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewKeyValueStoreProvider_DefaultsToMemory(t *testing.T) {
	kv, cleanup, err := NewKeyValueStoreProvider(&structures.Config{}, &cacheTestLogger{})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &MemoryKeyValueStore{}, kv)
}

func TestNewKeyValueStoreProvider_UnreachableRedis(t *testing.T) {
	conf := &structures.Config{Redis: structures.RedisConfig{Addr: "127.0.0.1:1"}}
	_, _, err := NewKeyValueStoreProvider(conf, &cacheTestLogger{})
	assert.Error(t, err)
}

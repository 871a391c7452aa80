package matchcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/pkg/models"
)

func TestMemoryStore(t *testing.T) {
	result := &models.MatchResult{
		UserSector:    "industrial",
		UserSubsector: "food_processing",
		TotalFound:    2,
	}

	t.Run("put and get", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		require.NoError(t, store.Put(context.Background(), "acme:industrial", result))

		got, err := store.Get(context.Background(), "acme:industrial")
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("missing key", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		_, err := store.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired entry", func(t *testing.T) {
		store := NewMemoryStore(time.Millisecond)
		require.NoError(t, store.Put(context.Background(), "key", result))

		time.Sleep(5 * time.Millisecond)

		_, err := store.Get(context.Background(), "key")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := NewMemoryStore(time.Minute)
		require.NoError(t, store.Put(context.Background(), "key", result))
		require.NoError(t, store.Delete(context.Background(), "key"))

		_, err := store.Get(context.Background(), "key")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired entries evicted on put", func(t *testing.T) {
		store := NewMemoryStore(time.Millisecond)
		require.NoError(t, store.Put(context.Background(), "old", result))

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, store.Put(context.Background(), "new", result))

		store.mu.RLock()
		defer store.mu.RUnlock()
		assert.NotContains(t, store.entries, "old")
		assert.Contains(t, store.entries, "new")
	})
}

// fakeKV records writes so tests can assert the key prefix and TTL without a
// live Redis
type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return nil
}

func TestRedisStore(t *testing.T) {
	result := &models.MatchResult{
		UserSector:    "industrial",
		UserSubsector: "food_processing",
		TotalFound:    2,
		Message:       "Found relevant engineering reference cases",
	}

	t.Run("put and get round trip", func(t *testing.T) {
		kv := newFakeKV()
		store := NewRedisStore(kv, 30*time.Minute)
		require.NoError(t, store.Put(context.Background(), "acme:industrial", result))

		got, err := store.Get(context.Background(), "acme:industrial")
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("keys are prefixed and carry the ttl", func(t *testing.T) {
		kv := newFakeKV()
		store := NewRedisStore(kv, 30*time.Minute)
		require.NoError(t, store.Put(context.Background(), "acme:industrial", result))

		assert.Contains(t, kv.values, "reed:matchctx:acme:industrial")
		assert.Equal(t, 30*time.Minute, kv.ttls["reed:matchctx:acme:industrial"])
	})

	t.Run("missing key", func(t *testing.T) {
		store := NewRedisStore(newFakeKV(), 30*time.Minute)
		_, err := store.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		kv := newFakeKV()
		kv.values["reed:matchctx:bad"] = "{not json"

		store := NewRedisStore(kv, 30*time.Minute)
		_, err := store.Get(context.Background(), "bad")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		kv := newFakeKV()
		store := NewRedisStore(kv, 30*time.Minute)
		require.NoError(t, store.Put(context.Background(), "key", result))
		require.NoError(t, store.Delete(context.Background(), "key"))

		_, err := store.Get(context.Background(), "key")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

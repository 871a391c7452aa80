// Package matchcontext stores recent match results under an explicit caller
// supplied key so a later pipeline step (deviation analysis, proposal
// assembly) can retrieve them without the search call and the consumer
// sharing ambient state. Entries expire; consumers must fetch promptly.
package matchcontext

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/reed/pkg/models"
)

// ErrNotFound is returned when a key is absent or expired
var ErrNotFound = goredis.Nil

// Store is a short-TTL keyed holder for match results
type Store interface {
	Put(ctx context.Context, key string, result *models.MatchResult) error
	Get(ctx context.Context, key string) (*models.MatchResult, error)
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "reed:matchctx:"

// KV is the slice of the Redis client surface the store uses
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore persists match results in Redis with a TTL
type RedisStore struct {
	client KV
	ttl    time.Duration
}

func NewRedisStore(client KV, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, key string, result *models.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, data, s.ttl)
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.MatchResult, error) {
	data, err := s.client.Get(ctx, keyPrefix+key)
	if err != nil {
		return nil, err
	}

	var result models.MatchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key)
}

// MemoryStore is the in-process fallback used when Redis is disabled
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	result    *models.MatchResult
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, result *models.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Opportunistically drop expired entries so the map stays bounded
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = memoryEntry{
		result:    result,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.MatchResult, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.result, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

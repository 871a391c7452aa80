package matching

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ramsey-B/reed/pkg/models"
)

// resultCache memoizes match results keyed by the full user context. The key
// includes the sorted contaminant set so two contexts that differ only in
// detected categories never share an entry.
type resultCache struct {
	cache   map[string]*resultEntry
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
}

type resultEntry struct {
	matches   []models.MatchScore
	expiresAt time.Time
}

// CacheConfig configures the result cache
type CacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize: 128,
		TTL:     5 * time.Minute,
	}
}

func newResultCache(config CacheConfig) *resultCache {
	return &resultCache{
		cache:   make(map[string]*resultEntry),
		maxSize: config.MaxSize,
		ttl:     config.TTL,
	}
}

func resultCacheKey(uc models.UserContext, topN int) string {
	categories := uc.ContaminantList()
	sort.Strings(categories)

	flowPart := "none"
	if uc.Flow != nil {
		flowPart = fmt.Sprintf("%.4f", *uc.Flow)
	}

	return fmt.Sprintf("%s|%s|%s|%s|%d", uc.Sector, uc.Subsector, strings.Join(categories, ","), flowPart, topN)
}

func (c *resultCache) get(key string) ([]models.MatchScore, bool) {
	c.mu.RLock()
	entry, exists := c.cache[key]
	c.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry.matches, true
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

func (c *resultCache) put(key string, matches []models.MatchScore) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict if at capacity (simple LRU - just clear half)
	if len(c.cache) >= c.maxSize {
		c.evictHalf()
	}

	c.cache[key] = &resultEntry{
		matches:   matches,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// evictHalf removes half the cache entries (must be called with lock held)
func (c *resultCache) evictHalf() {
	count := 0
	target := len(c.cache) / 2
	for key := range c.cache {
		delete(c.cache, key)
		count++
		if count >= target {
			break
		}
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	c.cache = make(map[string]*resultEntry)
	c.mu.Unlock()
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

func (c *resultCache) stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Size:   len(c.cache),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

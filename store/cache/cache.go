/*
Package cache provides transient caching of analysis results.

PURPOSE:
  Every analysis is deterministic: identical assumptions always
  produce identical results. That makes the response body cacheable
  by a hash of the request. The API layer uses this to skip
  recomputation for repeated requests (sensitivity sweeps from a UI
  slider, dashboard refreshes).

  Two implementations: Redis for deployments that run one, and an
  in-process map as the default. Cache misses and cache failures are
  both just "compute it again" - the cache is never load-bearing.

SEE ALSO:
  - api/handlers.go: Where results get cached
*/
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores serialized analysis results keyed by request hash.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// =============================================================================
// REDIS
// =============================================================================

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server at addr.
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	// Failures are ignored: a cold cache only costs a recompute.
	r.client.Set(ctx, key, value, ttl)
}

// Close releases the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// =============================================================================
// IN-MEMORY
// =============================================================================

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// defaultMemoryCapacity bounds the in-memory cache for long-running
// processes; analysis responses are a few KB each.
const defaultMemoryCapacity = 4096

// Memory is a process-local Cache. Entries are evicted lazily on Get,
// and a Set at capacity sweeps expired entries before making room.
type Memory struct {
	mu      sync.RWMutex
	max     int
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory cache with the default capacity.
func NewMemory() *Memory {
	return NewMemoryWithCapacity(defaultMemoryCapacity)
}

// NewMemoryWithCapacity creates an in-memory cache holding at most max
// entries.
func NewMemoryWithCapacity(max int) *Memory {
	return &Memory{max: max, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.evictLocked()
	}
	m.entries[key] = e
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictLocked drops every expired entry, then arbitrary entries until a
// quarter of the capacity is free. Caller holds the write lock.
func (m *Memory) evictLocked() {
	now := time.Now()
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	target := m.max * 3 / 4
	for k := range m.entries {
		if len(m.entries) <= target {
			break
		}
		delete(m.entries, k)
	}
}

package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented cache with per-entry TTL. Expired entries stay
// readable through GetStale so callers can serve stale data when the
// upstream source is down.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetStale returns the value even when its TTL has elapsed
	GetStale(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. Entries are kept after expiry to back
// GetStale; memory stays bounded because the reviews cache holds one key.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the value if present and fresh
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrMiss
	}
	return entry.value, nil
}

// GetStale returns the value regardless of freshness
func (c *MemoryCache) GetStale(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return entry.value, nil
}

// Set stores a value with the given TTL
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// RedisCache backs Cache with redis. Staleness is modeled with two keys: the
// fresh key carries the TTL, the stale shadow key lives much longer.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a redis-backed cache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

const staleSuffix = ":stale"

// staleRetention is how long a stale shadow copy remains servable
const staleRetention = 30 * 24 * time.Hour

// Get returns the value if the fresh key is still alive
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// GetStale returns the long-lived shadow copy
func (c *RedisCache) GetStale(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key+staleSuffix).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set writes both the fresh key and its stale shadow
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	pipe.Set(ctx, key+staleSuffix, value, staleRetention)
	_, err := pipe.Exec(ctx)
	return err
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)

package directory

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores serialized catalog responses. Directory data changes
// rarely, so short-TTL caching keeps repeated hospital/doctor lookups off
// the backend.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// RedisCache backs the cache with redis so multiple proxy instances share
// one catalog view.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, ttl time.Duration) *RedisCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisCache{client: c, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte) {
	_ = r.client.Set(ctx, key, val, r.ttl).Err()
}

// MemoryCache is the single-process fallback when no REDIS_ADDR is set.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]memEntry
	ttl   time.Duration
}

type memEntry struct {
	v  []byte
	ts time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: make(map[string]memEntry), ttl: ttl}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(e.ts) > m.ttl {
		m.mu.Lock()
		delete(m.store, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

func (m *MemoryCache) Set(ctx context.Context, key string, val []byte) {
	m.mu.Lock()
	m.store[key] = memEntry{v: val, ts: time.Now()}
	m.mu.Unlock()
}

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Cache stores rendered responses by key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Flush drops every key starting with prefix
	Flush(ctx context.Context, prefix string) error
}

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is a process local LRU cache. Entries past their own ttl are
// dropped on read, and the backing LRU sweeps anything older than maxTTL.
type MemoryCache struct {
	items *expirable.LRU[string, entry]
	now   func() time.Time
}

// NewMemoryCache holds at most size entries, none older than maxTTL
func NewMemoryCache(size int, maxTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		items: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		m.items.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.items.Add(key, entry{value: value, expires: m.now().Add(ttl)})
	return nil
}

func (m *MemoryCache) Flush(_ context.Context, prefix string) error {
	for _, k := range m.items.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.items.Remove(k)
		}
	}
	return nil
}

// Len reports the number of live entries
func (m *MemoryCache) Len() int {
	return m.items.Len()
}

// RedisCache shares cached responses between instances
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the redis url and pings it
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrap(r.client.Set(ctx, key, value, ttl).Err(), "redis set")
}

func (r *RedisCache) Flush(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Wrap(err, "redis del")
		}
	}
	return errors.Wrap(iter.Err(), "redis scan")
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Package memcache is the in-process cache used when Valkey is disabled.
package memcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Cache implements ports.CacheService in memory.
type Cache struct {
	c *gocache.Cache
}

// New creates a cache whose expired entries are purged every cleanup interval.
func New(cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (m *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v.([]byte), nil
}

func (m *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	b := make([]byte, len(value))
	copy(b, value)
	m.c.Set(key, b, time.Duration(ttlSeconds)*time.Second)
	return nil
}

func (m *Cache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Ping always succeeds.
func (m *Cache) Ping(context.Context) error { return nil }

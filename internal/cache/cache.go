// Package cache stores downloaded feed bodies for a short TTL so that a bulk
// request and the per-station retries that follow it share one download
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a byte cache keyed by string
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// item wraps a cached value with its expiration time
type item struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-process Store with TTL expiration
type Memory struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemory creates a cache with the specified TTL. A zero TTL disables caching.
func NewMemory(ttl time.Duration) *Memory {
	c := &Memory{
		items: make(map[string]item),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		go c.cleanup()
	}
	return c
}

// Get retrieves a value, returning (value, true) if found and not expired
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Set stores a value with the cache's TTL
func (c *Memory) Set(_ context.Context, key string, value []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Size returns the number of items (including expired)
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background cleanup goroutine
func (c *Memory) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup runs periodically to remove expired items
func (c *Memory) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Memory) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, key)
		}
	}
}

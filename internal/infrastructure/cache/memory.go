package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/analoghub/backend/internal/domain"
)

// cleanupInterval is how often expired entries are purged
const cleanupInterval = 10 * time.Minute

// entry is a JSON-normalized value with its expiry
type entry struct {
	value     interface{}
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache is a process-local domain.CacheRepository with TTL support.
// Values go through a JSON round trip so callers observe the same shapes
// the redis cache returns.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]entry
	stop chan struct{}
	once sync.Once
}

// NewMemoryCache creates a cache and starts its expiry loop
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}
	go c.purgeLoop()
	return c
}

// Get returns the live value stored at key or ErrCacheMiss
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value at key for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: normalized, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Exists reports whether key holds a live value
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	return ok && !e.expired(time.Now()), nil
}

// Len returns the number of stored entries, expired ones included until purged
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Close stops the expiry loop
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) purgeLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.purge(now)
		}
	}
}

func (c *MemoryCache) purge(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
		}
	}
}

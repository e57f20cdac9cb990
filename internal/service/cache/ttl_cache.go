package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	data      []byte
	expiresAt time.Time
}

// TTLCache is the single-process BytesCache used when no Redis address is
// configured. Expired entries are dropped lazily on read.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]ttlEntry)}
}

func (c *TTLCache) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *TTLCache) Set(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = ttlEntry{data: value, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

var _ BytesCache = (*TTLCache)(nil)

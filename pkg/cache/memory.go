package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const memoryDefaultTTL = 7 * 24 * time.Hour

type memoryItem struct {
	value      interface{}
	expiresAt  time.Time
	lastAccess time.Time
}

func (it *memoryItem) expired() bool { return time.Now().After(it.expiresAt) }

// MemoryCache implements Service in process memory with LRU eviction once
// maxSize is reached. Pattern deletion clears everything; the in-memory
// store has no key scan.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*memoryItem
	maxSize int
	ticker  *time.Ticker
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{MaxSize: 1000, CleanupInterval: 5 * time.Minute}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		items:   make(map[string]*memoryItem),
		maxSize: cfg.MaxSize,
		ticker:  time.NewTicker(cfg.CleanupInterval),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = memoryDefaultTTL
	}
	now := time.Now()

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if len(mc.items) >= mc.maxSize {
		mc.evictOldest()
	}
	mc.items[key] = &memoryItem{value: value, expiresAt: now.Add(expiration), lastAccess: now}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.items[key]
	if !ok || it.expired() {
		delete(mc.items, key)
		return ErrCacheMiss
	}
	it.lastAccess = time.Now()
	return assign(it.value, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, k := range keys {
		delete(mc.items, k)
	}
	return nil
}

func (mc *MemoryCache) DeleteByPattern(_ context.Context, _ string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.items = make(map[string]*memoryItem)
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, k := range keys {
		if it, ok := mc.items[k]; ok && !it.expired() {
			return true, nil
		}
	}
	return false, nil
}

func (mc *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	it, ok := mc.items[key]
	if !ok || it.expired() {
		mc.items[key] = &memoryItem{value: int64(1), expiresAt: time.Now().Add(memoryDefaultTTL), lastAccess: time.Now()}
		return 1, nil
	}
	n, ok := it.value.(int64)
	if !ok {
		return 0, fmt.Errorf("cache: %q is not a counter", key)
	}
	it.value = n + 1
	return n + 1, nil
}

func (mc *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if it, ok := mc.items[key]; ok {
		it.expiresAt = time.Now().Add(expiration)
		return true, nil
	}
	return false, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if it, ok := mc.items[key]; ok && !it.expired() {
		return false, nil
	}
	mc.items[key] = &memoryItem{value: "locked", expiresAt: time.Now().Add(ttl), lastAccess: time.Now()}
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

// Close stops the background sweep.
func (mc *MemoryCache) Close() error {
	mc.ticker.Stop()
	return nil
}

func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, it := range mc.items {
		if oldestKey == "" || it.lastAccess.Before(oldest) {
			oldestKey = k
			oldest = it.lastAccess
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.ticker.C {
		mc.mu.Lock()
		for k, it := range mc.items {
			if it.expired() {
				delete(mc.items, k)
			}
		}
		mc.mu.Unlock()
	}
}

// assign copies a stored value into dest, round-tripping through JSON when
// the types do not match directly.
func assign(value, dest interface{}) error {
	switch d := dest.(type) {
	case *string:
		if s, ok := value.(string); ok {
			*d = s
			return nil
		}
	case *interface{}:
		*d = value
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

var _ Service = (*MemoryCache)(nil)

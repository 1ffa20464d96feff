package cache

import (
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value     interface{}
	expiresAt time.Time
}

func (it memoryItem) expired() bool {
	return !it.expiresAt.IsZero() && time.Now().After(it.expiresAt)
}

// MemoryCache is the in-process L1. Expired entries are dropped lazily on
// read; there is no background sweeper.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
	}
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}
	if item.expired() {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePattern supports the trailing-star patterns the services use
// (e.g. "user_tasks:<id>:*"); anything else is treated as an exact key.
func (c *MemoryCache) DeletePattern(pattern string) {
	prefix, ok := strings.CutSuffix(pattern, "*")
	if !ok {
		c.Delete(pattern)
		return
	}

	c.mu.Lock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"entries": len(c.items),
	}
}

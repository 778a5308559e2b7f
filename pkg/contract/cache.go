package contract

import "sync"

// Cache stores loaded contracts keyed by namespaced module key. The default
// loader policy reloads the validation unit on every call, matching the
// always-fresh behaviour templates rely on for live edits; callers that
// prefer process-lifetime caching inject a Cache via WithCache.
//
// The cache is append-only for the process lifetime: there is no eviction.
// Tests construct a fresh Cache per run to avoid cross-test leakage.
type Cache interface {
	Get(key string) (Contract, bool)
	Put(key string, c Contract)
}

// MemoryCache is the standard in-process Cache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Contract
}

// NewCache creates an empty MemoryCache.
func NewCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Contract)}
}

// Get retrieves a cached contract.
func (c *MemoryCache) Get(key string) (Contract, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores a contract. Concurrent loads of the same template may race
// here; last write wins, which is safe because contract loading is
// idempotent.
func (c *MemoryCache) Put(key string, contract Contract) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = contract
}

// Len reports the number of cached contracts.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

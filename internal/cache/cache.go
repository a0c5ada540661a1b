package cache

import (
	"sync"
	"time"
)

// Cache is a bounded key→Entry map guarded by a single exclusive lock. Get
// is included under the same lock as Set/Remove because a hit mutates
// access metadata — there is no reader-parallel fast path (see §5 of the
// design notes this repo was built from). Values are cloned out before the
// lock is released so the lock is never held across network I/O.
type Cache struct {
	mu       sync.Mutex
	capacity int
	policy   Policy
	entries  map[string]Entry
	now      func() uint64
}

// New constructs a Cache with the given capacity and eviction policy.
// capacity must be a positive integer; it is enforced by the caller
// (internal/config.Config.Validate).
func New(capacity int, policy Policy) *Cache {
	return &Cache{
		capacity: capacity,
		policy:   policy,
		entries:  make(map[string]Entry, capacity),
		now:      unixNow,
	}
}

func unixNow() uint64 {
	return uint64(time.Now().Unix())
}

// Set inserts or updates key with incoming. If key already exists, its
// value and AccessedAt are overwritten and incoming.AccessCount is added to
// (not replacing) the stored AccessCount. Otherwise, if the table is full,
// the policy selects a victim which is removed before incoming is inserted;
// a policy error aborts the set without changing cache state. evicted
// reports whether an eviction occurred and, if so, which key was evicted.
func (c *Cache) Set(key string, incoming Entry) (evicted bool, evictedKey string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.Value = incoming.Value
		existing.AccessedAt = incoming.AccessedAt
		existing.AccessCount += incoming.AccessCount
		c.entries[key] = existing
		return false, "", nil
	}

	if len(c.entries) >= c.capacity {
		victim, selectErr := c.policy.SelectVictim(c.entries, c.capacity, c.now())
		if selectErr != nil {
			return false, "", selectErr
		}
		delete(c.entries, victim)
		c.entries[key] = incoming
		return true, victim, nil
	}

	c.entries[key] = incoming
	return false, "", nil
}

// Get returns a cloned copy of key's value and true, incrementing
// AccessCount by one and refreshing AccessedAt to the current time. It
// returns (nil, false) on a miss. Never evicts.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry.AccessCount++
	entry.AccessedAt = c.now()
	c.entries[key] = entry

	return entry.cloneValue(), true
}

// Remove deletes key if present, reporting whether it existed.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Len returns the current number of entries held in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the cache's fixed maximum entry count.
func (c *Cache) Capacity() int {
	return c.capacity
}

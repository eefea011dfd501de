// Package cache holds query results per console session, keyed the way the
// views ask for them ("orders/assembly/3", "shifts", ...). Mutations
// invalidate matching prefixes and force a refetch; entries are never
// patched in place.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]map[string]entry),
	}
}

func (c *Cache) Get(sessionID, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys, ok := c.entries[sessionID]
	if !ok {
		return nil, false
	}
	e, ok := keys[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(sessionID, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, ok := c.entries[sessionID]
	if !ok {
		keys = make(map[string]entry)
		c.entries[sessionID] = keys
	}
	keys[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops every entry of the session whose key starts with one of
// the prefixes.
func (c *Cache) Invalidate(sessionID string, prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, ok := c.entries[sessionID]
	if !ok {
		return
	}
	for key := range keys {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(keys, key)
				break
			}
		}
	}
}

// DropSession removes everything cached for one session (logout).
func (c *Cache) DropSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
}

// StartJanitor sweeps expired entries until ctx is done.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(time.Now())
			}
		}
	}()
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sessionID, keys := range c.entries {
		for key, e := range keys {
			if now.After(e.expiresAt) {
				delete(keys, key)
			}
		}
		if len(keys) == 0 {
			delete(c.entries, sessionID)
		}
	}
}

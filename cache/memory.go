// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCacheOptionFunc is a function that modifies MemoryCache config
type MemoryCacheOptionFunc func(*MemoryCache)

// WithNowFunc specifies the clock used for entry expiry, for tests
func WithNowFunc(now func() time.Time) MemoryCacheOptionFunc {
	return func(c *MemoryCache) {
		c.now = now
	}
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a process-local ResolutionCache. Expired entries are
// dropped lazily on read
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache
func NewMemoryCache(options ...MemoryCacheOptionFunc) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Get returns the cached value and whether a live entry exists
func (c *MemoryCache) Get(
	ctx context.Context,
	key string,
) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Put stores a value with the given TTL
func (c *MemoryCache) Put(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{value: value}
	if ttl != 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes an entry
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

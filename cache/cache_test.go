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

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/govdr/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	now := time.Now()
	c := cache.NewMemoryCache(
		cache.WithNowFunc(func() time.Time { return now }),
	)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "did-1", "ledger-a", time.Minute))
	value, ok, err := c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ledger-a", value)
	// Missing key
	_, ok, err = c.Get(ctx, "did-2")
	require.NoError(t, err)
	assert.False(t, ok)
	// Advance past the TTL
	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheNoTTL(t *testing.T) {
	now := time.Now()
	c := cache.NewMemoryCache(
		cache.WithNowFunc(func() time.Time { return now }),
	)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "did-1", "ledger-a", 0))
	now = now.Add(24 * time.Hour)
	value, ok, err := c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ledger-a", value)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "did-1", "ledger-a", time.Minute))
	require.NoError(t, c.Delete(ctx, "did-1"))
	_, ok, err := c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.False(t, ok)
	// Deleting a missing key is not an error
	require.NoError(t, c.Delete(ctx, "did-1"))
}

func TestLevelDBCache(t *testing.T) {
	c, err := cache.NewLevelDBCache(t.TempDir() + "/cache")
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "did-1", "ledger-a", time.Hour))
	value, ok, err := c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ledger-a", value)
	_, ok, err = c.Get(ctx, "did-2")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Delete(ctx, "did-1"))
	_, ok, err = c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLevelDBCacheExpiry(t *testing.T) {
	c, err := cache.NewLevelDBCache(t.TempDir() + "/cache")
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()
	// A TTL that has effectively already elapsed
	require.NoError(t, c.Put(ctx, "did-1", "ledger-a", -time.Hour))
	_, ok, err := c.Get(ctx, "did-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

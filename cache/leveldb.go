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
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/syndtr/goleveldb/leveldb"
)

type levelDBEntry struct {
	Value     string `cbor:"value"`
	ExpiresAt int64  `cbor:"expiresAt,omitempty"`
}

// LevelDBCache is a persistent ResolutionCache backed by a LevelDB database.
// Entries are CBOR-encoded with their absolute expiry; expired entries are
// deleted on read
type LevelDBCache struct {
	db  *leveldb.DB
	now func() time.Time
}

// NewLevelDBCache opens (creating if needed) a LevelDB database at the given
// path
func NewLevelDBCache(path string) (*LevelDBCache, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	return &LevelDBCache{
		db:  db,
		now: time.Now,
	}, nil
}

// Get returns the cached value and whether a live entry exists
func (c *LevelDBCache) Get(
	ctx context.Context,
	key string,
) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := c.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}
	var entry levelDBEntry
	if err := cbor.Unmarshal(data, &entry); err != nil {
		return "", false, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.ExpiresAt > 0 && c.now().Unix() >= entry.ExpiresAt {
		// Best effort expiry; a failed delete only delays the next miss
		_ = c.db.Delete([]byte(key), nil)
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Put stores a value with the given TTL
func (c *LevelDBCache) Put(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := levelDBEntry{Value: value}
	if ttl != 0 {
		entry.ExpiresAt = c.now().Add(ttl).Unix()
	}
	data, err := cbor.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := c.db.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry
func (c *LevelDBCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (c *LevelDBCache) Close() error {
	return c.db.Close()
}

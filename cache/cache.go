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

// Package cache defines the resolution cache used to remember which ledger
// a DID was last resolved on, with in-memory and on-disk implementations
package cache

import (
	"context"
	"time"
)

// ResolutionCache is a TTL key/value store mapping a DID to the id of the
// ledger it was last resolved on. Implementations must be safe for
// concurrent use
type ResolutionCache interface {
	// Get returns the cached value and whether a live entry exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Put stores a value with the given TTL. A zero TTL stores the entry
	// without expiry
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete removes an entry; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

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

package govdr

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/govdr/cache"
	"github.com/blinklabs-io/govdr/pool"
	"github.com/blinklabs-io/govdr/stateproof"
)

// MultiLedgerManagerOptionFunc is a function that modifies
// MultiLedgerManager config
type MultiLedgerManagerOptionFunc func(*MultiLedgerManager)

// WithLogger specifies the logger to use. If none is provided,
// slog.Default() is used
func WithLogger(logger *slog.Logger) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.logger = logger
	}
}

// WithCache specifies the resolution cache. Without a cache, every lookup
// fans out to the ledgers
func WithCache(c cache.ResolutionCache) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.cache = c
	}
}

// WithCacheTTL specifies the lifetime of resolution cache entries
func WithCacheTTL(ttl time.Duration) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.cacheTTL = ttl
	}
}

// WithLookupTimeout specifies the per-ledger timeout for lookup tasks
func WithLookupTimeout(timeout time.Duration) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.lookupTimeout = timeout
	}
}

// WithLookupWorkers specifies how many per-ledger lookup tasks run
// concurrently
func WithLookupWorkers(workers int) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		if workers > 0 {
			m.lookupWorkers = workers
		}
	}
}

// WithVerifier specifies the state proof verifier to use
func WithVerifier(verifier *stateproof.Verifier) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.verifier = verifier
	}
}

// WithGenesisDir specifies the base directory searched for per-pool genesis
// transactions at the well-known path
func WithGenesisDir(dir string) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.genesisDir = dir
	}
}

// WithTransportFactory specifies the transport factory handed to every pool
// the manager creates. The default dials the network's nodes over TCP
func WithTransportFactory(
	factory pool.TransportFactory,
) MultiLedgerManagerOptionFunc {
	return func(m *MultiLedgerManager) {
		m.transportFactory = factory
	}
}

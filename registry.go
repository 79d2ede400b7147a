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
	"sync"
	"time"

	"github.com/blinklabs-io/govdr/pool"
)

// LedgerConfig is one entry of the configuration surface passed wholesale to
// UpdateLedgerConfig
type LedgerConfig struct {
	ID                  string `toml:"id" json:"id"`
	PoolName            string `toml:"pool_name" json:"pool_name"`
	IsProduction        bool   `toml:"is_production" json:"is_production"`
	IsWrite             bool   `toml:"is_write" json:"is_write"`
	GenesisTransactions string `toml:"genesis_transactions" json:"genesis_transactions"`
	GenesisPath         string `toml:"genesis_path" json:"genesis_path"`
	// Keepalive is in seconds; zero closes the pool connection as soon as
	// its last reference is released
	Keepalive     int    `toml:"keepalive" json:"keepalive"`
	ReadOnly      bool   `toml:"read_only" json:"read_only"`
	SocksProxy    string `toml:"socks_proxy" json:"socks_proxy"`
	EndorserDID   string `toml:"endorser_did" json:"endorser_did"`
	EndorserAlias string `toml:"endorser_alias" json:"endorser_alias"`
}

// LedgerDescriptor is the immutable identity of a configured ledger, bound
// to its pool. Descriptors are superseded, never mutated, when the registry
// is rebuilt
type LedgerDescriptor struct {
	ID            string
	Pool          *pool.LedgerPool
	IsProduction  bool
	IsWrite       bool
	EndorserDID   string
	EndorserAlias string
	// index is the ledger's position in the configured order, the
	// tie-break key during arbitration
	index int
}

// ledgerRegistry holds the configured ledgers partitioned into production
// and non-production classes, in configured order. It is replaced wholesale
// on reconfiguration; in-flight lookups keep references to the descriptors
// that were live when they started
type ledgerRegistry struct {
	mu            sync.RWMutex
	ordered       []*LedgerDescriptor
	production    []*LedgerDescriptor
	nonProduction []*LedgerDescriptor
	byID          map[string]*LedgerDescriptor
	writeLedgerID string
}

func newLedgerRegistry() *ledgerRegistry {
	return &ledgerRegistry{
		byID: make(map[string]*LedgerDescriptor),
	}
}

// replace swaps in a new set of descriptors. The write ledger id is retained
// if it still exists, otherwise reset to the given default
func (r *ledgerRegistry) replace(
	descriptors []*LedgerDescriptor,
	writeLedgerID string,
) {
	byID := make(map[string]*LedgerDescriptor, len(descriptors))
	var production, nonProduction []*LedgerDescriptor
	for _, desc := range descriptors {
		byID[desc.ID] = desc
		if desc.IsProduction {
			production = append(production, desc)
		} else {
			nonProduction = append(nonProduction, desc)
		}
	}
	r.mu.Lock()
	r.ordered = descriptors
	r.production = production
	r.nonProduction = nonProduction
	r.byID = byID
	r.writeLedgerID = writeLedgerID
	r.mu.Unlock()
}

// snapshot returns the full descriptor list in configured order. The slice
// is never mutated after replace, so callers can iterate without holding
// the registry lock
func (r *ledgerRegistry) snapshot() []*LedgerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ordered
}

func (r *ledgerRegistry) get(id string) *LedgerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

func (r *ledgerRegistry) counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.production), len(r.nonProduction)
}

// writeLedger resolves the designated write ledger: the explicitly set id if
// any, else the first production ledger in configured order, else the first
// non-production ledger
func (r *ledgerRegistry) writeLedger() *LedgerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.writeLedgerID != "" {
		if desc, ok := r.byID[r.writeLedgerID]; ok {
			return desc
		}
	}
	if len(r.production) > 0 {
		return r.production[0]
	}
	if len(r.nonProduction) > 0 {
		return r.nonProduction[0]
	}
	return nil
}

func (r *ledgerRegistry) currentWriteLedgerID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writeLedgerID
}

func (r *ledgerRegistry) setWriteLedger(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return &NotFoundError{ID: id}
	}
	r.writeLedgerID = id
	return nil
}

// poolConfig translates a ledger config entry into the pool configuration
// it implies
func (c LedgerConfig) poolConfig() pool.Config {
	return pool.Config{
		Name:                c.PoolName,
		Keepalive:           time.Duration(c.Keepalive) * time.Second,
		ReadOnly:            c.ReadOnly,
		GenesisTransactions: c.GenesisTransactions,
		GenesisPath:         c.GenesisPath,
		SocksProxy:          c.SocksProxy,
	}
}

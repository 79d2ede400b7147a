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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/govdr/cache"
	"github.com/blinklabs-io/govdr/did"
	"github.com/blinklabs-io/govdr/pool"
	"github.com/blinklabs-io/govdr/stateproof"
	"github.com/jinzhu/copier"
)

const (
	// DefaultLookupTimeout bounds each per-ledger lookup task
	DefaultLookupTimeout = 10 * time.Second
	// DefaultLookupWorkers is the number of per-ledger lookup tasks run
	// concurrently
	DefaultLookupWorkers = 5
	// DefaultCacheTTL bounds resolution cache entries
	DefaultCacheTTL = 10 * time.Minute

	cacheKeyPrefix = "govdr::did_ledger::"
)

// DIDLookupResult is one ledger's verified answer for a DID
type DIDLookupResult struct {
	LedgerID      string
	Pool          *pool.LedgerPool
	SelfCertified bool
	SeqNo         uint64
}

// MultiLedgerManager resolves DIDs and ledger object identifiers across all
// configured ledger networks. Lookups fan out to every ledger concurrently,
// verify each answer against the ledger's own state root, and arbitrate
// among the verified answers by ledger class and configured order
type MultiLedgerManager struct {
	logger           *slog.Logger
	cache            cache.ResolutionCache
	cacheTTL         time.Duration
	lookupTimeout    time.Duration
	lookupWorkers    int
	verifier         *stateproof.Verifier
	genesisDir       string
	transportFactory pool.TransportFactory

	registry *ledgerRegistry

	// pools maps pool name to pool, so reconfiguration can hand an
	// existing pool to a new descriptor instead of reopening
	poolsMu sync.Mutex
	pools   map[string]*pool.LedgerPool
}

// NewMultiLedgerManager returns a manager with no configured ledgers. Call
// UpdateLedgerConfig to populate it
func NewMultiLedgerManager(
	options ...MultiLedgerManagerOptionFunc,
) *MultiLedgerManager {
	m := &MultiLedgerManager{
		cacheTTL:      DefaultCacheTTL,
		lookupTimeout: DefaultLookupTimeout,
		lookupWorkers: DefaultLookupWorkers,
		registry:      newLedgerRegistry(),
		pools:         make(map[string]*pool.LedgerPool),
	}
	for _, option := range options {
		option(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.verifier == nil {
		m.verifier = stateproof.NewVerifier(
			stateproof.WithLogger(m.logger),
		)
	}
	return m
}

// UpdateLedgerConfig rebuilds the registry from the given config list. This
// is a full replace, not an incremental merge: ledgers absent from the new
// list disappear from the registry. Pools whose name persists across the
// reconfiguration are reused without reopening. Pools dropped from the
// config are deliberately not closed here; their connections drain through
// reference counting and keepalive like any other
func (m *MultiLedgerManager) UpdateLedgerConfig(configs []LedgerConfig) error {
	// Snapshot the caller's configs so later mutation of the slice can't
	// reach the descriptors
	var cfgs []LedgerConfig
	if err := copier.CopyWithOption(
		&cfgs,
		&configs,
		copier.Option{DeepCopy: true},
	); err != nil {
		return fmt.Errorf("copying ledger configs: %w", err)
	}
	seen := make(map[string]bool, len(cfgs))
	writeLedgerID := ""
	for i := range cfgs {
		cfg := &cfgs[i]
		if cfg.ID == "" {
			return fmt.Errorf("ledger config %d has no id", i)
		}
		if seen[cfg.ID] {
			return fmt.Errorf("duplicate ledger id %s", cfg.ID)
		}
		seen[cfg.ID] = true
		if cfg.PoolName == "" {
			cfg.PoolName = cfg.ID
		}
		if cfg.IsWrite {
			if cfg.ReadOnly {
				return fmt.Errorf(
					"ledger %s is both write and read-only",
					cfg.ID,
				)
			}
			if writeLedgerID != "" {
				return fmt.Errorf(
					"multiple write ledgers configured: %s and %s",
					writeLedgerID,
					cfg.ID,
				)
			}
			writeLedgerID = cfg.ID
		}
	}
	if writeLedgerID == "" {
		// Retain a previously set write ledger if it survives the
		// reconfiguration
		if prevID := m.registry.currentWriteLedgerID(); seen[prevID] {
			writeLedgerID = prevID
		}
	}
	m.poolsMu.Lock()
	newPools := make(map[string]*pool.LedgerPool, len(cfgs))
	descriptors := make([]*LedgerDescriptor, 0, len(cfgs))
	for i, cfg := range cfgs {
		p, ok := m.pools[cfg.PoolName]
		if !ok {
			poolCfg := cfg.poolConfig()
			poolCfg.Cache = m.cache
			poolCfg.CacheTTL = m.cacheTTL
			poolOpts := []pool.LedgerPoolOptionFunc{
				pool.WithLogger(m.logger),
				pool.WithGenesisDir(m.genesisDir),
			}
			if m.transportFactory != nil {
				poolOpts = append(
					poolOpts,
					pool.WithTransportFactory(m.transportFactory),
				)
			}
			p = pool.New(poolCfg, poolOpts...)
		}
		newPools[cfg.PoolName] = p
		descriptors = append(descriptors, &LedgerDescriptor{
			ID:            cfg.ID,
			Pool:          p,
			IsProduction:  cfg.IsProduction,
			IsWrite:       cfg.ID == writeLedgerID,
			EndorserDID:   cfg.EndorserDID,
			EndorserAlias: cfg.EndorserAlias,
			index:         i,
		})
	}
	m.pools = newPools
	m.poolsMu.Unlock()
	m.registry.replace(descriptors, writeLedgerID)
	m.logger.Debug(
		"ledger registry rebuilt",
		"component", "manager",
		"ledgers", len(descriptors),
		"write_ledger", writeLedgerID,
	)
	return nil
}

// GetWriteLedger returns the ledger designated to receive write
// transactions: the explicitly set write ledger, else the first production
// ledger in configured order, else the first non-production ledger
func (m *MultiLedgerManager) GetWriteLedger() (string, *pool.LedgerPool, error) {
	desc := m.registry.writeLedger()
	if desc == nil {
		return "", nil, ErrNoLedgerConfigured
	}
	return desc.ID, desc.Pool, nil
}

// SetWriteLedger designates the ledger with the given id as the write
// ledger. The id must exist in the registry
func (m *MultiLedgerManager) SetWriteLedger(id string) error {
	return m.registry.setWriteLedger(id)
}

// GetLedgerByID returns the pool for the given ledger id without any
// network activity
func (m *MultiLedgerManager) GetLedgerByID(id string) (*pool.LedgerPool, error) {
	desc := m.registry.get(id)
	if desc == nil {
		return nil, &NotFoundError{ID: id}
	}
	return desc.Pool, nil
}

// ExtractDIDFromIdentifier normalizes a ledger object identifier (schema
// id, credential definition id, revocation registry id, or qualified DID)
// to its bare DID
func (m *MultiLedgerManager) ExtractDIDFromIdentifier(identifier string) string {
	return did.ExtractDIDFromIdentifier(identifier)
}

// LookupDID resolves a DID to the one ledger on which it is verifiably
// registered. With useCache, a previously resolved ledger id is returned
// without network activity, provided it still exists in the registry; a
// cached id that is no longer configured fails with CacheInconsistencyError.
// On a miss, the lookup fans out to every configured ledger, waits for all
// of them, and arbitrates the verified answers: production ledgers beat
// non-production, self-certified answers beat non-self-certified, and
// configured order breaks remaining ties
func (m *MultiLedgerManager) LookupDID(
	ctx context.Context,
	didValue string,
	useCache bool,
) (string, *pool.LedgerPool, error) {
	nym := did.ExtractDIDFromIdentifier(didValue)
	if nym == "" {
		return "", nil, fmt.Errorf("invalid DID: %s", didValue)
	}
	return m.lookupDID(ctx, nym, useCache, 0)
}

func (m *MultiLedgerManager) lookupDID(
	ctx context.Context,
	nym string,
	useCache bool,
	minSeqNo uint64,
) (string, *pool.LedgerPool, error) {
	useCache = useCache && m.cache != nil
	if useCache {
		ledgerID, ok, err := m.cache.Get(ctx, cacheKeyPrefix+nym)
		if err != nil {
			m.logger.Warn(
				"resolution cache read failed",
				"component", "manager",
				"did", nym,
				"error", err,
			)
		} else if ok {
			if desc := m.registry.get(ledgerID); desc != nil {
				return desc.ID, desc.Pool, nil
			}
			return "", nil, &CacheInconsistencyError{
				DID:      nym,
				LedgerID: ledgerID,
			}
		}
	}
	descriptors := m.registry.snapshot()
	if len(descriptors) == 0 {
		return "", nil, ErrNoLedgerConfigured
	}
	// Fan out one task per ledger through a bounded worker pool, and wait
	// for every task to settle. No early exit on the first hit: priority
	// must be evaluated over the complete result set to stay deterministic
	// under latency skew
	results := make([]*DIDLookupResult, len(descriptors))
	sem := make(chan struct{}, m.lookupWorkers)
	var wg sync.WaitGroup
	for i, desc := range descriptors {
		wg.Add(1)
		go func(i int, desc *LedgerDescriptor) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			results[i] = m.lookupOnLedger(ctx, desc, nym)
		}(i, desc)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	winner := m.arbitrate(descriptors, results, minSeqNo)
	if winner == nil {
		production, nonProduction := m.registry.counts()
		return "", nil, &DIDNotFoundError{
			DID:           nym,
			Production:    production,
			NonProduction: nonProduction,
		}
	}
	if useCache {
		err := m.cache.Put(
			ctx,
			cacheKeyPrefix+nym,
			winner.LedgerID,
			m.cacheTTL,
		)
		if err != nil {
			m.logger.Warn(
				"resolution cache write failed",
				"component", "manager",
				"did", nym,
				"error", err,
			)
		}
	}
	return winner.LedgerID, winner.Pool, nil
}

// lookupOnLedger runs one ledger's lookup task: acquire the pool, issue the
// read, verify the proof, classify the answer. Every failure mode (timeout,
// transport error, missing record, failed proof) is a nil result, never an
// error: a single ledger having no verifiable answer must not fail the
// overall lookup
func (m *MultiLedgerManager) lookupOnLedger(
	ctx context.Context,
	desc *LedgerDescriptor,
	nym string,
) *DIDLookupResult {
	taskCtx, cancel := context.WithTimeout(ctx, m.lookupTimeout)
	defer cancel()
	release, err := desc.Pool.Acquire(taskCtx)
	if err != nil {
		m.logger.Warn(
			"could not acquire ledger pool",
			"component", "manager",
			"ledger", desc.ID,
			"did", nym,
			"error", err,
		)
		return nil
	}
	defer release()
	reply, err := desc.Pool.Handle().GetNym(taskCtx, nil, nym)
	if err != nil {
		m.logger.Warn(
			"ledger read failed",
			"component", "manager",
			"ledger", desc.ID,
			"did", nym,
			"error", err,
		)
		return nil
	}
	if reply.NotFound() {
		m.logger.Debug(
			"DID not present on ledger",
			"component", "manager",
			"ledger", desc.ID,
			"did", nym,
		)
		return nil
	}
	if !m.verifier.VerifyReply(reply) {
		m.logger.Warn(
			"state proof verification failed",
			"component", "manager",
			"ledger", desc.ID,
			"did", nym,
		)
		return nil
	}
	nymData, err := reply.NymData()
	if err != nil {
		m.logger.Warn(
			"could not decode nym data",
			"component", "manager",
			"ledger", desc.ID,
			"did", nym,
			"error", err,
		)
		return nil
	}
	return &DIDLookupResult{
		LedgerID:      desc.ID,
		Pool:          desc.Pool,
		SelfCertified: did.IsSelfCertified(nym, nymData.Verkey),
		SeqNo:         reply.Result.SeqNo,
	}
}

// arbitrate selects the winner among the per-ledger results using strict
// priority: production+self-certified, then non-production+self-certified,
// then production, then non-production. Within a class, configured order
// wins. Results below minSeqNo are ignored
func (m *MultiLedgerManager) arbitrate(
	descriptors []*LedgerDescriptor,
	results []*DIDLookupResult,
	minSeqNo uint64,
) *DIDLookupResult {
	var buckets [4]*DIDLookupResult
	for i, result := range results {
		if result == nil {
			continue
		}
		if minSeqNo > 0 && result.SeqNo < minSeqNo {
			continue
		}
		var bucket int
		switch {
		case descriptors[i].IsProduction && result.SelfCertified:
			bucket = 0
		case !descriptors[i].IsProduction && result.SelfCertified:
			bucket = 1
		case descriptors[i].IsProduction:
			bucket = 2
		default:
			bucket = 3
		}
		// Results arrive in configured order, so the first hit in a
		// bucket is the tie-break winner
		if buckets[bucket] == nil {
			buckets[bucket] = result
		}
	}
	for _, result := range buckets {
		if result != nil {
			return result
		}
	}
	return nil
}

// GetLedgerForIdentifier resolves the ledger holding the object named by a
// schema id, credential definition id, revocation registry id, or DID. When
// minSeqNo is non-zero the cache is bypassed and only ledgers whose record
// is at least that old in their transaction log are considered
func (m *MultiLedgerManager) GetLedgerForIdentifier(
	ctx context.Context,
	identifier string,
	minSeqNo uint64,
) (string, *pool.LedgerPool, error) {
	nym := did.ExtractDIDFromIdentifier(identifier)
	if nym == "" {
		return "", nil, fmt.Errorf("invalid identifier: %s", identifier)
	}
	return m.lookupDID(ctx, nym, minSeqNo == 0, minSeqNo)
}

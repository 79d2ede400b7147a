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

// Package pool manages the connection to a single ledger network: lazily
// opened, reference counted, and kept alive for a configurable period after
// the last reference is released so bursty access doesn't pay the connection
// setup cost every time
package pool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/govdr/cache"
	"github.com/blinklabs-io/govdr/client"
)

const (
	closeAttempts   = 3
	closeRetryDelay = 10 * time.Millisecond
)

// Config holds the immutable configuration for a LedgerPool
type Config struct {
	// Name identifies the pool and keys its well-known genesis path
	Name string
	// Keepalive is how long the connection stays open after the last
	// reference is released. Zero closes synchronously on release
	Keepalive time.Duration
	// ReadOnly marks the pool as unusable for write transactions
	ReadOnly bool
	// GenesisTransactions is an inline blob of newline-delimited genesis
	// transactions. When empty, GenesisPath (or the well-known per-pool
	// path) is read lazily on Open
	GenesisTransactions string
	// GenesisPath is an explicit path to a genesis transaction file
	GenesisPath string
	// SocksProxy, when set, routes node connections through a SOCKS5 proxy
	SocksProxy string
	// Cache is the shared resolution cache, may be nil
	Cache cache.ResolutionCache
	// CacheTTL bounds the lifetime of cache entries written for this pool
	CacheTTL time.Duration
}

// TransportFactory creates the transport used to reach the network's nodes.
// It exists so tests can substitute a scripted transport
type TransportFactory func(addrs []string, socksProxy string) (client.Transport, error)

func defaultTransportFactory(
	addrs []string,
	socksProxy string,
) (client.Transport, error) {
	var options []client.TCPTransportOptionFunc
	if socksProxy != "" {
		options = append(options, client.WithSocksProxy(socksProxy))
	}
	return client.NewTCPTransport(addrs, options...)
}

// LedgerPool owns the connection to one ledger network. The connection is
// opened on first Acquire and closed once the reference count returns to
// zero, either synchronously or after the configured keepalive.
//
// The handle is non-nil exactly when the pool is opened. The pool may remain
// opened with zero references while a deferred close is pending; a new
// Acquire during that window cancels the close and reuses the handle
type LedgerPool struct {
	config       Config
	logger       *slog.Logger
	genesisDir   string
	newTransport TransportFactory

	mu         sync.Mutex
	opened     bool
	handle     *client.Client
	refCount   int
	closeTimer *time.Timer
	timerGen   uint64
}

// New returns a LedgerPool for the given config. The connection is not
// opened until Open or the first Acquire
func New(cfg Config, options ...LedgerPoolOptionFunc) *LedgerPool {
	p := &LedgerPool{
		config:       cfg,
		newTransport: defaultTransportFactory,
	}
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Name returns the pool name
func (p *LedgerPool) Name() string {
	return p.config.Name
}

// Config returns the pool's immutable configuration
func (p *LedgerPool) Config() Config {
	return p.config
}

// Opened reports whether the underlying connection is currently open
func (p *LedgerPool) Opened() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened
}

// RefCount returns the current number of outstanding references
func (p *LedgerPool) RefCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refCount
}

// Handle returns the client for the pool's ledger network. It is only valid
// between a successful Acquire and the matching release
func (p *LedgerPool) Handle() *client.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Open establishes the underlying connection. It is a no-op when the pool is
// already open. Missing genesis configuration fails with a ConfigError
// before any network activity; dial failures fail with an OpenError and are
// not retried internally
func (p *LedgerPool) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.openLocked()
}

func (p *LedgerPool) openLocked() error {
	if p.opened {
		return nil
	}
	blob, err := p.loadGenesis()
	if err != nil {
		return &ConfigError{
			Pool:   p.config.Name,
			Reason: "genesis transactions unavailable",
			Err:    err,
		}
	}
	addrs, err := parseGenesis(blob)
	if err != nil {
		return &ConfigError{
			Pool:   p.config.Name,
			Reason: "invalid genesis transactions",
			Err:    err,
		}
	}
	transport, err := p.newTransport(addrs, p.config.SocksProxy)
	if err != nil {
		return &OpenError{Pool: p.config.Name, Err: err}
	}
	p.handle = client.New(transport, client.WithLogger(p.logger))
	p.opened = true
	p.logger.Debug(
		"opened ledger pool",
		"component", "pool",
		"pool", p.config.Name,
		"nodes", len(addrs),
	)
	return nil
}

// Acquire returns a release function after ensuring the pool is open,
// incrementing the reference count and cancelling any pending deferred
// close. The caller must invoke release exactly once on every exit path;
// the handle stays usable until then
func (p *LedgerPool) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.cancelCloseTimerLocked()
	if !p.opened {
		if err := p.openLocked(); err != nil {
			p.mu.Unlock()
			return nil, err
		}
	}
	p.refCount++
	p.mu.Unlock()
	var once sync.Once
	release := func() {
		once.Do(p.release)
	}
	return release, nil
}

func (p *LedgerPool) release() {
	p.mu.Lock()
	p.refCount--
	if p.refCount > 0 {
		p.mu.Unlock()
		return
	}
	if p.config.Keepalive <= 0 {
		err := p.closeLocked()
		p.mu.Unlock()
		if err != nil {
			p.logger.Warn(
				"failed to close ledger pool on release",
				"component", "pool",
				"pool", p.config.Name,
				"error", err,
			)
		}
		return
	}
	// Arm the deferred close. The generation counter makes a timer that
	// fires concurrently with its own cancellation a no-op
	p.timerGen++
	gen := p.timerGen
	p.closeTimer = time.AfterFunc(p.config.Keepalive, func() {
		p.deferredClose(gen)
	})
	p.mu.Unlock()
}

func (p *LedgerPool) deferredClose(gen uint64) {
	p.mu.Lock()
	if gen != p.timerGen || p.refCount > 0 || !p.opened {
		p.mu.Unlock()
		return
	}
	p.closeTimer = nil
	err := p.closeLocked()
	p.mu.Unlock()
	if err != nil {
		p.logger.Warn(
			"failed to close ledger pool after keepalive",
			"component", "pool",
			"pool", p.config.Name,
			"error", err,
		)
	}
}

func (p *LedgerPool) cancelCloseTimerLocked() {
	if p.closeTimer != nil {
		p.closeTimer.Stop()
		p.closeTimer = nil
		p.timerGen++
	}
}

// Close shuts down the underlying connection, retrying a few times with a
// short backoff. On exhausting the retries it returns a CloseError and
// leaves the reference count one higher than it found it, so the count
// cannot reach zero again while the connection is still live. The pool can
// be reopened after a successful Close
func (p *LedgerPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelCloseTimerLocked()
	return p.closeLocked()
}

func (p *LedgerPool) closeLocked() error {
	if !p.opened {
		return nil
	}
	var err error
	for attempt := range closeAttempts {
		if attempt > 0 {
			time.Sleep(closeRetryDelay)
		}
		err = p.handle.Close()
		if err == nil {
			p.opened = false
			p.handle = nil
			p.logger.Debug(
				"closed ledger pool",
				"component", "pool",
				"pool", p.config.Name,
			)
			return nil
		}
	}
	p.refCount++
	return &CloseError{
		Pool:     p.config.Name,
		Attempts: closeAttempts,
		Err:      err,
	}
}

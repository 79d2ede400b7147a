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

package pool

import "log/slog"

// LedgerPoolOptionFunc is a function that modifies LedgerPool config
type LedgerPoolOptionFunc func(*LedgerPool)

// WithLogger specifies the logger to use. If none is provided,
// slog.Default() is used
func WithLogger(logger *slog.Logger) LedgerPoolOptionFunc {
	return func(p *LedgerPool) {
		p.logger = logger
	}
}

// WithGenesisDir specifies the base directory searched for a pool's genesis
// transactions at the well-known per-pool path when no inline blob or
// explicit path is configured
func WithGenesisDir(dir string) LedgerPoolOptionFunc {
	return func(p *LedgerPool) {
		p.genesisDir = dir
	}
}

// WithTransportFactory specifies the factory used to create the transport to
// the network's nodes. The default dials the nodes over TCP
func WithTransportFactory(factory TransportFactory) LedgerPoolOptionFunc {
	return func(p *LedgerPool) {
		p.newTransport = factory
	}
}

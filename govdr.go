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

// Package govdr implements trust-and-resolution against multiple
// independently operated verifiable data registry (ledger) networks.
//
// Given a DID or a ledger-scoped object identifier, the MultiLedgerManager
// locates which configured ledger holds the authoritative record, fetches
// it, and verifies the responding node's answer against the ledger's own
// committed state root, so no single node has to be trusted. Connections to
// each network are reference counted and kept alive between bursts of
// lookups by the pool package.
//
// This package is the main entry point into this library. The other
// packages can be used outside of this one, but it's not a primary design
// goal.
package govdr

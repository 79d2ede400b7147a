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
	"errors"
	"fmt"
)

// ErrNoLedgerConfigured is returned when an operation needs at least one
// configured ledger and none exists
var ErrNoLedgerConfigured = errors.New("no ledger configured")

// NotFoundError indicates a referenced ledger id is not present in the
// registry
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ledger %s is not configured", e.ID)
}

// DIDNotFoundError indicates no configured ledger returned a verifiable
// record for the DID. The counts report how many ledgers of each class were
// searched, to help tell misconfiguration from genuine absence
type DIDNotFoundError struct {
	DID           string
	Production    int
	NonProduction int
}

func (e *DIDNotFoundError) Error() string {
	return fmt.Sprintf(
		"DID %s not found on any ledger (searched production: %d, non_production: %d)",
		e.DID,
		e.Production,
		e.NonProduction,
	)
}

// CacheInconsistencyError indicates the cache names a ledger id that no
// longer exists in the registry, usually after a reconfiguration. The caller
// may delete the entry and re-resolve; the manager does not do so silently
type CacheInconsistencyError struct {
	DID      string
	LedgerID string
}

func (e *CacheInconsistencyError) Error() string {
	return fmt.Sprintf(
		"cache maps DID %s to ledger %s, which is not in the registry",
		e.DID,
		e.LedgerID,
	)
}

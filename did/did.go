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

// Package did provides parsing and validation helpers for decentralized
// identifiers and the ledger object identifiers derived from them.
package did

import (
	"bytes"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// MethodSov is the method name for legacy Sovrin-style DIDs
	MethodSov = "sov"
	// MethodIndy is the method name for namespaced Indy DIDs
	MethodIndy = "indy"
)

// Nym identifiers are the base58 encoding of a 16-byte value
const (
	nymRawLen    = 16
	verkeyRawLen = 32
)

// DID represents a parsed decentralized identifier. Namespace is only
// populated for did:indy identifiers
type DID struct {
	Method    string
	Namespace string
	ID        string
}

// String returns the fully-qualified form of the DID, or the bare identifier
// if no method is set
func (d DID) String() string {
	switch {
	case d.Method == "" || d.ID == "":
		return d.ID
	case d.Namespace != "":
		return "did:" + d.Method + ":" + d.Namespace + ":" + d.ID
	default:
		return "did:" + d.Method + ":" + d.ID
	}
}

// Parse parses a DID in did:sov:<id>, did:indy:<namespace>:<id>, or bare
// base58 identifier form
func Parse(s string) (DID, error) {
	if s == "" {
		return DID{}, fmt.Errorf("empty DID")
	}
	if !strings.HasPrefix(s, "did:") {
		if !validNym(s) {
			return DID{}, fmt.Errorf("invalid identifier: %s", s)
		}
		return DID{ID: s}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return DID{}, fmt.Errorf("malformed DID: %s", s)
	}
	method := parts[1]
	switch method {
	case MethodSov:
		if len(parts) != 3 || !validNym(parts[2]) {
			return DID{}, fmt.Errorf("malformed did:sov identifier: %s", s)
		}
		return DID{Method: method, ID: parts[2]}, nil
	case MethodIndy:
		// The namespace may itself contain a colon (e.g. "sovrin:staging"),
		// so the nym is always the final segment
		if len(parts) < 4 {
			return DID{}, fmt.Errorf("malformed did:indy identifier: %s", s)
		}
		id := parts[len(parts)-1]
		if !validNym(id) {
			return DID{}, fmt.Errorf("malformed did:indy identifier: %s", s)
		}
		return DID{
			Method:    method,
			Namespace: strings.Join(parts[2:len(parts)-1], ":"),
			ID:        id,
		}, nil
	default:
		return DID{Method: method, ID: strings.Join(parts[2:], ":")}, nil
	}
}

// ExtractDIDFromIdentifier normalizes a ledger object identifier to its
// leading DID segment. Schema, credential definition, and revocation registry
// identifiers all lead with the issuer DID followed by a marker segment
// (e.g. "<did>:2:name:1.0"). A did:sov: or did:indy: prefix is stripped
func ExtractDIDFromIdentifier(identifier string) string {
	id := identifier
	if strings.HasPrefix(id, "did:") {
		if d, err := Parse(firstObjectSegment(id)); err == nil {
			return d.ID
		}
		// Fall back to stripping the did:<method>: prefix
		parts := strings.SplitN(id, ":", 3)
		if len(parts) == 3 {
			id = parts[2]
		}
	}
	return firstObjectSegment(id)
}

// firstObjectSegment returns the portion of an object identifier before the
// first marker separator
func firstObjectSegment(id string) string {
	// A qualified DID keeps its colons; only split once we're looking at a
	// bare identifier followed by a numeric marker
	if idx := strings.Index(id, ":"); idx >= 0 && !strings.HasPrefix(id, "did:") {
		return id[:idx]
	}
	return id
}

// IsSelfCertified reports whether the given verification key certifies the
// identifier itself: the identifier must equal the first 16 bytes of the
// decoded verkey. An abbreviated verkey (prefixed with '~') encodes only the
// trailing 16 bytes relative to the identifier and is self-certifying by
// construction. Malformed input is never an error, only a false result
func IsSelfCertified(id string, verkey string) bool {
	if id == "" || verkey == "" {
		return false
	}
	if strings.HasPrefix(verkey, "~") {
		abbrev := base58.Decode(verkey[1:])
		return len(abbrev) == nymRawLen && validNym(id)
	}
	keyBytes := base58.Decode(verkey)
	if len(keyBytes) != verkeyRawLen {
		return false
	}
	// Reject verkeys that aren't canonical curve points
	if _, err := new(edwards25519.Point).SetBytes(keyBytes); err != nil {
		return false
	}
	idBytes := base58.Decode(id)
	if len(idBytes) != nymRawLen {
		return false
	}
	return bytes.Equal(keyBytes[:nymRawLen], idBytes)
}

// ExpandVerkey resolves an abbreviated verkey against its identifier,
// returning the full base58 verkey. Full verkeys are returned unchanged
func ExpandVerkey(id string, verkey string) string {
	if !strings.HasPrefix(verkey, "~") {
		return verkey
	}
	idBytes := base58.Decode(id)
	abbrev := base58.Decode(verkey[1:])
	if len(idBytes) != nymRawLen || len(abbrev) != nymRawLen {
		return verkey
	}
	full := make([]byte, 0, verkeyRawLen)
	full = append(full, idBytes...)
	full = append(full, abbrev...)
	return base58.Encode(full)
}

// validNym reports whether the given string is a plausible bare nym: the
// base58 encoding of exactly 16 bytes
func validNym(s string) bool {
	return len(base58.Decode(s)) == nymRawLen
}

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

// Package stateproof authenticates a single ledger node's reply against the
// ledger's own committed state root, so a resolver never has to trust the
// individual node that happened to answer
package stateproof

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"

	"github.com/blinklabs-io/govdr/client"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// TrieVerifier checks that a (key, value) pair is included in a state trie
// with the given root. The hashing primitives and node layout live behind
// this interface; everything in front of it treats proofs as opaque bytes
type TrieVerifier interface {
	VerifyInclusion(root []byte, key []byte, value []byte, proofNodes []byte) (bool, error)
}

// VerifierOptionFunc is a function that modifies Verifier config
type VerifierOptionFunc func(*Verifier)

// WithTrieVerifier specifies the trie verifier to use. The default is a
// SHA3-256 hash trie
func WithTrieVerifier(trie TrieVerifier) VerifierOptionFunc {
	return func(v *Verifier) {
		v.trie = trie
	}
}

// WithLogger specifies the logger to use. If none is provided,
// slog.Default() is used
func WithLogger(logger *slog.Logger) VerifierOptionFunc {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// Verifier checks reply envelopes against their declared state roots
type Verifier struct {
	trie   TrieVerifier
	logger *slog.Logger
}

// NewVerifier returns a Verifier with the given options
func NewVerifier(options ...VerifierOptionFunc) *Verifier {
	v := &Verifier{}
	for _, option := range options {
		option(v)
	}
	if v.trie == nil {
		v.trie = Sha3Trie()
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// VerifyReply extracts the claimed value and proof from a reply and checks
// them against the state root the reply itself declares. Malformed or
// missing proofs are a false result, never a panic or error; the caller
// treats false the same as "this ledger had no answer"
func (v *Verifier) VerifyReply(reply *client.Reply) bool {
	if reply == nil || reply.NotFound() {
		return false
	}
	result := reply.Result
	sp := result.StateProof
	if sp == nil || sp.RootHash == "" || sp.ProofNodes == "" {
		return false
	}
	root := base58.Decode(sp.RootHash)
	if len(root) == 0 {
		return false
	}
	proofNodes, err := base64.StdEncoding.DecodeString(sp.ProofNodes)
	if err != nil {
		v.logger.Debug(
			"state proof nodes are not valid base64",
			"component", "stateproof",
			"error", err,
		)
		return false
	}
	var key []byte
	switch result.Type {
	case client.OpTypeGetNym:
		if result.Dest == "" {
			return false
		}
		key = NymStateKey(result.Dest)
	default:
		return false
	}
	ok, err := v.trie.VerifyInclusion(root, key, []byte(*result.Data), proofNodes)
	if err != nil {
		v.logger.Debug(
			"state proof verification error",
			"component", "stateproof",
			"type", result.Type,
			"error", err,
		)
		return false
	}
	return ok
}

// NymStateKey derives the state trie key for a nym record: the hex digest of
// the SHA-256 of the identifier
func NymStateKey(dest string) []byte {
	digest := sha256.Sum256([]byte(dest))
	return []byte(hex.EncodeToString(digest[:]))
}

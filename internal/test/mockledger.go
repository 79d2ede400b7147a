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

package test

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/govdr/client"
	"github.com/blinklabs-io/govdr/stateproof"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// MockTransport is a scripted in-memory ledger transport. The handler
// produces the reply for each request, and call counters let tests assert
// how many network round trips and closes actually happened
type MockTransport struct {
	Handler func(req *client.Request) (*client.Reply, error)
	// Delay is applied before answering, to simulate network latency
	Delay time.Duration

	mu          sync.Mutex
	submitCalls int
	closeCalls  int
	closeErr    error
}

// Submit counts the call and delegates to the scripted handler, honoring
// context cancellation during any configured delay
func (m *MockTransport) Submit(
	ctx context.Context,
	req *client.Request,
) (*client.Reply, error) {
	m.mu.Lock()
	m.submitCalls++
	handler := m.Handler
	delay := m.Delay
	m.mu.Unlock()
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("no handler configured")
	}
	return handler(req)
}

// Close counts the call and returns the configured close error, if any
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return m.closeErr
}

// SetCloseErr configures the error returned by subsequent Close calls
func (m *MockTransport) SetCloseErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// SubmitCalls returns the number of Submit calls seen so far
func (m *MockTransport) SubmitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

// CloseCalls returns the number of Close calls seen so far
func (m *MockTransport) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// MockFactory hands out a fixed transport and counts how many times a pool
// opened it, so tests can assert that keepalive reuse avoided a reopen
type MockFactory struct {
	Transport *MockTransport

	mu    sync.Mutex
	opens int
}

// New is the transport factory function; assign it to a pool's transport
// factory option
func (f *MockFactory) New(
	addrs []string,
	socksProxy string,
) (client.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	return f.Transport, nil
}

// Opens returns the number of times the factory was invoked
func (f *MockFactory) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// BuildProof constructs a valid inclusion proof for (key, value) in a trie
// of the given depth, returning the proof and the matching root hash.
// Sibling hashes are deterministic filler
func BuildProof(
	trie *stateproof.HashTrie,
	key []byte,
	value []byte,
	depth int,
) (*stateproof.Proof, []byte) {
	bits := trie.PathBits(key)
	nodeHash := trie.HashLeaf(key, value)
	interiors := make([]stateproof.InteriorNode, depth)
	for i := depth - 1; i >= 0; i-- {
		sibling := trie.HashLeaf([]byte("sibling"), []byte{byte(i)})
		if bits[i] {
			interiors[i] = stateproof.InteriorNode{
				Left:  nodeHash,
				Right: sibling,
			}
		} else {
			interiors[i] = stateproof.InteriorNode{
				Left:  sibling,
				Right: nodeHash,
			}
		}
		nodeHash = trie.HashInterior(interiors[i].Left, interiors[i].Right)
	}
	proof := &stateproof.Proof{
		Interiors: interiors,
		Leaf: stateproof.LeafNode{
			Key:   key,
			Value: value,
		},
	}
	return proof, nodeHash
}

// NymReply builds a GET_NYM reply carrying a state proof that verifies
// against the default SHA3-256 trie profile
func NymReply(nym string, verkey string) *client.Reply {
	data := MustJSON(map[string]any{
		"dest":   nym,
		"verkey": verkey,
		"role":   nil,
	})
	trie := stateproof.Sha3Trie()
	key := stateproof.NymStateKey(nym)
	proof, root := BuildProof(trie, key, []byte(data), 4)
	return &client.Reply{
		Op: client.OpReply,
		Result: &client.Result{
			Type:  client.OpTypeGetNym,
			Dest:  nym,
			Data:  &data,
			SeqNo: 100,
			StateProof: &client.StateProofData{
				RootHash:   base58.Encode(root),
				ProofNodes: base64.StdEncoding.EncodeToString(proof.Encode()),
			},
		},
	}
}

// NotFoundReply builds a reply indicating the nym does not exist on the
// ledger
func NotFoundReply(nym string) *client.Reply {
	return &client.Reply{
		Op: client.OpReply,
		Result: &client.Result{
			Type: client.OpTypeGetNym,
			Dest: nym,
			Data: nil,
		},
	}
}

// BadProofReply builds a reply whose state proof does not verify
func BadProofReply(nym string, verkey string) *client.Reply {
	reply := NymReply(nym, verkey)
	reply.Result.StateProof.RootHash = base58.Encode(
		make([]byte, 32),
	)
	return reply
}

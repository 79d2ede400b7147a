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

package stateproof

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Proof node type bytes, also the domain-separation prefixes of the node
// hashes
const (
	nodeTypeInterior byte = 0x01
	nodeTypeLeaf     byte = 0x02
)

// InteriorNode is a branch on the path from the state root to the proven
// leaf. Left and Right are child hashes
type InteriorNode struct {
	Left  []byte
	Right []byte
}

// LeafNode binds a state key to its value
type LeafNode struct {
	Key   []byte
	Value []byte
}

// Proof is a decoded inclusion proof: the interior nodes from the root down,
// followed by the leaf
type Proof struct {
	Interiors []InteriorNode
	Leaf      LeafNode
}

// Encode serializes the proof into the wire form carried in a reply's
// proof_nodes field
func (p *Proof) Encode() []byte {
	var buf bytes.Buffer
	for _, interior := range p.Interiors {
		buf.WriteByte(nodeTypeInterior)
		buf.Write(interior.Left)
		buf.Write(interior.Right)
	}
	buf.WriteByte(nodeTypeLeaf)
	var lenBuf [4]byte
	binary.BigEndian.PutUint16(lenBuf[:2], uint16(len(p.Leaf.Key)))
	buf.Write(lenBuf[:2])
	buf.Write(p.Leaf.Key)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.Leaf.Value)))
	buf.Write(lenBuf[:])
	buf.Write(p.Leaf.Value)
	return buf.Bytes()
}

// decodeProof parses the wire form produced by Encode. hashLen is the size
// of the trie's node hashes
func decodeProof(data []byte, hashLen int) (*Proof, error) {
	p := &Proof{}
	for len(data) > 0 {
		switch data[0] {
		case nodeTypeInterior:
			if len(data) < 1+2*hashLen {
				return nil, fmt.Errorf("truncated interior node")
			}
			p.Interiors = append(p.Interiors, InteriorNode{
				Left:  data[1 : 1+hashLen],
				Right: data[1+hashLen : 1+2*hashLen],
			})
			data = data[1+2*hashLen:]
		case nodeTypeLeaf:
			data = data[1:]
			if len(data) < 2 {
				return nil, fmt.Errorf("truncated leaf node")
			}
			keyLen := int(binary.BigEndian.Uint16(data[:2]))
			data = data[2:]
			if len(data) < keyLen+4 {
				return nil, fmt.Errorf("truncated leaf key")
			}
			p.Leaf.Key = data[:keyLen]
			data = data[keyLen:]
			valLen := int(binary.BigEndian.Uint32(data[:4]))
			data = data[4:]
			if len(data) != valLen {
				return nil, fmt.Errorf("truncated leaf value")
			}
			p.Leaf.Value = data
			return p, nil
		default:
			return nil, fmt.Errorf("unknown proof node type %#x", data[0])
		}
	}
	return nil, fmt.Errorf("proof has no leaf node")
}

// NewHashFunc constructs the hash used for trie nodes and path derivation
type NewHashFunc func() hash.Hash

// HashTrie verifies inclusion proofs for a binary hash trie: each interior
// node hashes its two children, leaves hash their key and value, and a key's
// position is the bit path of its hashed key from the root down
type HashTrie struct {
	newHash NewHashFunc
}

// NewHashTrie returns a HashTrie using the given node hash
func NewHashTrie(newHash NewHashFunc) *HashTrie {
	return &HashTrie{
		newHash: newHash,
	}
}

// Sha3Trie returns a HashTrie hashing with SHA3-256, the default state trie
// profile
func Sha3Trie() *HashTrie {
	return NewHashTrie(sha3.New256)
}

// Blake2bTrie returns a HashTrie hashing with BLAKE2b-256, for networks
// whose state trie uses that profile
func Blake2bTrie() *HashTrie {
	return NewHashTrie(func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	})
}

// HashInterior computes an interior node's hash from its child hashes
func (t *HashTrie) HashInterior(left []byte, right []byte) []byte {
	h := t.newHash()
	h.Write([]byte{nodeTypeInterior})
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}

// HashLeaf computes a leaf node's hash from its key and value
func (t *HashTrie) HashLeaf(key []byte, value []byte) []byte {
	h := t.newHash()
	h.Write([]byte{nodeTypeLeaf})
	h.Write(key)
	h.Write(value)
	return h.Sum(nil)
}

// PathBits returns the traversal path for a key: the bits of the hashed key,
// most significant first
func (t *HashTrie) PathBits(key []byte) []bool {
	h := t.newHash()
	h.Write(key)
	hashed := h.Sum(nil)
	bits := make([]bool, 0, len(hashed)*8)
	for _, b := range hashed {
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<i) != 0)
		}
	}
	return bits
}

// VerifyInclusion checks that the proof nodes connect (key, value) to the
// given state root. It recomputes the hash chain from the root down the
// key's bit path and compares the terminal hash against the leaf
func (t *HashTrie) VerifyInclusion(
	root []byte,
	key []byte,
	value []byte,
	proofNodes []byte,
) (bool, error) {
	hashLen := t.newHash().Size()
	if len(root) != hashLen {
		return false, fmt.Errorf(
			"root hash is %d bytes, expected %d",
			len(root),
			hashLen,
		)
	}
	proof, err := decodeProof(proofNodes, hashLen)
	if err != nil {
		return false, err
	}
	bits := t.PathBits(key)
	if len(proof.Interiors) > len(bits) {
		return false, fmt.Errorf("proof deeper than key path")
	}
	expected := root
	for i, interior := range proof.Interiors {
		if !bytes.Equal(t.HashInterior(interior.Left, interior.Right), expected) {
			return false, nil
		}
		if bits[i] {
			expected = interior.Left
		} else {
			expected = interior.Right
		}
	}
	if !bytes.Equal(t.HashLeaf(proof.Leaf.Key, proof.Leaf.Value), expected) {
		return false, nil
	}
	if !bytes.Equal(proof.Leaf.Key, key) {
		return false, nil
	}
	return bytes.Equal(proof.Leaf.Value, value), nil
}

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

// Package test provides helper functions for use in tests
package test

import (
	"encoding/json"
	"fmt"
	"strconv"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// SelfCertifiedDID returns a (nym, verkey) pair where the nym is derived
// from the verkey's leading bytes, i.e. a self-certified DID
func SelfCertifiedDID() (string, string) {
	keyBytes := edwards25519.NewGeneratorPoint().Bytes()
	return base58.Encode(keyBytes[:16]), base58.Encode(keyBytes)
}

// NonSelfCertifiedDID returns a (nym, verkey) pair where the nym has no
// relationship to the verkey. The seed varies the nym so multiple distinct
// DIDs can coexist in one test
func NonSelfCertifiedDID(seed byte) (string, string) {
	_, verkey := SelfCertifiedDID()
	nymBytes := make([]byte, 16)
	for i := range nymBytes {
		nymBytes[i] = seed + byte(i)
	}
	return base58.Encode(nymBytes), verkey
}

// MustJSON encodes a value as JSON. It doesn't return an error value, which
// makes it usable inline
func MustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("error encoding JSON: %s", err))
	}
	return string(data)
}

// GenesisBlob returns a blob of newline-delimited pool genesis transactions
// naming the given node client addresses
func GenesisBlob(addrs ...string) string {
	var blob string
	for i, addr := range addrs {
		host, portStr, found := splitHostPort(addr)
		if !found {
			panic(fmt.Sprintf("invalid test node address: %s", addr))
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			panic(fmt.Sprintf("invalid test node port: %s", portStr))
		}
		blob += MustJSON(map[string]any{
			"reqSignature": map[string]any{},
			"txn": map[string]any{
				"type": "0",
				"data": map[string]any{
					"data": map[string]any{
						"alias":       fmt.Sprintf("Node%d", i+1),
						"client_ip":   host,
						"client_port": port,
						"node_ip":     host,
						"node_port":   port,
					},
				},
			},
		}) + "\n"
	}
	return blob
}

func splitHostPort(addr string) (string, string, bool) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i], addr[i+1:], true
		}
	}
	return "", "", false
}

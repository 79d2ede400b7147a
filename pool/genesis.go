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

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// GenesisFileName is the file name used when genesis transactions are loaded
// from a well-known directory keyed by pool name
const GenesisFileName = "genesis.txn"

// genesisTxn is the subset of a pool genesis transaction needed to locate
// the network's nodes
type genesisTxn struct {
	Txn struct {
		Data struct {
			Data struct {
				Alias      string      `json:"alias"`
				ClientIP   string      `json:"client_ip"`
				ClientPort json.Number `json:"client_port"`
			} `json:"data"`
		} `json:"data"`
	} `json:"txn"`
}

// parseGenesis extracts the client addresses of the network's nodes from a
// blob of newline-delimited genesis transactions
func parseGenesis(blob string) ([]string, error) {
	var addrs []string
	seen := map[string]bool{}
	scanner := bufio.NewScanner(strings.NewReader(blob))
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var txn genesisTxn
		if err := json.Unmarshal([]byte(line), &txn); err != nil {
			return nil, fmt.Errorf(
				"genesis transaction %d: %w",
				lineNum,
				err,
			)
		}
		nodeData := txn.Txn.Data.Data
		if nodeData.ClientIP == "" || nodeData.ClientPort == "" {
			continue
		}
		addr := net.JoinHostPort(nodeData.ClientIP, nodeData.ClientPort.String())
		if seen[addr] {
			continue
		}
		seen[addr] = true
		addrs = append(addrs, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no node addresses in genesis transactions")
	}
	return addrs, nil
}

// loadGenesis resolves the pool's genesis transactions: an inline blob wins,
// then an explicit file path, then the well-known per-pool path under the
// genesis directory
func (p *LedgerPool) loadGenesis() (string, error) {
	if p.config.GenesisTransactions != "" {
		return p.config.GenesisTransactions, nil
	}
	path := p.config.GenesisPath
	if path == "" && p.genesisDir != "" {
		path = filepath.Join(p.genesisDir, p.config.Name, GenesisFileName)
	}
	if path == "" {
		return "", fmt.Errorf("no genesis transactions configured")
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading genesis file: %w", err)
	}
	return string(blob), nil
}

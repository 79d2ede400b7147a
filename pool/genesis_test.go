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
	"os"
	"path/filepath"
	"testing"

	test "github.com/blinklabs-io/govdr/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestParseGenesis(t *testing.T) {
	blob := test.GenesisBlob("192.0.2.1:9702", "192.0.2.2:9702")
	addrs, err := parseGenesis(blob)
	if err != nil {
		t.Fatalf("unexpected error parsing genesis: %s", err)
	}
	assert.Equal(t, []string{"192.0.2.1:9702", "192.0.2.2:9702"}, addrs)
}

func TestParseGenesisDeduplicates(t *testing.T) {
	blob := test.GenesisBlob(
		"192.0.2.1:9702",
		"192.0.2.1:9702",
		"192.0.2.2:9702",
	)
	addrs, err := parseGenesis(blob)
	if err != nil {
		t.Fatalf("unexpected error parsing genesis: %s", err)
	}
	assert.Len(t, addrs, 2)
}

func TestParseGenesisEmpty(t *testing.T) {
	if _, err := parseGenesis(""); err == nil {
		t.Fatalf("expected error parsing empty genesis blob")
	}
	// Transactions without node data yield no addresses
	if _, err := parseGenesis(`{"txn":{"type":"0","data":{}}}`); err == nil {
		t.Fatalf("expected error parsing genesis with no node addresses")
	}
}

func TestParseGenesisMalformed(t *testing.T) {
	if _, err := parseGenesis("{not json}\n"); err == nil {
		t.Fatalf("expected error parsing malformed genesis blob")
	}
}

func TestLoadGenesisWellKnownPath(t *testing.T) {
	genesisDir := t.TempDir()
	poolDir := filepath.Join(genesisDir, "local-pool")
	if err := os.MkdirAll(poolDir, 0o755); err != nil {
		t.Fatalf("unexpected error creating genesis dir: %s", err)
	}
	blob := test.GenesisBlob("192.0.2.1:9702")
	err := os.WriteFile(
		filepath.Join(poolDir, GenesisFileName),
		[]byte(blob),
		0o644,
	)
	if err != nil {
		t.Fatalf("unexpected error writing genesis file: %s", err)
	}
	p := New(
		Config{Name: "local-pool"},
		WithGenesisDir(genesisDir),
	)
	loaded, err := p.loadGenesis()
	if err != nil {
		t.Fatalf("unexpected error loading genesis: %s", err)
	}
	assert.Equal(t, blob, loaded)
}

func TestLoadGenesisInlineWins(t *testing.T) {
	p := New(Config{
		Name:                "inline",
		GenesisTransactions: "inline-blob",
		GenesisPath:         "/nonexistent/genesis.txn",
	})
	loaded, err := p.loadGenesis()
	if err != nil {
		t.Fatalf("unexpected error loading genesis: %s", err)
	}
	assert.Equal(t, "inline-blob", loaded)
}

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

package did_test

import (
	"testing"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/govdr/did"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// testVerkey returns a valid ed25519 public key encoding along with the
// nym derived from its leading 16 bytes
func testVerkey() (string, string) {
	keyBytes := edwards25519.NewGeneratorPoint().Bytes()
	return base58.Encode(keyBytes[:16]), base58.Encode(keyBytes)
}

func TestParse(t *testing.T) {
	nym, _ := testVerkey()
	testDefs := []struct {
		input       string
		expected    did.DID
		expectedErr bool
	}{
		{
			input:    "did:sov:" + nym,
			expected: did.DID{Method: "sov", ID: nym},
		},
		{
			input:    "did:indy:sovrin:" + nym,
			expected: did.DID{Method: "indy", Namespace: "sovrin", ID: nym},
		},
		{
			input: "did:indy:sovrin:staging:" + nym,
			expected: did.DID{
				Method:    "indy",
				Namespace: "sovrin:staging",
				ID:        nym,
			},
		},
		{
			input:    nym,
			expected: did.DID{ID: nym},
		},
		{
			input:       "",
			expectedErr: true,
		},
		{
			input:       "did:sov:",
			expectedErr: true,
		},
		{
			input:       "not-base58!",
			expectedErr: true,
		},
	}
	for _, testDef := range testDefs {
		result, err := did.Parse(testDef.input)
		if testDef.expectedErr {
			if err == nil {
				t.Fatalf("expected error parsing %q, got none", testDef.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %s", testDef.input, err)
		}
		if result != testDef.expected {
			t.Fatalf(
				"did not get expected DID for %q: got %#v, expected %#v",
				testDef.input,
				result,
				testDef.expected,
			)
		}
	}
}

func TestString(t *testing.T) {
	nym, _ := testVerkey()
	testDefs := map[string]string{
		"did:sov:" + nym:          "did:sov:" + nym,
		"did:indy:sovrin:" + nym:  "did:indy:sovrin:" + nym,
		nym:                       nym,
	}
	for input, expected := range testDefs {
		parsed, err := did.Parse(input)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %s", input, err)
		}
		if parsed.String() != expected {
			t.Fatalf(
				"did not get expected string: got %q, expected %q",
				parsed.String(),
				expected,
			)
		}
	}
}

func TestExtractDIDFromIdentifier(t *testing.T) {
	nym, _ := testVerkey()
	testDefs := map[string]string{
		nym:                              nym,
		"did:sov:" + nym:                 nym,
		"did:indy:sovrin:" + nym:         nym,
		nym + ":2:test_schema:1.0":       nym,
		nym + ":3:CL:127:tag":            nym,
		nym + ":4:" + nym + ":3:CL:127:tag:CL_ACCUM:0": nym,
		"did:sov:" + nym + ":2:test_schema:1.0":        nym,
	}
	for input, expected := range testDefs {
		if result := did.ExtractDIDFromIdentifier(input); result != expected {
			t.Fatalf(
				"did not get expected DID for %q: got %q, expected %q",
				input,
				result,
				expected,
			)
		}
	}
}

func TestIsSelfCertified(t *testing.T) {
	nym, verkey := testVerkey()
	// A nym that doesn't match the verkey's leading bytes
	otherBytes := make([]byte, 16)
	for i := range otherBytes {
		otherBytes[i] = byte(i + 1)
	}
	otherNym := base58.Encode(otherBytes)
	testDefs := []struct {
		id       string
		verkey   string
		expected bool
	}{
		{id: nym, verkey: verkey, expected: true},
		{id: nym, verkey: "~" + base58.Encode(otherBytes), expected: true},
		{id: otherNym, verkey: verkey, expected: false},
		{id: nym, verkey: "", expected: false},
		{id: "", verkey: verkey, expected: false},
		{id: nym, verkey: "not-base58!", expected: false},
		{id: nym, verkey: "~not-base58!", expected: false},
	}
	for _, testDef := range testDefs {
		result := did.IsSelfCertified(testDef.id, testDef.verkey)
		if result != testDef.expected {
			t.Fatalf(
				"did not get expected result for id %q / verkey %q: got %v, expected %v",
				testDef.id,
				testDef.verkey,
				result,
				testDef.expected,
			)
		}
	}
}

func TestExpandVerkey(t *testing.T) {
	nym, verkey := testVerkey()
	keyBytes := edwards25519.NewGeneratorPoint().Bytes()
	abbrev := "~" + base58.Encode(keyBytes[16:])
	if result := did.ExpandVerkey(nym, abbrev); result != verkey {
		t.Fatalf(
			"did not get expected expanded verkey: got %q, expected %q",
			result,
			verkey,
		)
	}
	// Full verkeys pass through unchanged
	if result := did.ExpandVerkey(nym, verkey); result != verkey {
		t.Fatalf("expected full verkey to pass through, got %q", result)
	}
}

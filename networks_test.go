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

package govdr_test

import (
	"testing"

	govdr "github.com/blinklabs-io/govdr"
)

func TestNetworkByName(t *testing.T) {
	testDefs := []struct {
		name            string
		expectedNetwork govdr.Network
	}{
		{
			name:            "sovrin-mainnet",
			expectedNetwork: govdr.NetworkSovrinMainnet,
		},
		{
			name:            "indicio-testnet",
			expectedNetwork: govdr.NetworkIndicioTestnet,
		},
		{
			name:            "bogus",
			expectedNetwork: govdr.NetworkInvalid,
		},
	}
	for _, testDef := range testDefs {
		network := govdr.NetworkByName(testDef.name)
		if network != testDef.expectedNetwork {
			t.Fatalf(
				"did not get expected network for name %s: got %s, expected %s",
				testDef.name,
				network,
				testDef.expectedNetwork,
			)
		}
	}
}

func TestNetworkByNamespace(t *testing.T) {
	testDefs := []struct {
		namespace       string
		expectedNetwork govdr.Network
	}{
		{
			namespace:       "sovrin",
			expectedNetwork: govdr.NetworkSovrinMainnet,
		},
		{
			namespace:       "sovrin:staging",
			expectedNetwork: govdr.NetworkSovrinStaging,
		},
		{
			namespace:       "indicio:test",
			expectedNetwork: govdr.NetworkIndicioTestnet,
		},
		{
			namespace:       "bogus",
			expectedNetwork: govdr.NetworkInvalid,
		},
	}
	for _, testDef := range testDefs {
		network := govdr.NetworkByNamespace(testDef.namespace)
		if network != testDef.expectedNetwork {
			t.Fatalf(
				"did not get expected network for namespace %s: got %s, expected %s",
				testDef.namespace,
				network,
				testDef.expectedNetwork,
			)
		}
	}
}

func TestNetworkProductionPartition(t *testing.T) {
	if !govdr.NetworkSovrinMainnet.Production {
		t.Fatalf("expected sovrin-mainnet to be production")
	}
	if govdr.NetworkSovrinBuilder.Production {
		t.Fatalf("expected sovrin-builder to be non-production")
	}
}

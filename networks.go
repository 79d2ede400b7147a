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

// Network definitions
var (
	NetworkSovrinMainnet = Network{
		Name:       "sovrin-mainnet",
		Namespace:  "sovrin",
		Production: true,
		GenesisURL: "https://raw.githubusercontent.com/sovrin-foundation/sovrin/master/sovrin/pool_transactions_live_genesis",
	}
	NetworkSovrinStaging = Network{
		Name:       "sovrin-staging",
		Namespace:  "sovrin:staging",
		GenesisURL: "https://raw.githubusercontent.com/sovrin-foundation/sovrin/master/sovrin/pool_transactions_sandbox_genesis",
	}
	NetworkSovrinBuilder = Network{
		Name:       "sovrin-builder",
		Namespace:  "sovrin:builder",
		GenesisURL: "https://raw.githubusercontent.com/sovrin-foundation/sovrin/master/sovrin/pool_transactions_builder_genesis",
	}
	NetworkIndicioMainnet = Network{
		Name:       "indicio-mainnet",
		Namespace:  "indicio",
		Production: true,
		GenesisURL: "https://raw.githubusercontent.com/Indicio-tech/indicio-network/main/genesis_files/pool_transactions_mainnet_genesis",
	}
	NetworkIndicioTestnet = Network{
		Name:       "indicio-testnet",
		Namespace:  "indicio:test",
		GenesisURL: "https://raw.githubusercontent.com/Indicio-tech/indicio-network/main/genesis_files/pool_transactions_testnet_genesis",
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkSovrinMainnet,
	NetworkSovrinStaging,
	NetworkSovrinBuilder,
	NetworkIndicioMainnet,
	NetworkIndicioTestnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByNamespace returns a predefined network by its DID namespace
func NetworkByNamespace(namespace string) Network {
	for _, network := range networks {
		if network.Namespace == namespace {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a well-known ledger network
type Network struct {
	Name       string
	Namespace  string
	Production bool
	GenesisURL string
}

func (n Network) String() string {
	return n.Name
}

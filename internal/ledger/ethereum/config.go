// Copyright © 2022 DocAnchor Project Contributors
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

package ethereum

import (
	"github.com/docanchor/docanchor/internal/config"
)

const (
	defaultInclusionTimeout = "90s"
	defaultPollInterval     = "3s"
)

const (
	// EthereumConfigURL is the JSON/RPC endpoint of the ledger node
	EthereumConfigURL = "url"
	// EthereumConfigChainID is the chain to domain-separate signatures for. Zero means query the node.
	EthereumConfigChainID = "chainId"
	// EthereumConfigContract is the address of the verify contract
	EthereumConfigContract = "contract"
	// EthereumConfigSigningKey is the hex private key funding relay submissions
	EthereumConfigSigningKey = "signingKey"
	// EthereumConfigInclusionTimeout bounds the wait for a submitted transaction to be mined
	EthereumConfigInclusionTimeout = "inclusionTimeout"
	// EthereumConfigPollInterval is the base receipt polling interval while waiting for inclusion
	EthereumConfigPollInterval = "pollInterval"
)

func (e *Ethereum) InitPrefix(prefix config.Prefix) {
	prefix.AddKnownKey(EthereumConfigURL)
	prefix.AddKnownKey(EthereumConfigChainID, 0)
	prefix.AddKnownKey(EthereumConfigContract)
	prefix.AddKnownKey(EthereumConfigSigningKey)
	prefix.AddKnownKey(EthereumConfigInclusionTimeout, defaultInclusionTimeout)
	prefix.AddKnownKey(EthereumConfigPollInterval, defaultPollInterval)
}

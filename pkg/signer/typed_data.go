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

package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// The typed-data domain binds every signature to this message schema, one
// verify contract, and one chain. The same fields signed for any other
// domain produce an unrelated digest.
const (
	TypedDataDomainName    = "DocAnchor"
	TypedDataDomainVersion = "1"
	TypedDataPrimaryType   = "Anchor"
)

var anchorTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Anchor": {
		{Name: "root", Type: "bytes32"},
		{Name: "owner", Type: "address"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	},
}

// AnchorDigest computes the EIP-712 digest the owner signs, and the verify
// contract independently recomputes, for one anchoring intent
func AnchorDigest(ctx context.Context, chainID int64, verifyingContract string, root *anchortypes.Bytes32, owner string, nonce, deadline *big.Int) (*anchortypes.Bytes32, error) {
	typedData := apitypes.TypedData{
		Types:       anchorTypes,
		PrimaryType: TypedDataPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              TypedDataDomainName,
			Version:           TypedDataDomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: verifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"root":     root.String(),
			"owner":    owner,
			"nonce":    nonce.Text(10),
			"deadline": deadline.Text(10),
		},
	}
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	var digest anchortypes.Bytes32
	copy(digest[:], crypto.Keccak256([]byte("\x19\x01"), domainSeparator, messageHash))
	return &digest, nil
}

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
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// Wallet produces the owner's signature over an anchoring digest.
//
// Implementations backed by interactive key stores may block for a long
// time while the owner reviews the request, so SignDigest must honor
// context cancellation. An owner refusing to sign is a terminal outcome
// and must be reported with MsgOwnerDeclined, never retried.
type Wallet interface {
	// Address returns the owner address whose key this wallet holds,
	// as lowercase 0x-prefixed hex
	Address() string
	// SignDigest returns the 65-byte [R || S || V] secp256k1 signature
	// over the given digest
	SignDigest(ctx context.Context, digest *anchortypes.Bytes32) ([]byte, error)
}

// LocalWallet signs with an in-memory private key. It never declines.
type LocalWallet struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewLocalWallet parses a hex encoded secp256k1 private key.
// Deliberately does not wrap the parse error, which can echo key material
func NewLocalWallet(ctx context.Context, keyHex string) (*LocalWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, i18n.NewError(ctx, i18n.MsgInvalidSigningKey)
	}
	return NewLocalWalletFromKey(key), nil
}

func NewLocalWalletFromKey(key *ecdsa.PrivateKey) *LocalWallet {
	return &LocalWallet{
		key:     key,
		address: strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex()),
	}
}

func (w *LocalWallet) Address() string {
	return w.address
}

func (w *LocalWallet) SignDigest(ctx context.Context, digest *anchortypes.Bytes32) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], w.key)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgSigningFailed)
	}
	return sig, nil
}

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
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// SplitSignature decomposes a 65-byte [R || S || V] signature into the
// (v, r, s) triple carried on the wire. A raw recovery id of 0/1 is
// normalized to the Ethereum convention of 27/28.
func SplitSignature(ctx context.Context, sig []byte) (v uint8, r, s anchortypes.Bytes32, err error) {
	if len(sig) != 65 {
		return 0, r, s, i18n.NewError(ctx, i18n.MsgBadSignatureLen, len(sig))
	}
	copy(r[:], sig[0:32])
	copy(s[:], sig[32:64])
	v = sig[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return 0, r, s, i18n.NewError(ctx, i18n.MsgInvalidRecoveryID, v)
	}
	return v, r, s, nil
}

// RecoverSigner recomputes the EIP-712 digest from the authorization's
// fields and recovers the address that produced its (v, r, s) signature.
// Tampering with any signed field changes the digest, so the recovered
// address no longer matches the claimed owner.
func RecoverSigner(ctx context.Context, auth *anchortypes.AnchorAuthorization, chainID int64, verifyingContract string) (string, error) {
	digest, err := AnchorDigest(ctx, chainID, verifyingContract, &auth.Root, auth.Owner, auth.Nonce.Int(), auth.Deadline.Int())
	if err != nil {
		return "", err
	}
	if auth.V != 27 && auth.V != 28 {
		return "", i18n.NewError(ctx, i18n.MsgInvalidRecoveryID, auth.V)
	}
	sig := make([]byte, 65)
	copy(sig[0:32], auth.R[:])
	copy(sig[32:64], auth.S[:])
	sig[64] = auth.V - 27
	pubKey, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return "", i18n.WrapError(ctx, err, i18n.MsgSignerMismatch, "", auth.Owner)
	}
	return strings.ToLower(crypto.PubkeyToAddress(*pubKey).Hex()), nil
}

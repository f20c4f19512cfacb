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
	"time"

	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/log"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// DefaultDeadlineWindow is how far in the future a built authorization
// expires, when the caller does not choose a window
const DefaultDeadlineWindow = 600 * time.Second

// NonceOracle reads the owner's current authorization nonce from the
// ledger. The ledger plugin satisfies this directly.
type NonceOracle interface {
	NextNonce(ctx context.Context, owner string) (*big.Int, error)
}

// Builder assembles complete signed anchoring authorizations for one
// wallet against one verify contract
type Builder struct {
	wallet         Wallet
	oracle         NonceOracle
	chainID        int64
	contract       string
	deadlineWindow time.Duration
}

func NewBuilder(ctx context.Context, wallet Wallet, oracle NonceOracle, chainID int64, contract string, deadlineWindow time.Duration) (*Builder, error) {
	contractAddr, err := anchortypes.ParseEthAddress(ctx, "contract", contract)
	if err != nil {
		return nil, err
	}
	if deadlineWindow <= 0 {
		deadlineWindow = DefaultDeadlineWindow
	}
	return &Builder{
		wallet:         wallet,
		oracle:         oracle,
		chainID:        chainID,
		contract:       contractAddr,
		deadlineWindow: deadlineWindow,
	}, nil
}

// Build produces a signed authorization for anchoring the given root.
//
// The nonce is read fresh from the ledger on every call. A nonce read
// failure aborts the build, as signing over a guessed nonce would either
// fail on-chain or silently pre-authorize a future submission.
func (b *Builder) Build(ctx context.Context, root *anchortypes.Bytes32) (*anchortypes.AnchorAuthorization, error) {
	owner := b.wallet.Address()

	nonce, err := b.oracle.NextNonce(ctx, owner)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgNonceReadFailed, owner)
	}
	deadline := new(big.Int).SetInt64(time.Now().Add(b.deadlineWindow).Unix())

	digest, err := AnchorDigest(ctx, b.chainID, b.contract, root, owner, nonce, deadline)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgSigningFailed)
	}
	log.L(ctx).Debugf("Requesting signature from %s for root %s (nonce=%s)", owner, root, nonce)

	sig, err := b.wallet.SignDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	v, r, s, err := SplitSignature(ctx, sig)
	if err != nil {
		return nil, err
	}

	auth := &anchortypes.AnchorAuthorization{
		Root:     *root,
		Owner:    owner,
		Nonce:    (*anchortypes.BigInt)(nonce),
		Deadline: (*anchortypes.BigInt)(deadline),
		V:        v,
		R:        r,
		S:        s,
	}

	// Confirm the signature recovers to the wallet's address, so a
	// broken signer is caught before anything reaches the relay
	recovered, err := RecoverSigner(ctx, auth, b.chainID, b.contract)
	if err != nil {
		return nil, err
	}
	if recovered != owner {
		return nil, i18n.NewError(ctx, i18n.MsgSignerMismatch, recovered, owner)
	}
	return auth, nil
}

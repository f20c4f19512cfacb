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

package anchor

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/pkg/anchortypes"
	"github.com/docanchor/docanchor/pkg/ledger"
	"github.com/docanchor/docanchor/pkg/signer"
)

const (
	testChainID  = int64(1337)
	testContract = "0x2b1c40cd23aab47f5a36d8b4ab1976cc000aa300"
)

// memoryLedger mimics the verify contract's acceptance rules in memory:
// signature recovery against the claimed owner, strict nonce equality with
// atomic increment, and deadline expiry.
type memoryLedger struct {
	nonces  map[string]*big.Int
	submits int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{nonces: map[string]*big.Int{}}
}

func (ml *memoryLedger) Name() string                    { return "memory" }
func (ml *memoryLedger) InitPrefix(prefix config.Prefix) {}

func (ml *memoryLedger) Init(ctx context.Context, prefix config.Prefix) error { return nil }

func (ml *memoryLedger) NextNonce(ctx context.Context, owner string) (*big.Int, error) {
	nonce, ok := ml.nonces[owner]
	if !ok {
		nonce = big.NewInt(0)
	}
	return new(big.Int).Set(nonce), nil
}

func (ml *memoryLedger) SubmitAnchor(ctx context.Context, auth *anchortypes.AnchorAuthorization) (*ledger.SubmitResult, error) {
	ml.submits++
	if auth.Deadline.Int().Int64() < time.Now().Unix() {
		return nil, i18n.NewError(ctx, i18n.MsgLedgerRejected, "expired deadline")
	}
	stored, _ := ml.NextNonce(ctx, auth.Owner)
	withNonce := *auth
	withNonce.Nonce = (*anchortypes.BigInt)(stored)
	recovered, err := signer.RecoverSigner(ctx, &withNonce, testChainID, testContract)
	if err != nil {
		return nil, err
	}
	if recovered != auth.Owner {
		return nil, i18n.NewError(ctx, i18n.MsgLedgerRejected, "bad signature")
	}
	ml.nonces[auth.Owner] = new(big.Int).Add(stored, big.NewInt(1))
	txHash := sha256.Sum256([]byte(fmt.Sprintf("%s/%s", auth.Owner, stored)))
	return &ledger.SubmitResult{TxHash: fmt.Sprintf("0x%x", txHash), BlockNumber: 100}, nil
}

func (ml *memoryLedger) TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
	return &anchortypes.TxStatusResponse{Tx: txHash, Mined: true, BlockNumber: 100}, nil
}

func newTestSetup(t *testing.T) (*memoryLedger, Manager, *signer.Builder) {
	ml := newMemoryLedger()
	key, _ := crypto.GenerateKey()
	wallet := signer.NewLocalWalletFromKey(key)
	b, err := signer.NewBuilder(context.Background(), wallet, ml, testChainID, testContract, time.Minute)
	assert.NoError(t, err)
	return ml, NewManager(context.Background(), ml), b
}

func testRoot(t *testing.T, hex string) *anchortypes.Bytes32 {
	root, err := anchortypes.ParseBytes32(context.Background(), "root", hex)
	assert.NoError(t, err)
	return root
}

func TestAnchorAcceptedAndNonceAdvances(t *testing.T) {
	ml, m, b := newTestSetup(t)
	root := testRoot(t, "0x1111111111111111111111111111111111111111111111111111111111111111")

	auth, err := b.Build(context.Background(), root)
	assert.NoError(t, err)

	res, err := m.Anchor(context.Background(), auth.WireRequest())
	assert.NoError(t, err)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", res.Tx)
	assert.Equal(t, uint64(100), res.BlockNumber)

	stored, _ := ml.NextNonce(context.Background(), auth.Owner)
	assert.Equal(t, int64(1), stored.Int64())
}

func TestAnchorDuplicateRejectedByNonce(t *testing.T) {
	_, m, b := newTestSetup(t)
	root := testRoot(t, "0x2222222222222222222222222222222222222222222222222222222222222222")

	auth, err := b.Build(context.Background(), root)
	assert.NoError(t, err)

	_, err = m.Anchor(context.Background(), auth.WireRequest())
	assert.NoError(t, err)

	// Same signed authorization again: the stored nonce has moved on, so the
	// recovered signer no longer matches and the contract rejects it
	_, err = m.Anchor(context.Background(), auth.WireRequest())
	assert.Regexp(t, "DA10602", err)
}

func TestAnchorExpiredDeadlineRejected(t *testing.T) {
	ml, m, b := newTestSetup(t)
	root := testRoot(t, "0x3333333333333333333333333333333333333333333333333333333333333333")

	auth, err := b.Build(context.Background(), root)
	assert.NoError(t, err)
	auth.Deadline = anchortypes.NewBigInt(time.Now().Unix() - 10)

	_, err = m.Anchor(context.Background(), auth.WireRequest())
	assert.Regexp(t, "DA10602", err)
	assert.Regexp(t, "expired deadline", err)
	assert.Equal(t, 1, ml.submits)
}

func TestAnchorTamperedRootRejected(t *testing.T) {
	_, m, b := newTestSetup(t)
	root := testRoot(t, "0x4444444444444444444444444444444444444444444444444444444444444444")

	auth, err := b.Build(context.Background(), root)
	assert.NoError(t, err)
	auth.Root[0] ^= 0xff

	_, err = m.Anchor(context.Background(), auth.WireRequest())
	assert.Regexp(t, "DA10602", err)
	assert.Regexp(t, "bad signature", err)
}

func TestAnchorBadRecoveryIDNeverReachesLedger(t *testing.T) {
	ml, m, b := newTestSetup(t)
	root := testRoot(t, "0x5555555555555555555555555555555555555555555555555555555555555555")

	auth, err := b.Build(context.Background(), root)
	assert.NoError(t, err)
	req := auth.WireRequest()
	req.V = 29

	_, err = m.Anchor(context.Background(), req)
	assert.Regexp(t, "DA10115", err)
	assert.Equal(t, 0, ml.submits)
}

func TestAnchorMissingFieldRejectedLocally(t *testing.T) {
	ml, m, _ := newTestSetup(t)

	_, err := m.Anchor(context.Background(), &anchortypes.AnchorRequest{})
	assert.Regexp(t, "DA10111", err)
	assert.Equal(t, 0, ml.submits)
}

func TestTransactionStatus(t *testing.T) {
	_, m, _ := newTestSetup(t)

	status, err := m.TransactionStatus(context.Background(), "0x6666666666666666666666666666666666666666666666666666666666666666")
	assert.NoError(t, err)
	assert.True(t, status.Mined)

	_, err = m.TransactionStatus(context.Background(), "not-a-hash")
	assert.Regexp(t, "DA10112", err)
}

// Copyright © 2022 DocAnchor Project Contributors
//
// SPDX-License-Identifier: Apache-2.0
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
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/log"
	"github.com/docanchor/docanchor/internal/retry"
	"github.com/docanchor/docanchor/pkg/anchortypes"
	"github.com/docanchor/docanchor/pkg/ledger"
)

// Ethereum submits anchoring authorizations to the verify contract over
// JSON/RPC. The client is safe for concurrent use; the only state guarded
// locally is the relay account nonce, which must be assigned under a lock
// so concurrent submissions do not collide on the same transaction slot.
type Ethereum struct {
	ctx              context.Context
	client           *ethclient.Client
	contractABI      abi.ABI
	contract         common.Address
	chainID          *big.Int
	signingKey       *ecdsa.PrivateKey
	signingAddress   common.Address
	inclusionTimeout time.Duration
	receiptRetry     retry.Retry
	submitLock       sync.Mutex
}

func (e *Ethereum) Name() string {
	return "ethereum"
}

func (e *Ethereum) Init(ctx context.Context, prefix config.Prefix) (err error) {
	e.ctx = log.WithLogField(ctx, "proto", "ethereum")

	url := prefix.GetString(EthereumConfigURL)
	if url == "" {
		return i18n.NewError(ctx, i18n.MsgMissingPluginConfig, EthereumConfigURL, "ledger.ethereum")
	}
	contract := prefix.GetString(EthereumConfigContract)
	if contract == "" {
		return i18n.NewError(ctx, i18n.MsgMissingPluginConfig, EthereumConfigContract, "ledger.ethereum")
	}
	contractAddr, err := anchortypes.ParseEthAddress(ctx, EthereumConfigContract, contract)
	if err != nil {
		return err
	}
	e.contract = common.HexToAddress(contractAddr)

	keyHex := prefix.GetString(EthereumConfigSigningKey)
	if keyHex == "" {
		return i18n.NewError(ctx, i18n.MsgMissingPluginConfig, EthereumConfigSigningKey, "ledger.ethereum")
	}
	if e.signingKey, err = crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x")); err != nil {
		// Deliberately does not wrap the parse error, which can echo key material
		return i18n.NewError(ctx, i18n.MsgInvalidSigningKey)
	}
	e.signingAddress = crypto.PubkeyToAddress(e.signingKey.PublicKey)

	if e.contractABI, err = abi.JSON(strings.NewReader(verifyContractABI)); err != nil {
		return err
	}

	if e.client, err = ethclient.DialContext(ctx, url); err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, url)
	}

	e.chainID = big.NewInt(prefix.GetInt64(EthereumConfigChainID))
	if e.chainID.Sign() == 0 {
		if e.chainID, err = e.client.ChainID(ctx); err != nil {
			return i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, url)
		}
	}

	e.inclusionTimeout = prefix.GetDuration(EthereumConfigInclusionTimeout)
	pollInterval := prefix.GetDuration(EthereumConfigPollInterval)
	e.receiptRetry = retry.Retry{
		InitialDelay: pollInterval,
		MaximumDelay: pollInterval * 4,
	}

	log.L(e.ctx).Infof("Ethereum ledger initialized. contract=%s chain=%s relay=%s", e.contract.Hex(), e.chainID.String(), e.signingAddress.Hex())
	return nil
}

// NextNonce reads the owner's anchoring nonce from the verify contract. The
// result is authoritative ledger state - it is returned uncached, and a
// failed or empty read is an error rather than a default of zero.
func (e *Ethereum) NextNonce(ctx context.Context, owner string) (*big.Int, error) {
	data, err := e.contractABI.Pack("nonces", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	res, err := e.client.CallContract(ctx, goethereum.CallMsg{
		To:   &e.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgNonceReadFailed, owner)
	}
	if len(res) == 0 {
		return nil, i18n.NewError(ctx, i18n.MsgNonceUnavailable, owner)
	}
	outputs, err := e.contractABI.Unpack("nonces", res)
	if err != nil || len(outputs) != 1 {
		return nil, i18n.WrapError(ctx, err, i18n.MsgNonceReadFailed, owner)
	}
	nonce, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, i18n.NewError(ctx, i18n.MsgNonceUnavailable, owner)
	}
	return nonce, nil
}

// SubmitAnchor builds, signs and sends the anchorWithSig transaction, then
// waits a bounded time for it to be mined. The transaction is sent at most
// once: every failure is classified so the caller can tell a terminal ledger
// rejection from a transient transport fault, and a timed-out wait reports
// the transaction hash so inclusion can be resolved out of band.
func (e *Ethereum) SubmitAnchor(ctx context.Context, auth *anchortypes.AnchorAuthorization) (*ledger.SubmitResult, error) {
	data, err := e.contractABI.Pack("anchorWithSig",
		[32]byte(auth.Root),
		common.HexToAddress(auth.Owner),
		auth.Deadline.Int(),
		auth.V,
		[32]byte(auth.R),
		[32]byte(auth.S),
	)
	if err != nil {
		return nil, err
	}

	// Simulate first. A revert here is the ledger rejecting the authorization
	// itself (bad signature, stale nonce, expired deadline), and the reason
	// string is passed through verbatim for the caller to act on.
	gasLimit, err := e.client.EstimateGas(ctx, goethereum.CallMsg{
		From: e.signingAddress,
		To:   &e.contract,
		Data: data,
	})
	if err != nil {
		if isRevert(err) {
			return nil, i18n.WrapError(ctx, err, i18n.MsgGasEstimationFailed, err.Error())
		}
		return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, err.Error())
	}

	tx, err := e.sendOnce(ctx, gasLimit, data)
	if err != nil {
		if isRevert(err) {
			return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerRejected, err.Error())
		}
		return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, err.Error())
	}

	txHash := tx.Hash()
	log.L(ctx).Infof("Anchor transaction sent. tx=%s owner=%s root=%s", txHash.Hex(), auth.Owner, auth.Root.String())

	receipt, err := e.waitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, i18n.NewError(ctx, i18n.MsgTransactionReverted, txHash.Hex())
	}
	log.L(ctx).Infof("Anchor transaction mined. tx=%s block=%d", txHash.Hex(), receipt.BlockNumber.Uint64())
	return &ledger.SubmitResult{
		TxHash:      txHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// sendOnce assigns the relay account nonce and sends under a lock, so two
// concurrent anchoring requests cannot be allocated the same slot. The
// signing key is only ever touched inside this scope.
func (e *Ethereum) sendOnce(ctx context.Context, gasLimit uint64, data []byte) (*types.Transaction, error) {
	e.submitLock.Lock()
	defer e.submitLock.Unlock()

	accountNonce, err := e.client.PendingNonceAt(ctx, e.signingAddress)
	if err != nil {
		return nil, err
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    accountNonce,
		To:       &e.contract,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(e.chainID), e.signingKey)
	if err != nil {
		return nil, err
	}
	if err = e.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, err
	}
	return signedTx, nil
}

func (e *Ethereum) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.inclusionTimeout)
	defer cancel()

	var receipt *types.Receipt
	startTime := time.Now()
	err := e.receiptRetry.Do(waitCtx, func(attempt int) (bool, error) {
		var err error
		receipt, err = e.client.TransactionReceipt(waitCtx, txHash)
		if err == goethereum.NotFound {
			return true, nil // not mined yet
		}
		return false, err
	})
	if receipt != nil {
		return receipt, nil
	}
	// The wait popped before we saw a receipt. The transaction may still be
	// included - this must not be reported as a failure.
	elapsed := float64(time.Since(startTime)) / float64(time.Second)
	if err == nil || waitCtx.Err() != nil {
		return nil, i18n.NewError(ctx, i18n.MsgInclusionUnknown, txHash.Hex(), elapsed)
	}
	return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, err.Error())
}

// TransactionStatus resolves an inclusion-unknown outcome out of band
func (e *Ethereum) TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
	hash := common.HexToHash(txHash)
	receipt, err := e.client.TransactionReceipt(ctx, hash)
	if err == nil {
		return &anchortypes.TxStatusResponse{
			Tx:          hash.Hex(),
			Mined:       true,
			Reverted:    receipt.Status != types.ReceiptStatusSuccessful,
			BlockNumber: receipt.BlockNumber.Uint64(),
		}, nil
	}
	if err != goethereum.NotFound {
		return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, err.Error())
	}
	_, pending, err := e.client.TransactionByHash(ctx, hash)
	if err == goethereum.NotFound {
		return nil, i18n.NewError(ctx, i18n.MsgUnknownTxStatus, hash.Hex())
	}
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgLedgerUnreachable, err.Error())
	}
	return &anchortypes.TxStatusResponse{
		Tx:    hash.Hex(),
		Mined: !pending,
	}, nil
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "revert")
}

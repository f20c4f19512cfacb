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

package ledger

import (
	"context"
	"math/big"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// Plugin is the interface implemented by each ledger plugin.
//
// The ledger is the single source of truth for anchoring nonces: plugins must
// never synthesize or cache a nonce locally. Submission is attempted at most
// once per call - retry policy belongs to the caller, who can only safely
// resubmit an unmodified authorization when the failure was transient.
type Plugin interface {
	// Name returns the name of the plugin
	Name() string

	// InitPrefix initializes the set of configuration options that are valid, with defaults
	InitPrefix(prefix config.Prefix)

	// Init initializes the plugin, with configuration. The signing credential
	// is read here and held privately - it must never appear in logs or results.
	Init(ctx context.Context, prefix config.Prefix) error

	// NextNonce reads the current anchoring nonce for an owner from ledger
	// state. A failed or empty read is an error, never zero.
	NextNonce(ctx context.Context, owner string) (*big.Int, error)

	// SubmitAnchor submits the signature-verified anchoring entry point of the
	// contract, paying the transaction cost with the relay's credential, and
	// waits a bounded time for inclusion. This is the single external side
	// effect of the relay and is never internally retried.
	SubmitAnchor(ctx context.Context, auth *anchortypes.AnchorAuthorization) (*SubmitResult, error)

	// TransactionStatus queries the final status of a previously submitted
	// transaction, allowing callers to resolve an inclusion-unknown outcome
	// out of band.
	TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error)
}

// SubmitResult reports a successfully mined anchoring transaction
type SubmitResult struct {
	TxHash      string
	BlockNumber uint64
}

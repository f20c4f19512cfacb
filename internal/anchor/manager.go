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

	"github.com/google/uuid"

	"github.com/docanchor/docanchor/internal/log"
	"github.com/docanchor/docanchor/pkg/anchortypes"
	"github.com/docanchor/docanchor/pkg/ledger"
)

// Manager is the relay core. It validates incoming wire requests locally,
// then hands the parsed authorization to the ledger plugin for a single
// submission attempt. The manager holds no state between requests, so
// replay protection rests entirely on the contract's nonce check.
type Manager interface {
	Anchor(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error)
	TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error)
}

type relayManager struct {
	ledger ledger.Plugin
}

func NewManager(ctx context.Context, plugin ledger.Plugin) Manager {
	rm := &relayManager{
		ledger: plugin,
	}
	log.L(ctx).Infof("Relay manager initialized with ledger plugin '%s'", plugin.Name())
	return rm
}

func (rm *relayManager) Anchor(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error) {
	auth, err := req.Validate(ctx)
	if err != nil {
		return nil, err
	}

	// Each accepted request gets an operation ID, carried on every log line
	// through the submission so a single anchoring can be traced end to end
	opID := uuid.New().String()
	ctx = log.WithLogField(ctx, "op", opID)
	l := log.L(ctx)
	l.Infof("Anchoring root %s for owner %s (deadline=%s)", &auth.Root, auth.Owner, auth.Deadline)

	result, err := rm.ledger.SubmitAnchor(ctx, auth)
	if err != nil {
		l.Errorf("Anchoring failed for root %s: %s", &auth.Root, err)
		return nil, err
	}

	l.Infof("Anchored root %s in transaction %s", &auth.Root, result.TxHash)
	return &anchortypes.AnchorResponse{
		Tx:          result.TxHash,
		BlockNumber: result.BlockNumber,
	}, nil
}

func (rm *relayManager) TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
	if _, err := anchortypes.ParseBytes32(ctx, "tx", txHash); err != nil {
		return nil, err
	}
	return rm.ledger.TransactionStatus(ctx, txHash)
}

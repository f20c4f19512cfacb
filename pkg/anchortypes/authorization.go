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

package anchortypes

import (
	"context"

	"github.com/docanchor/docanchor/internal/i18n"
)

// AnchorAuthorization is a signed, time-boxed, single-use intent to anchor a
// document root on the ledger. It is immutable once built: the ledger consumes
// it exactly once, and a rejected authorization must be rebuilt with a fresh
// nonce and deadline rather than resigned or amended.
type AnchorAuthorization struct {
	Root     Bytes32 `json:"root"`
	Owner    string  `json:"owner"`
	Nonce    *BigInt `json:"nonce,omitempty"` // bound inside the signed digest; the contract checks its stored value
	Deadline *BigInt `json:"deadline"`
	V        uint8   `json:"v"`
	R        Bytes32 `json:"r"`
	S        Bytes32 `json:"s"`
}

// AnchorRequest is the wire form of an authorization, as received by the
// relay service. Numeric fields that exceed safe native integer range travel
// as base 10 strings.
type AnchorRequest struct {
	Root     string `json:"root"`
	Owner    string `json:"owner"`
	Nonce    string `json:"nonce,omitempty"`
	Deadline string `json:"deadline"`
	V        int64  `json:"v"`
	R        string `json:"r"`
	S        string `json:"s"`
}

// AnchorResponse reports the submitted transaction back to the caller
type AnchorResponse struct {
	Tx          string `json:"tx"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// TxStatusResponse reports the out-of-band status of a previously submitted
// transaction, for callers resolving an inclusion-unknown outcome
type TxStatusResponse struct {
	Tx          string `json:"tx"`
	Mined       bool   `json:"mined"`
	Reverted    bool   `json:"reverted,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// RESTError is the union error envelope returned by the relay service
type RESTError struct {
	Error string `json:"error"`
}

// Validate checks the wire request field-by-field and returns the parsed
// immutable authorization. All failures here are local validation errors -
// no ledger interaction happens until a request has passed.
func (r *AnchorRequest) Validate(ctx context.Context) (*AnchorAuthorization, error) {
	if r.Root == "" {
		return nil, i18n.NewError(ctx, i18n.MsgMissingRequiredField, "root")
	}
	if r.Owner == "" {
		return nil, i18n.NewError(ctx, i18n.MsgMissingRequiredField, "owner")
	}
	if r.Deadline == "" {
		return nil, i18n.NewError(ctx, i18n.MsgMissingRequiredField, "deadline")
	}
	if r.R == "" {
		return nil, i18n.NewError(ctx, i18n.MsgMissingRequiredField, "r")
	}
	if r.S == "" {
		return nil, i18n.NewError(ctx, i18n.MsgMissingRequiredField, "s")
	}

	root, err := ParseBytes32(ctx, "root", r.Root)
	if err != nil {
		return nil, err
	}
	owner, err := ParseEthAddress(ctx, "owner", r.Owner)
	if err != nil {
		return nil, err
	}
	deadline, err := ParseBigInt(ctx, "deadline", r.Deadline)
	if err != nil {
		return nil, err
	}
	if r.V != 27 && r.V != 28 {
		return nil, i18n.NewError(ctx, i18n.MsgInvalidRecoveryID, r.V)
	}
	sigR, err := ParseBytes32(ctx, "r", r.R)
	if err != nil {
		return nil, err
	}
	sigS, err := ParseBytes32(ctx, "s", r.S)
	if err != nil {
		return nil, err
	}

	auth := &AnchorAuthorization{
		Root:     *root,
		Owner:    owner,
		Deadline: deadline,
		V:        uint8(r.V),
		R:        *sigR,
		S:        *sigS,
	}
	// The nonce is informational on the wire - the contract checks its own
	// stored value - but if supplied it must still parse cleanly
	if r.Nonce != "" {
		if auth.Nonce, err = ParseBigInt(ctx, "nonce", r.Nonce); err != nil {
			return nil, err
		}
	}
	return auth, nil
}

// WireRequest serializes an authorization to its wire form
func (a *AnchorAuthorization) WireRequest() *AnchorRequest {
	return &AnchorRequest{
		Root:     a.Root.String(),
		Owner:    a.Owner,
		Nonce:    a.Nonce.String(),
		Deadline: a.Deadline.String(),
		V:        int64(a.V),
		R:        a.R.String(),
		S:        a.S.String(),
	}
}

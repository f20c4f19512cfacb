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

// Package relayclient is a thin client for callers submitting signed
// anchoring authorizations to a relay service.
package relayclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/restclient"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

// RelayClient submits signed authorizations to a single configured relay
// endpoint. Server-side rejections are surfaced verbatim, so the caller
// sees the same coded error the relay logged.
type RelayClient struct {
	client *resty.Client
}

// InitPrefix registers the client's configuration options
func InitPrefix(prefix config.Prefix) {
	restclient.InitPrefix(prefix)
}

func NewRelayClient(ctx context.Context, prefix config.Prefix) *RelayClient {
	return &RelayClient{
		client: restclient.New(ctx, prefix),
	}
}

// Anchor posts one signed authorization to the relay.
//
// An authorization whose deadline has already passed is rejected locally,
// as the contract is guaranteed to refuse it. Transport-level retry (if
// configured) re-posts the identical signed payload, and the contract's
// nonce check ensures at most one submission can ever succeed.
func (rc *RelayClient) Anchor(ctx context.Context, auth *anchortypes.AnchorAuthorization) (*anchortypes.AnchorResponse, error) {
	if auth.Deadline.Int().Int64() <= time.Now().Unix() {
		return nil, i18n.NewError(ctx, i18n.MsgDeadlineInPast, auth.Deadline)
	}
	var result anchortypes.AnchorResponse
	var restErr anchortypes.RESTError
	res, err := rc.client.R().
		SetContext(ctx).
		SetBody(auth.WireRequest()).
		SetResult(&result).
		SetError(&restErr).
		Post("/anchor")
	if err != nil {
		return nil, restclient.WrapRestErr(ctx, res, err, i18n.MsgRESTRequestFailed)
	}
	if res.IsError() {
		if restErr.Error != "" {
			return nil, errors.New(restErr.Error)
		}
		return nil, restclient.WrapRestErr(ctx, res, nil, i18n.MsgRESTRequestFailed)
	}
	return &result, nil
}

// TransactionStatus resolves the fate of a previously submitted
// transaction, typically after the relay reported inclusion-unknown
func (rc *RelayClient) TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
	var result anchortypes.TxStatusResponse
	var restErr anchortypes.RESTError
	res, err := rc.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&restErr).
		Get("/status/" + txHash)
	if err != nil {
		return nil, restclient.WrapRestErr(ctx, res, err, i18n.MsgRESTRequestFailed)
	}
	if res.IsError() {
		if restErr.Error != "" {
			return nil, errors.New(restErr.Error)
		}
		return nil, restclient.WrapRestErr(ctx, res, nil, i18n.MsgRESTRequestFailed)
	}
	return &result, nil
}

// Healthy checks the relay's liveness endpoint
func (rc *RelayClient) Healthy(ctx context.Context) error {
	res, err := rc.client.R().SetContext(ctx).Get("/")
	if err != nil || res.IsError() {
		return restclient.WrapRestErr(ctx, res, err, i18n.MsgRESTRequestFailed)
	}
	return nil
}

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

package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

type mockManager struct {
	anchorCalls int
	anchorFn    func(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error)
	statusFn    func(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error)
}

func (mm *mockManager) Anchor(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error) {
	mm.anchorCalls++
	return mm.anchorFn(ctx, req)
}

func (mm *mockManager) TransactionStatus(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
	return mm.statusFn(ctx, txHash)
}

func newTestRouter(mm *mockManager) (*apiServer, *mux.Router) {
	config.Reset()
	as := &apiServer{
		apiTimeout:    config.GetDuration(config.APIRequestTimeout),
		apiMaxTimeout: config.GetDuration(config.APIRequestMaxTimeout),
	}
	return as, as.createMuxRouter(mm)
}

func testAnchorRequest() *anchortypes.AnchorRequest {
	return &anchortypes.AnchorRequest{
		Root:     "0x1111111111111111111111111111111111111111111111111111111111111111",
		Owner:    "0x2b1c40cd23aab47f5a36d8b4ab1976cc000aa301",
		Deadline: "2000000000",
		V:        27,
		R:        "0x2222222222222222222222222222222222222222222222222222222222222222",
		S:        "0x3333333333333333333333333333333333333333333333333333333333333333",
	}
}

func TestListenDefaultsSurviveConfigRead(t *testing.T) {
	// Mirrors startup order: prefixes are registered before the config
	// file is read, and must keep their defaults through it
	config.Reset()
	InitConfig()
	err := config.ReadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1", apiConfigPrefix.GetString(HTTPConfAddress))
	assert.Equal(t, uint(8081), apiConfigPrefix.GetUint(HTTPConfPort))
	assert.Equal(t, 15*time.Second, apiConfigPrefix.GetDuration(HTTPConfReadTimeout))
}

func TestPostAnchorOK(t *testing.T) {
	mm := &mockManager{
		anchorFn: func(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error) {
			assert.Equal(t, int64(27), req.V)
			return &anchortypes.AnchorResponse{Tx: "0xaaaa", BlockNumber: 12}, nil
		},
	}
	_, r := newTestRouter(mm)

	body, _ := json.Marshal(testAnchorRequest())
	req := httptest.NewRequest(http.MethodPost, "/anchor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 200, res.Code)
	var resp anchortypes.AnchorResponse
	err := json.Unmarshal(res.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "0xaaaa", resp.Tx)
	assert.Equal(t, uint64(12), resp.BlockNumber)
}

func TestPostAnchorValidationErrorMapsTo400(t *testing.T) {
	mm := &mockManager{
		anchorFn: func(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error) {
			return nil, i18n.NewError(ctx, i18n.MsgInvalidRecoveryID, req.V)
		},
	}
	_, r := newTestRouter(mm)

	badReq := testAnchorRequest()
	badReq.V = 29
	body, _ := json.Marshal(badReq)
	req := httptest.NewRequest(http.MethodPost, "/anchor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 400, res.Code)
	var restErr anchortypes.RESTError
	err := json.Unmarshal(res.Body.Bytes(), &restErr)
	assert.NoError(t, err)
	assert.Regexp(t, "DA10115", restErr.Error)
}

func TestPostAnchorLedgerErrorsMapped(t *testing.T) {
	for _, tc := range []struct {
		key    i18n.MessageKey
		status int
	}{
		{i18n.MsgLedgerUnreachable, 502},
		{i18n.MsgInclusionUnknown, 504},
		{i18n.MsgTransactionReverted, 500},
	} {
		mm := &mockManager{
			anchorFn: func(ctx context.Context, req *anchortypes.AnchorRequest) (*anchortypes.AnchorResponse, error) {
				switch tc.key {
				case i18n.MsgInclusionUnknown:
					return nil, i18n.NewError(ctx, tc.key, "0xaaaa", 90.0)
				default:
					return nil, i18n.NewError(ctx, tc.key, "pop")
				}
			},
		}
		_, r := newTestRouter(mm)

		body, _ := json.Marshal(testAnchorRequest())
		req := httptest.NewRequest(http.MethodPost, "/anchor", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, tc.status, res.Code)
	}
}

func TestPostAnchorBadContentType(t *testing.T) {
	mm := &mockManager{}
	_, r := newTestRouter(mm)

	req := httptest.NewRequest(http.MethodPost, "/anchor", bytes.NewReader([]byte("root=0x11")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 415, res.Code)
	assert.Equal(t, 0, mm.anchorCalls)
}

func TestPostAnchorBadJSON(t *testing.T) {
	mm := &mockManager{}
	_, r := newTestRouter(mm)

	req := httptest.NewRequest(http.MethodPost, "/anchor", bytes.NewReader([]byte("!json")))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 400, res.Code)
	assert.Equal(t, 0, mm.anchorCalls)
	var restErr anchortypes.RESTError
	err := json.Unmarshal(res.Body.Bytes(), &restErr)
	assert.NoError(t, err)
	assert.Regexp(t, "DA10102", restErr.Error)
}

func TestGetStatusPathParam(t *testing.T) {
	mm := &mockManager{
		statusFn: func(ctx context.Context, txHash string) (*anchortypes.TxStatusResponse, error) {
			assert.Equal(t, "0xbbbb", txHash)
			return &anchortypes.TxStatusResponse{Tx: txHash, Mined: true}, nil
		},
	}
	_, r := newTestRouter(mm)

	req := httptest.NewRequest(http.MethodGet, "/status/0xbbbb", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 200, res.Code)
	var status anchortypes.TxStatusResponse
	err := json.Unmarshal(res.Body.Bytes(), &status)
	assert.NoError(t, err)
	assert.True(t, status.Mined)
}

func TestHealthCheck(t *testing.T) {
	mm := &mockManager{}
	_, r := newTestRouter(mm)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "OK", res.Body.String())
	assert.Equal(t, "text/plain", res.Header().Get("Content-Type"))
}

func TestNotFound(t *testing.T) {
	mm := &mockManager{}
	_, r := newTestRouter(mm)

	req := httptest.NewRequest(http.MethodGet, "/wrong", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, 404, res.Code)
	var restErr anchortypes.RESTError
	err := json.Unmarshal(res.Body.Bytes(), &restErr)
	assert.NoError(t, err)
	assert.Regexp(t, "DA10107", restErr.Error)
}

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

package relayclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/restclient"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

func newTestClient() *RelayClient {
	config.Reset()
	prefix := config.NewPluginConfig("relay")
	InitPrefix(prefix)
	prefix.Set(restclient.HTTPConfigURL, "http://localhost:8081")
	return NewRelayClient(context.Background(), prefix)
}

func testAuth(t *testing.T, deadline int64) *anchortypes.AnchorAuthorization {
	root, err := anchortypes.ParseBytes32(context.Background(), "root", "0x1111111111111111111111111111111111111111111111111111111111111111")
	assert.NoError(t, err)
	return &anchortypes.AnchorAuthorization{
		Root:     *root,
		Owner:    "0x2b1c40cd23aab47f5a36d8b4ab1976cc000aa301",
		Nonce:    anchortypes.NewBigInt(5),
		Deadline: anchortypes.NewBigInt(deadline),
		V:        27,
		R:        *root,
		S:        *root,
	}
}

func TestAnchorOK(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://localhost:8081/anchor",
		func(req *http.Request) (*http.Response, error) {
			var wire anchortypes.AnchorRequest
			err := json.NewDecoder(req.Body).Decode(&wire)
			assert.NoError(t, err)
			assert.Equal(t, int64(27), wire.V)
			assert.Equal(t, "5", wire.Nonce)
			return httpmock.NewJsonResponderOrPanic(200, &anchortypes.AnchorResponse{Tx: "0xaaaa", BlockNumber: 42})(req)
		})

	res, err := rc.Anchor(context.Background(), testAuth(t, time.Now().Unix()+600))
	assert.NoError(t, err)
	assert.Equal(t, "0xaaaa", res.Tx)
	assert.Equal(t, uint64(42), res.BlockNumber)
}

func TestAnchorExpiredDeadlineNeverSent(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	_, err := rc.Anchor(context.Background(), testAuth(t, time.Now().Unix()-10))
	assert.Regexp(t, "DA10506", err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestAnchorServerErrorVerbatim(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://localhost:8081/anchor",
		httpmock.NewJsonResponderOrPanic(500, &anchortypes.RESTError{
			Error: "DA10602: Ledger rejected the authorization: stale nonce",
		}))

	_, err := rc.Anchor(context.Background(), testAuth(t, time.Now().Unix()+600))
	assert.EqualError(t, err, "DA10602: Ledger rejected the authorization: stale nonce")
}

func TestAnchorNonJSONError(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://localhost:8081/anchor",
		httpmock.NewStringResponder(502, "bad gateway"))

	_, err := rc.Anchor(context.Background(), testAuth(t, time.Now().Unix()+600))
	assert.Regexp(t, "DA10117", err)
}

func TestTransactionStatus(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://localhost:8081/status/0xbbbb",
		httpmock.NewJsonResponderOrPanic(200, &anchortypes.TxStatusResponse{Tx: "0xbbbb", Mined: true, BlockNumber: 42}))

	status, err := rc.TransactionStatus(context.Background(), "0xbbbb")
	assert.NoError(t, err)
	assert.True(t, status.Mined)

	httpmock.RegisterResponder("GET", "http://localhost:8081/status/0xcccc",
		httpmock.NewJsonResponderOrPanic(404, &anchortypes.RESTError{Error: "DA10120: Transaction '0xcccc' is not known to the ledger"}))

	_, err = rc.TransactionStatus(context.Background(), "0xcccc")
	assert.Regexp(t, "DA10120", err)
}

func TestHealthy(t *testing.T) {
	rc := newTestClient()
	httpmock.ActivateNonDefault(rc.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://localhost:8081/", httpmock.NewStringResponder(200, "OK"))
	assert.NoError(t, rc.Healthy(context.Background()))

	httpmock.RegisterResponder("GET", "http://localhost:8081/", httpmock.NewStringResponder(500, "pop"))
	assert.Regexp(t, "DA10117", rc.Healthy(context.Background()))
}

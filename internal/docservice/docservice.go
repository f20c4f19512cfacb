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

// Package docservice is a client for the document service that computes
// page-level Merkle roots over uploaded documents. The anchoring flow
// only consumes the root hash; proofs and verification are offered for
// callers checking individual pages against an anchored root.
package docservice

import (
	"context"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/restclient"
)

// DocumentRecord is returned by the document service on upload
type DocumentRecord struct {
	DocumentID string `json:"documentId"`
	RootHash   string `json:"rootHash"`
	PageCount  int    `json:"pageCount"`
	Timestamp  int64  `json:"timestamp"`
}

// PageProof is the Merkle inclusion proof for one page of a document
type PageProof struct {
	DocumentID string   `json:"documentId"`
	Page       int      `json:"page"`
	Leaf       string   `json:"leaf"`
	Proof      []string `json:"proof"`
	RootHash   string   `json:"rootHash"`
}

// VerifyRequest asks the document service to check a proof against a root
type VerifyRequest struct {
	RootHash string   `json:"rootHash"`
	Leaf     string   `json:"leaf"`
	Proof    []string `json:"proof"`
	Page     int      `json:"page"`
}

// VerifyResult reports the outcome of a proof verification
type VerifyResult struct {
	Valid bool `json:"valid"`
}

type DocService struct {
	client *resty.Client
}

// InitPrefix registers the client's configuration options
func InitPrefix(prefix config.Prefix) {
	restclient.InitPrefix(prefix)
}

func NewDocService(ctx context.Context, prefix config.Prefix) *DocService {
	return &DocService{
		client: restclient.New(ctx, prefix),
	}
}

// UploadDocument streams a document to the service, which paginates it and
// returns the Merkle root to be anchored
func (ds *DocService) UploadDocument(ctx context.Context, filename string, data io.Reader) (*DocumentRecord, error) {
	var record DocumentRecord
	res, err := ds.client.R().
		SetContext(ctx).
		SetFileReader("document", filename, data).
		SetResult(&record).
		Post("/documents")
	if err != nil || res.IsError() {
		return nil, restclient.WrapRestErr(ctx, res, err, i18n.MsgDocServiceErr)
	}
	return &record, nil
}

// PageProof fetches the inclusion proof for a single page
func (ds *DocService) PageProof(ctx context.Context, documentID string, page int) (*PageProof, error) {
	var proof PageProof
	res, err := ds.client.R().
		SetContext(ctx).
		SetResult(&proof).
		Get(fmt.Sprintf("/documents/%s/proof/%d", documentID, page))
	if err != nil || res.IsError() {
		return nil, restclient.WrapRestErr(ctx, res, err, i18n.MsgDocServiceErr)
	}
	return &proof, nil
}

// Verify checks a page proof against a root hash, without needing the
// original document
func (ds *DocService) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResult, error) {
	var result VerifyResult
	res, err := ds.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/verify")
	if err != nil || res.IsError() {
		return nil, restclient.WrapRestErr(ctx, res, err, i18n.MsgDocServiceErr)
	}
	return &result, nil
}

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
	"context"
	"net/http"

	"github.com/docanchor/docanchor/internal/anchor"
)

// APIRequest is the parsed state handed to a route's JSON handler
type APIRequest struct {
	Ctx           context.Context
	Mgr           anchor.Manager
	Req           *http.Request
	PP            map[string]string
	Input         interface{}
	SuccessStatus int
}

// Route describes one JSON endpoint of the relay API
type Route struct {
	Name   string
	Path   string
	Method string
	// PathParams are the names of mux path variables to extract into PP
	PathParams []string
	// JSONInputValue returns a new instance of the request body type, or nil
	// for routes without a body
	JSONInputValue func() interface{}
	// JSONOutputCodes sets the success status (first entry), defaulting to 200
	JSONOutputCodes []int
	JSONHandler     func(r *APIRequest) (output interface{}, err error)
}

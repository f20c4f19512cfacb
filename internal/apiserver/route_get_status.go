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
	"net/http"
)

var getStatus = &Route{
	Name:            "getStatus",
	Path:            "status/{tx}",
	Method:          http.MethodGet,
	PathParams:      []string{"tx"},
	JSONOutputCodes: []int{http.StatusOK},
	JSONHandler: func(r *APIRequest) (output interface{}, err error) {
		output, err = r.Mgr.TransactionStatus(r.Ctx, r.PP["tx"])
		return output, err
	},
}

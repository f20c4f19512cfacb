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
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/docanchor/docanchor/internal/anchor"
	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/log"
	"github.com/docanchor/docanchor/pkg/anchortypes"
)

var dacodeExtractor = regexp.MustCompile(`^(DA\d+):`)

var apiConfigPrefix = config.NewPluginConfig("http")

// Server is the external interface for the API Server
type Server interface {
	Serve(ctx context.Context, mgr anchor.Manager) error
}

type apiServer struct {
	apiTimeout    time.Duration
	apiMaxTimeout time.Duration
}

func InitConfig() {
	initHTTPConfPrefix(apiConfigPrefix, 8081)
}

func NewAPIServer() Server {
	return &apiServer{
		apiTimeout:    config.GetDuration(config.APIRequestTimeout),
		apiMaxTimeout: config.GetDuration(config.APIRequestMaxTimeout),
	}
}

// Serve is the main entry point for the API Server
func (as *apiServer) Serve(ctx context.Context, mgr anchor.Manager) error {
	httpErrChan := make(chan error)

	apiHTTPServer, err := newHTTPServer(ctx, "api", as.createMuxRouter(mgr), httpErrChan, apiConfigPrefix)
	if err != nil {
		return err
	}
	go apiHTTPServer.serveHTTP(ctx)

	return <-httpErrChan
}

func (as *apiServer) routeHandler(mgr anchor.Manager, route *Route) http.HandlerFunc {
	return as.apiWrapper(func(res http.ResponseWriter, req *http.Request) (int, error) {

		var jsonInput interface{}
		if route.JSONInputValue != nil {
			jsonInput = route.JSONInputValue()
		}
		var err error
		if req.Method != http.MethodGet && req.Method != http.MethodDelete {
			contentType := req.Header.Get("Content-Type")
			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				return 415, i18n.NewError(req.Context(), i18n.MsgInvalidContentType)
			}
			if jsonInput != nil {
				if err = json.NewDecoder(req.Body).Decode(&jsonInput); err != nil {
					return 400, i18n.WrapError(req.Context(), err, i18n.MsgJSONDecodeFailed)
				}
			}
		}

		pathParams := make(map[string]string)
		if len(route.PathParams) > 0 {
			v := mux.Vars(req)
			for _, pp := range route.PathParams {
				pathParams[pp] = v[pp]
			}
		}

		var status = 400 // if fail parsing input
		var output interface{}
		if err == nil {
			r := &APIRequest{
				Ctx:           req.Context(),
				Mgr:           mgr,
				Req:           req,
				PP:            pathParams,
				Input:         jsonInput,
				SuccessStatus: http.StatusOK,
			}
			if len(route.JSONOutputCodes) > 0 {
				r.SuccessStatus = route.JSONOutputCodes[0]
			}
			output, err = route.JSONHandler(r)
			status = r.SuccessStatus
		}
		if err == nil {
			status, err = as.handleOutput(req.Context(), res, status, output)
		}
		return status, err
	})
}

func (as *apiServer) handleOutput(ctx context.Context, res http.ResponseWriter, status int, output interface{}) (int, error) {
	vOutput := reflect.ValueOf(output)
	outputKind := vOutput.Kind()
	isPointer := outputKind == reflect.Ptr
	invalid := outputKind == reflect.Invalid
	isNil := output == nil || invalid || (isPointer && vOutput.IsNil())
	if isNil {
		if status != 204 {
			return 404, i18n.NewError(ctx, i18n.Msg404NotFound)
		}
		res.WriteHeader(204)
		return status, nil
	}
	res.Header().Add("Content-Type", "application/json")
	res.WriteHeader(status)
	if marshalErr := json.NewEncoder(res).Encode(output); marshalErr != nil {
		err := i18n.WrapError(ctx, marshalErr, i18n.MsgResponseMarshalError)
		log.L(ctx).Errorf(err.Error())
		return 500, err
	}
	return status, nil
}

func (as *apiServer) getTimeout(req *http.Request) time.Duration {
	// Configure a server-side timeout on each request, to try and avoid cases
	// where the API requester times out, and we continue to churn indefinitely
	// processing the request.
	// This is dependent on the context being passed down through to all
	// blocking operations down the stack.
	reqTimeout := as.apiTimeout
	reqTimeoutHeader := req.Header.Get("Request-Timeout")
	if reqTimeoutHeader != "" {
		customTimeout, err := time.ParseDuration(reqTimeoutHeader)
		if err != nil {
			log.L(req.Context()).Warnf("Invalid Request-Timeout header '%s': %s", reqTimeoutHeader, err)
		} else {
			reqTimeout = customTimeout
			if reqTimeout > as.apiMaxTimeout {
				reqTimeout = as.apiMaxTimeout
			}
		}
	}
	return reqTimeout
}

func (as *apiServer) apiWrapper(handler func(res http.ResponseWriter, req *http.Request) (status int, err error)) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {

		reqTimeout := as.getTimeout(req)
		ctx, cancel := context.WithTimeout(req.Context(), reqTimeout)
		httpReqID := anchortypes.ShortID()
		ctx = log.WithLogField(ctx, "httpreq", httpReqID)
		req = req.WithContext(ctx)
		defer cancel()

		// Wrap the request itself in a log wrapper, that gives minimal request/response and timing info
		l := log.L(ctx)
		l.Infof("--> %s %s", req.Method, req.URL.Path)
		startTime := time.Now()
		status, err := handler(res, req)
		durationMS := float64(time.Since(startTime)) / float64(time.Millisecond)
		if err != nil {

			// Routes don't need to tweak the status code when sending errors.
			// .. either the DA12345 error they raise is mapped to a status hint
			dacodeExtract := dacodeExtractor.FindStringSubmatch(err.Error())
			if len(dacodeExtract) >= 2 {
				if statusHint, ok := i18n.GetStatusHint(dacodeExtract[1]); ok {
					status = statusHint
				}
			}

			// If the context is done, we wrap in 408
			if status != http.StatusRequestTimeout {
				select {
				case <-ctx.Done():
					l.Errorf("Request failed and context is closed. Returning %d (overriding %d): %s", http.StatusRequestTimeout, status, err)
					status = http.StatusRequestTimeout
					err = i18n.WrapError(ctx, err, i18n.MsgRequestTimeout, httpReqID, durationMS)
				default:
				}
			}

			// ... or we default to 500
			if status < 300 {
				status = 500
			}
			l.Infof("<-- %s %s [%d] (%.2fms): %s", req.Method, req.URL.Path, status, durationMS, err)
			res.Header().Add("Content-Type", "application/json")
			res.WriteHeader(status)
			_ = json.NewEncoder(res).Encode(&anchortypes.RESTError{
				Error: err.Error(),
			})
		} else {
			l.Infof("<-- %s %s [%d] (%.2fms)", req.Method, req.URL.Path, status, durationMS)
		}
	}
}

func (as *apiServer) notFoundHandler(res http.ResponseWriter, req *http.Request) (status int, err error) {
	res.Header().Add("Content-Type", "application/json")
	return 404, i18n.NewError(req.Context(), i18n.Msg404NotFound)
}

// healthHandler answers liveness probes with a bare "OK", outside the JSON
// envelope used by the rest of the API
func (as *apiServer) healthHandler(res http.ResponseWriter, req *http.Request) {
	res.Header().Add("Content-Type", "text/plain")
	res.WriteHeader(200)
	_, _ = res.Write([]byte("OK"))
}

func (as *apiServer) createMuxRouter(mgr anchor.Manager) *mux.Router {
	r := mux.NewRouter()

	for _, route := range routes {
		if route.JSONHandler != nil {
			r.HandleFunc("/"+route.Path, as.routeHandler(mgr, route)).
				Methods(route.Method)
		}
	}
	r.HandleFunc("/", as.healthHandler).Methods(http.MethodGet)

	r.NotFoundHandler = as.apiWrapper(as.notFoundHandler)
	return r
}

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

package restclient

import (
	"github.com/docanchor/docanchor/internal/config"
)

const (
	defaultRetryEnabled     = false
	defaultRetryCount       = 5
	defaultRetryWaitTime    = "250ms"
	defaultRetryMaxWaitTime = "30s"
	defaultRequestTimeout   = "30s"
)

const (
	// HTTPConfigURL is the base URL for requests on this client
	HTTPConfigURL = "url"
	// HTTPConfigHeaders adds custom headers to every request
	HTTPConfigHeaders = "headers"
	// HTTPConfigAuthUsername is the username for HTTP basic auth
	HTTPConfigAuthUsername = "auth.username"
	// HTTPConfigAuthPassword is the password for HTTP basic auth
	HTTPConfigAuthPassword = "auth.password"
	// HTTPConfigRetryEnabled whether the client retries failing requests
	HTTPConfigRetryEnabled = "retry.enabled"
	// HTTPConfigRetryCount maximum number of retries
	HTTPConfigRetryCount = "retry.count"
	// HTTPConfigRetryInitDelay initial delay between retries
	HTTPConfigRetryInitDelay = "retry.initWaitTime"
	// HTTPConfigRetryMaxDelay cap on the delay between retries
	HTTPConfigRetryMaxDelay = "retry.maxWaitTime"
	// HTTPConfigRequestTimeout per-request timeout
	HTTPConfigRequestTimeout = "requestTimeout"
	// HTTPCustomClient allows tests to inject a custom http.Client
	HTTPCustomClient = "customClient"
)

// InitPrefix registers the client settings that can be read from a
// nested section of the config
func InitPrefix(prefix config.Prefix) {
	prefix.AddKnownKey(HTTPConfigURL)
	prefix.AddKnownKey(HTTPConfigHeaders)
	prefix.AddKnownKey(HTTPConfigAuthUsername)
	prefix.AddKnownKey(HTTPConfigAuthPassword)
	prefix.AddKnownKey(HTTPConfigRetryEnabled, defaultRetryEnabled)
	prefix.AddKnownKey(HTTPConfigRetryCount, defaultRetryCount)
	prefix.AddKnownKey(HTTPConfigRetryInitDelay, defaultRetryWaitTime)
	prefix.AddKnownKey(HTTPConfigRetryMaxDelay, defaultRetryMaxWaitTime)
	prefix.AddKnownKey(HTTPConfigRequestTimeout, defaultRequestTimeout)
	prefix.AddKnownKey(HTTPCustomClient)
}

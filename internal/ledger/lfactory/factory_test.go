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

package lfactory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLedgerPluginEthereum(t *testing.T) {
	plugin, err := GetLedgerPlugin(context.Background(), "ethereum")
	assert.NoError(t, err)
	assert.Equal(t, "ethereum", plugin.Name())
}

func TestGetLedgerPluginUnknown(t *testing.T) {
	_, err := GetLedgerPlugin(context.Background(), "wrong")
	assert.Regexp(t, "DA10118.*wrong", err)
}

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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBigIntJSONStringForm(t *testing.T) {
	// Values beyond 2^53 must survive the wire without precision loss
	var s struct {
		Deadline *BigInt `json:"deadline"`
	}
	err := json.Unmarshal([]byte(`{"deadline":"18446744073709551617"}`), &s)
	assert.NoError(t, err)
	assert.Equal(t, "18446744073709551617", s.Deadline.String())

	b, err := json.Marshal(&s)
	assert.NoError(t, err)
	assert.Equal(t, `{"deadline":"18446744073709551617"}`, string(b))
}

func TestBigIntJSONNumberForm(t *testing.T) {
	var s struct {
		Nonce *BigInt `json:"nonce"`
	}
	err := json.Unmarshal([]byte(`{"nonce":5}`), &s)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), s.Nonce.Int().Int64())
}

func TestBigIntJSONBadForms(t *testing.T) {
	var i BigInt
	err := json.Unmarshal([]byte(`"not a number"`), &i)
	assert.Regexp(t, "DA10116", err)
	err = json.Unmarshal([]byte(`{}`), &i)
	assert.Regexp(t, "DA10116", err)
	err = i.UnmarshalJSON([]byte(`!json`))
	assert.Regexp(t, "DA10116", err)
}

func TestBigIntEquals(t *testing.T) {
	assert.True(t, (*BigInt)(nil).Equals(nil))
	assert.False(t, NewBigInt(1).Equals(nil))
	assert.False(t, NewBigInt(1).Equals(NewBigInt(2)))
	assert.True(t, NewBigInt(3).Equals(NewBigInt(3)))
}

func TestParseBigInt(t *testing.T) {
	i, err := ParseBigInt(context.Background(), "deadline", "600")
	assert.NoError(t, err)
	assert.Equal(t, int64(600), i.Int().Int64())

	_, err = ParseBigInt(context.Background(), "deadline", "0x600")
	assert.Regexp(t, "DA10114", err)
}

func TestBigIntFromInt(t *testing.T) {
	assert.Nil(t, BigIntFromInt(nil))
	assert.Equal(t, "42", BigIntFromInt(NewBigInt(42).Int()).String())
}

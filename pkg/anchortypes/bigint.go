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
	"math/big"

	"github.com/docanchor/docanchor/internal/i18n"
)

// BigInt is a wrapper on a Go big.Int that standardizes JSON serialization
// as a base 10 string. Nonces and deadlines are uint256 on the ledger, so
// they must never be routed through a fixed-width float on the wire.
type BigInt big.Int

func NewBigInt(x int64) *BigInt {
	return (*BigInt)(big.NewInt(x))
}

func BigIntFromInt(i *big.Int) *BigInt {
	if i == nil {
		return nil
	}
	return (*BigInt)(new(big.Int).Set(i))
}

func (i *BigInt) MarshalText() ([]byte, error) {
	return []byte((*big.Int)(i).Text(10)), nil
}

func (i *BigInt) UnmarshalJSON(b []byte) error {
	var val interface{}
	if err := json.Unmarshal(b, &val); err != nil {
		return i18n.WrapError(context.Background(), err, i18n.MsgBigIntParseFailed, b)
	}
	switch val := val.(type) {
	case string:
		if _, ok := i.Int().SetString(val, 10); !ok {
			return i18n.NewError(context.Background(), i18n.MsgBigIntParseFailed, b)
		}
		return nil
	case float64:
		i.Int().SetInt64(int64(val))
		return nil
	default:
		return i18n.NewError(context.Background(), i18n.MsgBigIntParseFailed, b)
	}
}

func (i *BigInt) Int() *big.Int {
	return (*big.Int)(i)
}

func (i *BigInt) String() string {
	if i == nil {
		return ""
	}
	return (*big.Int)(i).Text(10)
}

func (i *BigInt) Equals(i2 *BigInt) bool {
	switch {
	case i == nil && i2 == nil:
		return true
	case i == nil || i2 == nil:
		return false
	default:
		return (*big.Int)(i).Cmp((*big.Int)(i2)) == 0
	}
}

// ParseBigInt parses a base 10 string, raising a field-named validation error on failure
func ParseBigInt(ctx context.Context, field, decStr string) (*BigInt, error) {
	i := new(big.Int)
	if _, ok := i.SetString(decStr, 10); !ok || i.Sign() < 0 {
		return nil, i18n.NewError(ctx, i18n.MsgInvalidDecimalString, field)
	}
	return (*BigInt)(i), nil
}

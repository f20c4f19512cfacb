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
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/aidarkhanov/nanoid"
	"github.com/docanchor/docanchor/internal/i18n"
)

const (
	// ShortIDalphabet is designed for easy double-click select
	ShortIDalphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"
)

// ShortID returns a random identifier short enough to be friendly in logs,
// long enough to correlate the requests of a single process
func ShortID() string {
	return nanoid.Must(nanoid.Generate(ShortIDalphabet, 8))
}

// Bytes32 is a holder of a hash or commitment, that can be used to correlate
// on-chain data with off-chain data
type Bytes32 [32]byte

func (b32 *Bytes32) MarshalText() ([]byte, error) {
	hexstr := make([]byte, 2+64)
	copy(hexstr, "0x")
	hex.Encode(hexstr[2:], b32[0:32])
	return hexstr, nil
}

func (b32 *Bytes32) UnmarshalText(b []byte) error {
	// We serialize with an 0x prefix, but accept bare hex too
	s := strings.TrimPrefix(string(b), "0x")
	if len(s) != 64 {
		return i18n.NewError(context.Background(), i18n.MsgInvalidHexBytes32, string(b))
	}
	if _, err := hex.Decode(b32[0:32], []byte(s)); err != nil {
		return i18n.NewError(context.Background(), i18n.MsgInvalidHexBytes32, string(b))
	}
	return nil
}

// String returns the 0x prefixed hex string, which is the canonical form on the wire
func (b32 *Bytes32) String() string {
	if b32 == nil {
		return ""
	}
	return "0x" + hex.EncodeToString(b32[0:32])
}

// ParseBytes32 parses a 32 byte hex string (with or without an 0x prefix),
// raising a field-named validation error on failure
func ParseBytes32(ctx context.Context, field, hexStr string) (*Bytes32, error) {
	trimmed := strings.TrimPrefix(hexStr, "0x")
	if len(trimmed) != 64 {
		return nil, i18n.NewError(ctx, i18n.MsgInvalidHexBytes32, field)
	}
	var b32 Bytes32
	if _, err := hex.Decode(b32[0:32], []byte(trimmed)); err != nil {
		return nil, i18n.NewError(ctx, i18n.MsgInvalidHexBytes32, field)
	}
	return &b32, nil
}

var addressVerify = regexp.MustCompile("^[0-9a-f]{40}$")

// ParseEthAddress validates and normalizes an ethereum address to its
// lower case 0x prefixed form
func ParseEthAddress(ctx context.Context, field, address string) (string, error) {
	keyLower := strings.ToLower(address)
	keyNoHexPrefix := strings.TrimPrefix(keyLower, "0x")
	if addressVerify.MatchString(keyNoHexPrefix) {
		return "0x" + keyNoHexPrefix, nil
	}
	return "", i18n.NewError(ctx, i18n.MsgInvalidEthAddress, field)
}

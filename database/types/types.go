// Copyright 2025 Blink Labs Software
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

package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
)

// AddressList stores a list of ledger addresses in a single text column.
// The list is JSON-encoded on the way in so it works identically across
// sqlite and postgres.
//
//nolint:recvcheck
type AddressList []string

func (a AddressList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AddressList) Scan(val any) error {
	var data []byte
	switch v := val.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*a = nil
		return nil
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(a))
}

// Uint256 stores an arbitrarily large unsigned integer (u256 on chain) as
// a decimal string to avoid precision loss. A nil inner value maps to NULL.
//
//nolint:recvcheck
type Uint256 struct {
	*big.Int
}

func NewUint256(i *big.Int) Uint256 {
	return Uint256{Int: i}
}

func (u Uint256) Value() (driver.Value, error) {
	if u.Int == nil {
		return nil, nil
	}
	return u.String(), nil
}

func (u *Uint256) Scan(val any) error {
	if val == nil {
		u.Int = nil
		return nil
	}
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	if u.Int == nil {
		u.Int = new(big.Int)
	}
	if _, ok := u.SetString(s, 10); !ok {
		return fmt.Errorf("failed to set big.Int value from string: %s", s)
	}
	return nil
}

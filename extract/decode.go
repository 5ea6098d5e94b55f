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

package extract

import (
	"fmt"
	"math/big"
	"unicode/utf8"
)

// Room status codes as encoded on chain
const (
	roomStatusCodeScheduled = 1
	roomStatusCodeActive    = 2
	roomStatusCodeEnded     = 3
)

// RoomStatusString maps an on-chain status code to its projection name.
// Unknown codes are preserved numerically rather than dropped so a
// contract upgrade cannot silently zero out rows.
func RoomStatusString(code uint64) string {
	switch code {
	case roomStatusCodeScheduled:
		return "scheduled"
	case roomStatusCodeActive:
		return "active"
	case roomStatusCodeEnded:
		return "ended"
	default:
		return fmt.Sprintf("status_%d", code)
	}
}

// fieldString extracts a string field from decoded Move content. Byte
// strings (vector<u8>) arrive as arrays of numbers and are decoded as
// UTF-8; object ID fields are sometimes wrapped in an {"id": ...} map.
func fieldString(fields map[string]any, key string) string {
	val, ok := fields[key]
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case []any:
		return bytesToString(v)
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return id
		}
		if inner, ok := v["id"].(map[string]any); ok {
			if id, ok := inner["id"].(string); ok {
				return id
			}
		}
	}
	return ""
}

// bytesToString decodes a JSON number array as a UTF-8 byte string
func bytesToString(raw []any) string {
	buf := make([]byte, 0, len(raw))
	for _, item := range raw {
		n, ok := item.(float64)
		if !ok || n < 0 || n > 255 {
			return ""
		}
		buf = append(buf, byte(n))
	}
	if !utf8.Valid(buf) {
		return ""
	}
	return string(buf)
}

// fieldStrings extracts a list of address strings
func fieldStrings(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// fieldBigInt extracts a numeric field as a big integer. Move numerics
// wider than u32 arrive as decimal strings; smaller ones as JSON numbers.
// Returns nil when the field is absent or malformed.
func fieldBigInt(fields map[string]any, key string) *big.Int {
	val, ok := fields[key]
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return nil
		}
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil
		}
		return n
	case float64:
		return new(big.Int).SetInt64(int64(v))
	}
	return nil
}

// fieldUint64 extracts a numeric field clamped into uint64 range
func fieldUint64(fields map[string]any, key string) uint64 {
	n := fieldBigInt(fields, key)
	if n == nil || n.Sign() < 0 || !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}

// fieldBool extracts a boolean field
func fieldBool(fields map[string]any, key string) bool {
	v, ok := fields[key].(bool)
	return ok && v
}

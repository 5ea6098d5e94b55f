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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomStatusString(t *testing.T) {
	assert.Equal(t, "scheduled", RoomStatusString(1))
	assert.Equal(t, "active", RoomStatusString(2))
	assert.Equal(t, "ended", RoomStatusString(3))
	// Unknown codes are preserved numerically
	assert.Equal(t, "status_0", RoomStatusString(0))
	assert.Equal(t, "status_42", RoomStatusString(42))
}

func TestFieldString(t *testing.T) {
	fields := map[string]any{
		"plain": "hello",
		// vector<u8> arrives as a JSON number array
		"bytes": []any{float64(104), float64(105)},
		"id_wrapped": map[string]any{
			"id": "0xabc",
		},
		"id_nested": map[string]any{
			"id": map[string]any{"id": "0xdef"},
		},
		"bad_bytes": []any{float64(300)},
		"empty":     nil,
	}
	assert.Equal(t, "hello", fieldString(fields, "plain"))
	assert.Equal(t, "hi", fieldString(fields, "bytes"))
	assert.Equal(t, "0xabc", fieldString(fields, "id_wrapped"))
	assert.Equal(t, "0xdef", fieldString(fields, "id_nested"))
	assert.Equal(t, "", fieldString(fields, "bad_bytes"))
	assert.Equal(t, "", fieldString(fields, "empty"))
	assert.Equal(t, "", fieldString(fields, "missing"))
}

func TestFieldStrings(t *testing.T) {
	fields := map[string]any{
		"addrs": []any{"0xaa", "0xbb"},
		"mixed": []any{"0xaa", float64(1)},
	}
	assert.Equal(t, []string{"0xaa", "0xbb"}, fieldStrings(fields, "addrs"))
	// Non-string entries are skipped, not fatal
	assert.Equal(t, []string{"0xaa"}, fieldStrings(fields, "mixed"))
	assert.Nil(t, fieldStrings(fields, "missing"))
}

func TestFieldBigInt(t *testing.T) {
	fields := map[string]any{
		// u64 and wider Move numerics arrive as decimal strings
		"wide":    "18446744073709551616",
		"narrow":  float64(42),
		"garbage": "zzz",
		"empty":   "",
	}
	wide := fieldBigInt(fields, "wide")
	if assert.NotNil(t, wide) {
		assert.Equal(t, "18446744073709551616", wide.String())
	}
	narrow := fieldBigInt(fields, "narrow")
	if assert.NotNil(t, narrow) {
		assert.Equal(t, int64(42), narrow.Int64())
	}
	assert.Nil(t, fieldBigInt(fields, "garbage"))
	assert.Nil(t, fieldBigInt(fields, "empty"))
	assert.Nil(t, fieldBigInt(fields, "missing"))
}

func TestFieldUint64(t *testing.T) {
	fields := map[string]any{
		"ok": "1700000000000",
		// Wider than uint64, clamped to zero rather than wrapped
		"overflow": "18446744073709551616",
	}
	assert.Equal(t, uint64(1700000000000), fieldUint64(fields, "ok"))
	assert.Equal(t, uint64(0), fieldUint64(fields, "overflow"))
	assert.Equal(t, uint64(0), fieldUint64(fields, "missing"))
}

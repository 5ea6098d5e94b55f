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

package sui

import (
	"encoding/json"
	"testing"
)

func TestTransactionRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare digest string",
			input:    `"8fJ3abc"`,
			expected: "8fJ3abc",
		},
		{
			name:     "transaction field",
			input:    `{"transaction": "8fJ3abc"}`,
			expected: "8fJ3abc",
		},
		{
			name:     "digest field",
			input:    `{"digest": "8fJ3abc"}`,
			expected: "8fJ3abc",
		},
		{
			name:     "transaction field wins over digest",
			input:    `{"transaction": "8fJ3abc", "digest": "other"}`,
			expected: "8fJ3abc",
		},
		{
			name:    "unexpected format",
			input:   `42`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref TransactionRef
			err := json.Unmarshal([]byte(tt.input), &ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if ref.Digest != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, ref.Digest)
			}
		})
	}
}

func TestOwnerUnmarshal(t *testing.T) {
	var owner Owner
	if err := json.Unmarshal([]byte(`"Immutable"`), &owner); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !owner.Immutable {
		t.Fatalf("expected immutable owner")
	}

	owner = Owner{}
	if err := json.Unmarshal(
		[]byte(`{"AddressOwner": "0xaa"}`),
		&owner,
	); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if owner.AddressOwner != "0xaa" || owner.ObjectOwner != "" {
		t.Fatalf("unexpected owner: %+v", owner)
	}

	owner = Owner{}
	if err := json.Unmarshal(
		[]byte(`{"ObjectOwner": "0xbb"}`),
		&owner,
	); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if owner.ObjectOwner != "0xbb" {
		t.Fatalf("unexpected owner: %+v", owner)
	}

	owner = Owner{}
	if err := json.Unmarshal(
		[]byte(`{"Shared": {"initial_shared_version": 6}}`),
		&owner,
	); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !owner.Shared {
		t.Fatalf("expected shared owner")
	}
}

func TestObjectDataVersionNumber(t *testing.T) {
	data := &ObjectData{Version: "12345"}
	if data.VersionNumber() != 12345 {
		t.Fatalf("unexpected version: %d", data.VersionNumber())
	}
	data = &ObjectData{Version: "garbage"}
	if data.VersionNumber() != 0 {
		t.Fatalf("expected zero version for unparseable input")
	}
	var nilData *ObjectData
	if nilData.VersionNumber() != 0 {
		t.Fatalf("expected zero version for nil data")
	}
}

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
	"fmt"
	"strconv"
)

// Checkpoint is a sequentially-numbered, ledger-native batch of finalized
// transactions; the unit of ingestion progress.
type Checkpoint struct {
	SequenceNumber string           `json:"sequenceNumber"`
	Digest         string           `json:"digest"`
	Transactions   []TransactionRef `json:"transactions"`
}

// TransactionRef identifies a transaction within a checkpoint. The RPC
// node reports these either as bare digest strings or as objects carrying
// a "transaction" or "digest" field, depending on version.
type TransactionRef struct {
	Digest string
}

func (r *TransactionRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Digest = s
		return nil
	}
	var obj struct {
		Transaction string `json:"transaction"`
		Digest      string `json:"digest"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unexpected transaction reference format: %w", err)
	}
	if obj.Transaction != "" {
		r.Digest = obj.Transaction
	} else {
		r.Digest = obj.Digest
	}
	return nil
}

// TransactionBlockOptions controls which sections of a transaction block
// the RPC node returns
type TransactionBlockOptions struct {
	ShowInput          bool `json:"showInput,omitempty"`
	ShowEffects        bool `json:"showEffects,omitempty"`
	ShowEvents         bool `json:"showEvents,omitempty"`
	ShowObjectChanges  bool `json:"showObjectChanges,omitempty"`
	ShowBalanceChanges bool `json:"showBalanceChanges,omitempty"`
}

// TransactionBlock is a fetched transaction with its reported effects
type TransactionBlock struct {
	Digest         string          `json:"digest"`
	ObjectChanges  []ObjectChange  `json:"objectChanges"`
	BalanceChanges []BalanceChange `json:"balanceChanges"`
	Events         []Event         `json:"events"`
}

// Object change kinds as reported by the ledger
const (
	ObjectChangeCreated     = "created"
	ObjectChangeMutated     = "mutated"
	ObjectChangePublished   = "published"
	ObjectChangeTransferred = "transferred"
	ObjectChangeDeleted     = "deleted"
	ObjectChangeWrapped     = "wrapped"
)

// ObjectChange is a ledger-reported effect of a transaction on a
// persistent object
type ObjectChange struct {
	Type       string     `json:"type"`
	ObjectID   string     `json:"objectId,omitempty"`
	ObjectType string     `json:"objectType,omitempty"`
	Object     *ObjectRef `json:"object,omitempty"`
}

// ObjectRef is a nested object reference carried by some change kinds
type ObjectRef struct {
	ObjectID string `json:"objectId"`
}

// BalanceChange is a coin balance delta attributed to an owner
type BalanceChange struct {
	Owner    Owner  `json:"owner"`
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
}

// Event is a Move event emitted by a transaction
type Event struct {
	Type       string          `json:"type"`
	ParsedJson json.RawMessage `json:"parsedJson,omitempty"`
}

// Owner describes who owns an object or balance. The wire format is
// either the string "Immutable" or an object with exactly one of the
// owner kind fields set.
type Owner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       bool
	Immutable    bool
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Immutable" {
			o.Immutable = true
		}
		return nil
	}
	var obj struct {
		AddressOwner string          `json:"AddressOwner"`
		ObjectOwner  string          `json:"ObjectOwner"`
		Shared       json.RawMessage `json:"Shared"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unexpected owner format: %w", err)
	}
	o.AddressOwner = obj.AddressOwner
	o.ObjectOwner = obj.ObjectOwner
	o.Shared = obj.Shared != nil
	return nil
}

// ObjectOptions controls which sections of an object the RPC node returns
type ObjectOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
}

// ObjectResponse is the envelope around an object fetch. Data is nil when
// the object does not exist (deleted or never created).
type ObjectResponse struct {
	Data  *ObjectData  `json:"data"`
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectError describes why a fetch returned no data
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// ObjectData is the current state of a ledger object. Content is nil when
// the object's content is empty or was not requested; a referenced object
// with nil content signals deletion to the extractors.
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Type     string         `json:"type,omitempty"`
	Owner    *Owner         `json:"owner,omitempty"`
	Content  *ObjectContent `json:"content,omitempty"`
}

// VersionNumber parses the object's version counter
func (d *ObjectData) VersionNumber() uint64 {
	if d == nil {
		return 0
	}
	n, err := strconv.ParseUint(d.Version, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ObjectContent is the decoded Move representation of an object
type ObjectContent struct {
	DataType string         `json:"dataType"`
	Type     string         `json:"type"`
	Fields   map[string]any `json:"fields"`
}

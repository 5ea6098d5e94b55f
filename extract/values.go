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

import "math/big"

// Participant roles emitted during host/participant reconciliation
const (
	RoleHost        = "HOST"
	RoleParticipant = "PARTICIPANT"
)

// ProcessedValue is the sole interface between extraction and commit: a
// tagged union of typed change records produced while walking a
// checkpoint's transactions. Values are immutable and never persisted
// themselves.
type ProcessedValue interface {
	isProcessedValue()
}

// RoomUpsert records the full observed state of a meeting room object
type RoomUpsert struct {
	RoomID                   string
	Title                    string
	Hosts                    []string
	Participants             []string
	SealPolicyID             string
	Status                   string
	MaxParticipants          uint64
	RequireApproval          bool
	CreatedAt                uint64
	StartedAt                *uint64
	EndedAt                  *uint64
	CheckpointSequenceNumber uint64
	TransactionDigest        string
}

// RoomDelete records that a room object ceased to exist on the ledger
type RoomDelete struct {
	RoomID string
}

// ParticipantUpsert records one (room, address) membership with its role.
// AdminCapID is set for hosts whose capability object was observed in the
// same checkpoint.
type ParticipantUpsert struct {
	RoomID     string
	Address    string
	Role       string
	AdminCapID *string
}

// ParticipantDelete records removal of one (room, address) membership
type ParticipantDelete struct {
	RoomID  string
	Address string
}

// MetadataUpsert records the state of a room's metadata sub-object
type MetadataUpsert struct {
	RoomID          string
	DynamicFieldID  string
	DfVersion       uint64
	Language        string
	Timezone        string
	RecordingBlobID *big.Int
}

// MetadataDelete records that a room's metadata sub-object ceased to exist
type MetadataDelete struct {
	RoomID string
}

func (RoomUpsert) isProcessedValue()        {}
func (RoomDelete) isProcessedValue()        {}
func (ParticipantUpsert) isProcessedValue() {}
func (ParticipantDelete) isProcessedValue() {}
func (MetadataUpsert) isProcessedValue()    {}
func (MetadataDelete) isProcessedValue()    {}

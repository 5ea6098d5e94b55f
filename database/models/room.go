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

package models

import (
	"errors"

	"github.com/blinklabs-io/sealmeet-indexer/database/types"
)

var ErrRoomNotFound = errors.New("meeting room not found")

// MeetingRoom is the projected state of an on-chain meeting room object.
// RoomID is the ledger object id and never changes once assigned. Timestamps
// are epoch milliseconds as recorded on chain; StartedAt and EndedAt remain
// NULL until the corresponding lifecycle transition is observed.
type MeetingRoom struct {
	ID                       uint              `gorm:"primarykey"`
	RoomID                   string            `gorm:"uniqueIndex;size:66;not null"`
	Title                    string            `gorm:"size:256"`
	Hosts                    types.AddressList `gorm:"type:text"`
	Status                   string            `gorm:"size:32"`
	MaxParticipants          uint64
	RequireApproval          bool
	ParticipantCount         int
	SealPolicyID             string  `gorm:"size:66"`
	CreatedAt                uint64  `gorm:"autoCreateTime:false"`
	StartedAt                *uint64
	EndedAt                  *uint64
	CheckpointSequenceNumber uint64 `gorm:"index"`
	TransactionDigest        string `gorm:"size:64"`

	// Dependent rows, removed with the room
	Participants []RoomParticipant `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE"`
	Metadata     *RoomMetadata     `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE"`
}

func (MeetingRoom) TableName() string {
	return "meeting_room"
}

// Room lifecycle states as projected from the on-chain status code
const (
	RoomStatusScheduled = "scheduled"
	RoomStatusActive    = "active"
	RoomStatusEnded     = "ended"
)

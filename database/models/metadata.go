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

import "github.com/blinklabs-io/sealmeet-indexer/database/types"

// RoomMetadata projects the metadata sub-object attached to a room via a
// dynamic field. At most one row per room. RecordingBlobID is a u256 on
// chain and is stored as a decimal string to avoid precision loss.
type RoomMetadata struct {
	ID              uint          `gorm:"primarykey"`
	RoomID          string        `gorm:"uniqueIndex;size:66;not null"`
	DynamicFieldID  string        `gorm:"size:66"`
	DfVersion       uint64
	Language        string        `gorm:"size:16"`
	Timezone        string        `gorm:"size:64"`
	RecordingBlobID types.Uint256 `gorm:"type:text"`
}

func (RoomMetadata) TableName() string {
	return "room_metadata"
}

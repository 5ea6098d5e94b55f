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

// Participant roles
const (
	RoleHost        = "HOST"
	RoleParticipant = "PARTICIPANT"
)

// RoomParticipant is derived state: it is fully recomputed from a room's
// current host and participant sets on every room observation, keyed by
// (room_id, participant_address).
type RoomParticipant struct {
	ID                 uint    `gorm:"primarykey"`
	RoomID             string  `gorm:"uniqueIndex:idx_room_participant;size:66;not null"`
	ParticipantAddress string  `gorm:"uniqueIndex:idx_room_participant;size:66;not null"`
	Role               string  `gorm:"size:16"`
	AdminCapID         *string `gorm:"size:66"`
}

func (RoomParticipant) TableName() string {
	return "room_participant"
}

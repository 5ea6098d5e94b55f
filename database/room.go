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

package database

import (
	"errors"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"gorm.io/gorm"
)

// Room returns the projected state of a meeting room by its ledger object
// id, including its participants and metadata. Returns
// models.ErrRoomNotFound when no such room has been indexed.
func (d *Database) Room(roomID string) (*models.MeetingRoom, error) {
	var room models.MeetingRoom
	result := d.db.
		Preload("Participants").
		Preload("Metadata").
		Where("room_id = ?", roomID).
		First(&room)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoomNotFound
		}
		return nil, result.Error
	}
	return &room, nil
}

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

package database_test

import (
	"testing"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"github.com/blinklabs-io/sealmeet-indexer/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLookup(t *testing.T) {
	db := openTestDB(t)
	values := testRoomValues()
	values = append(values, extract.MetadataUpsert{
		RoomID:         testRoomId,
		DynamicFieldID: "0xfield",
		Language:       "en",
	})
	_, err := db.Commit(values)
	require.NoError(t, err)
	room, err := db.Room(testRoomId)
	require.NoError(t, err)
	assert.Equal(t, "standup", room.Title)
	assert.Len(t, room.Participants, 3)
	require.NotNil(t, room.Metadata)
	assert.Equal(t, "en", room.Metadata.Language)
}

func TestRoomLookupNotFound(t *testing.T) {
	db := openTestDB(t)
	room, err := db.Room(testRoomId)
	assert.Nil(t, room)
	require.ErrorIs(t, err, models.ErrRoomNotFound)
}

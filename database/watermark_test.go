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
	"fmt"
	"testing"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestCheckpointEmptyStore(t *testing.T) {
	db := openTestDB(t)
	seq, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)
}

func TestLatestCheckpointFallsBackToRooms(t *testing.T) {
	db := openTestDB(t)
	// Stores written before the watermark table existed only carry the
	// per-room checkpoint numbers; the cursor is their maximum
	for i, seq := range []uint64{3, 7, 5} {
		result := db.DB().Create(&models.MeetingRoom{
			RoomID:                   fmt.Sprintf("0xroom%d", i),
			Status:                   models.RoomStatusScheduled,
			CheckpointSequenceNumber: seq,
		})
		require.NoError(t, result.Error)
	}
	seq, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), seq)
}

func TestLatestCheckpointPrefersWatermark(t *testing.T) {
	db := openTestDB(t)
	result := db.DB().Create(&models.MeetingRoom{
		RoomID:                   "0xroom",
		Status:                   models.RoomStatusScheduled,
		CheckpointSequenceNumber: 99,
	})
	require.NoError(t, result.Error)
	require.NoError(t, db.SetWatermark(50))
	// The explicit watermark wins even when a room row is ahead of it
	seq, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), seq)
}

func TestSetWatermarkMonotonic(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SetWatermark(10))
	require.NoError(t, db.SetWatermark(5))
	seq, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), seq)
	require.NoError(t, db.SetWatermark(11))
	seq, err = db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(11), seq)
	// A single row backs the watermark regardless of update count
	var count int64
	require.NoError(
		t,
		db.DB().Model(&models.IndexWatermark{}).Count(&count).Error,
	)
	assert.Equal(t, int64(1), count)
}

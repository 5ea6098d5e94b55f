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
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/sealmeet-indexer/database"
	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a file-backed sqlite store in a per-test temp dir so
// tests can't see each other's rows
func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{
		ConnectionString: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewMigratesSchema(t *testing.T) {
	db := openTestDB(t)
	for _, table := range []string{
		"meeting_room",
		"room_participant",
		"room_metadata",
		"index_watermark",
		"failed_checkpoint",
	} {
		if !db.DB().Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist after migration", table)
		}
	}
}

func TestNewInMemoryDefault(t *testing.T) {
	db, err := database.New(nil)
	require.NoError(t, err)
	defer db.Close()
	result := db.DB().Create(&models.MeetingRoom{
		RoomID: "0xmem",
		Status: models.RoomStatusScheduled,
	})
	require.NoError(t, result.Error)
}

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
	"time"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxStoredErrorLen = 1024

// RecordFailedCheckpoint adds a checkpoint to the dead-letter ledger, or
// bumps its retry count if it failed before. The ingest watermark still
// advances past the checkpoint; this record is what keeps the gap from
// being silently lost.
func (d *Database) RecordFailedCheckpoint(seq uint64, procErr error) error {
	errText := ""
	if procErr != nil {
		errText = procErr.Error()
	}
	if len(errText) > maxStoredErrorLen {
		errText = errText[:maxStoredErrorLen]
	}
	now := time.Now()
	tmpItem := models.FailedCheckpoint{
		Sequence:   seq,
		LastError:  errText,
		RetryCount: 0,
		FirstSeen:  now,
		UpdatedAt:  now,
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "sequence"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_error":  errText,
			"retry_count": gorm.Expr("retry_count + 1"),
			"updated_at":  now,
		}),
	}
	result := d.db.Clauses(onConflict).Create(&tmpItem)
	return result.Error
}

// FailedCheckpoints returns the dead-letter ledger in checkpoint order
func (d *Database) FailedCheckpoints() ([]models.FailedCheckpoint, error) {
	var failed []models.FailedCheckpoint
	result := d.db.Order("sequence").Find(&failed)
	return failed, result.Error
}

// ClearFailedCheckpoint removes a checkpoint from the dead-letter ledger
// once it has been successfully re-driven
func (d *Database) ClearFailedCheckpoint(seq uint64) error {
	result := d.db.
		Where("sequence = ?", seq).
		Delete(&models.FailedCheckpoint{})
	return result.Error
}

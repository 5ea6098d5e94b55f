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
	"time"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"gorm.io/gorm"
)

// LatestCheckpoint returns the resumable cursor: the explicit ingest
// watermark when one has been recorded, otherwise the maximum checkpoint
// sequence number across all rooms (for stores that predate the
// watermark), otherwise zero for an empty store.
func (d *Database) LatestCheckpoint() (uint64, error) {
	var watermark models.IndexWatermark
	result := d.db.
		Where("name = ?", models.WatermarkNameIngest).
		First(&watermark)
	if result.Error == nil {
		return watermark.Sequence, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	var maxSeq *uint64
	result = d.db.
		Model(&models.MeetingRoom{}).
		Select("MAX(checkpoint_sequence_number)").
		Scan(&maxSeq)
	if result.Error != nil {
		return 0, result.Error
	}
	if maxSeq == nil {
		return 0, nil
	}
	return *maxSeq, nil
}

// SetWatermark advances the ingest watermark to seq. The watermark is
// monotonic: a seq at or below the current value is a no-op, so the
// cursor can never regress.
func (d *Database) SetWatermark(seq uint64) error {
	var watermark models.IndexWatermark
	result := d.db.
		Where("name = ?", models.WatermarkNameIngest).
		First(&watermark)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		watermark = models.IndexWatermark{
			Name:      models.WatermarkNameIngest,
			Sequence:  seq,
			UpdatedAt: time.Now(),
		}
		if result := d.db.Create(&watermark); result.Error != nil {
			return result.Error
		}
		return nil
	}
	if seq <= watermark.Sequence {
		return nil
	}
	result = d.db.
		Model(&models.IndexWatermark{}).
		Where("name = ?", models.WatermarkNameIngest).
		Updates(map[string]any{
			"sequence":   seq,
			"updated_at": time.Now(),
		})
	return result.Error
}

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

import "time"

// FailedCheckpoint is the dead-letter ledger for checkpoints whose
// processing failed. The ingest watermark still advances past a failed
// checkpoint to keep the pipeline live; this record preserves the gap so
// an operator (or a later backfill) can re-drive it.
type FailedCheckpoint struct {
	ID         uint   `gorm:"primarykey"`
	Sequence   uint64 `gorm:"uniqueIndex;not null"`
	LastError  string `gorm:"size:1024"`
	RetryCount uint
	FirstSeen  time.Time
	UpdatedAt  time.Time
}

func (FailedCheckpoint) TableName() string {
	return "failed_checkpoint"
}

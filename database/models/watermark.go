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

// WatermarkNameIngest is the watermark row advanced by the main ingest loop
const WatermarkNameIngest = "ingest"

// IndexWatermark records the highest checkpoint sequence number that has
// been fully processed. It is advanced once per completed batch whether or
// not the batch produced any domain rows, so the resume point never depends
// on the presence of domain data. The sequence never regresses.
type IndexWatermark struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	Sequence  uint64
	UpdatedAt time.Time
}

func (IndexWatermark) TableName() string {
	return "index_watermark"
}

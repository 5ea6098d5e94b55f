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
	"fmt"

	"github.com/blinklabs-io/sealmeet-indexer/database/models"
	"github.com/blinklabs-io/sealmeet-indexer/database/types"
	"github.com/blinklabs-io/sealmeet-indexer/extract"
	"gorm.io/gorm/clause"
)

// Commit applies a batch of typed change records to the store. Records
// arrive unordered; they are grouped by kind and applied in a fixed
// cross-entity order:
//
//	room deletes -> room upserts -> participant deletes ->
//	participant upserts -> metadata deletes -> metadata upserts
//
// so a room delete always lands before any stale dependent rows for the
// same id are touched. Dependent upserts for a room deleted in the same
// batch (and not re-created by a later record) are dropped rather than
// applied against the violated foreign key. Each upsert is keyed by the
// entity's natural identity, making repeated application of the same
// record idempotent. The returned count of affected rows is for
// observability only; there is no atomicity guarantee across the whole
// batch.
func (d *Database) Commit(values []extract.ProcessedValue) (int64, error) {
	var roomDeletes []extract.RoomDelete
	var roomUpserts []extract.RoomUpsert
	var participantDeletes []extract.ParticipantDelete
	var participantUpserts []extract.ParticipantUpsert
	var metadataDeletes []extract.MetadataDelete
	var metadataUpserts []extract.MetadataUpsert
	for _, value := range values {
		switch v := value.(type) {
		case extract.RoomDelete:
			roomDeletes = append(roomDeletes, v)
		case extract.RoomUpsert:
			roomUpserts = append(roomUpserts, v)
		case extract.ParticipantDelete:
			participantDeletes = append(participantDeletes, v)
		case extract.ParticipantUpsert:
			participantUpserts = append(participantUpserts, v)
		case extract.MetadataDelete:
			metadataDeletes = append(metadataDeletes, v)
		case extract.MetadataUpsert:
			metadataUpserts = append(metadataUpserts, v)
		default:
			return 0, fmt.Errorf("unknown processed value type: %T", value)
		}
	}
	// Rooms removed by this batch and not re-created later in it. Stale
	// dependent upserts for these ids would fail the foreign key.
	deletedRooms := make(map[string]struct{})
	for _, del := range roomDeletes {
		deletedRooms[del.RoomID] = struct{}{}
	}
	for _, room := range roomUpserts {
		delete(deletedRooms, room.RoomID)
	}
	var affected int64
	n, err := d.deleteRooms(roomDeletes)
	affected += n
	if err != nil {
		return affected, err
	}
	n, err = d.upsertRooms(roomUpserts)
	affected += n
	if err != nil {
		return affected, err
	}
	n, err = d.deleteParticipants(participantDeletes)
	affected += n
	if err != nil {
		return affected, err
	}
	n, err = d.upsertParticipants(participantUpserts, deletedRooms)
	affected += n
	if err != nil {
		return affected, err
	}
	n, err = d.deleteMetadata(metadataDeletes)
	affected += n
	if err != nil {
		return affected, err
	}
	n, err = d.upsertMetadata(metadataUpserts, deletedRooms)
	affected += n
	if err != nil {
		return affected, err
	}
	return affected, nil
}

// deleteRooms removes rooms and their dependent rows in a single
// transaction. The schema declares ON DELETE CASCADE, but dependents are
// also removed explicitly so stores migrated without foreign key
// enforcement behave identically.
func (d *Database) deleteRooms(deletes []extract.RoomDelete) (int64, error) {
	if len(deletes) == 0 {
		return 0, nil
	}
	roomIds := make([]string, 0, len(deletes))
	for _, del := range deletes {
		roomIds = append(roomIds, del.RoomID)
	}
	tx := d.Transaction()
	if tx.Error != nil {
		return 0, tx.Error
	}
	if result := tx.
		Where("room_id IN ?", roomIds).
		Delete(&models.RoomParticipant{}); result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}
	if result := tx.
		Where("room_id IN ?", roomIds).
		Delete(&models.RoomMetadata{}); result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}
	result := tx.
		Where("room_id IN ?", roomIds).
		Delete(&models.MeetingRoom{})
	if result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

func (d *Database) upsertRooms(upserts []extract.RoomUpsert) (int64, error) {
	var affected int64
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"hosts",
			"status",
			"max_participants",
			"require_approval",
			"participant_count",
			"seal_policy_id",
			"started_at",
			"ended_at",
			"checkpoint_sequence_number",
			"transaction_digest",
		}),
	}
	for _, room := range upserts {
		tmpItem := models.MeetingRoom{
			RoomID:                   room.RoomID,
			Title:                    room.Title,
			Hosts:                    types.AddressList(room.Hosts),
			Status:                   room.Status,
			MaxParticipants:          room.MaxParticipants,
			RequireApproval:          room.RequireApproval,
			ParticipantCount:         len(room.Participants),
			SealPolicyID:             room.SealPolicyID,
			CreatedAt:                room.CreatedAt,
			StartedAt:                room.StartedAt,
			EndedAt:                  room.EndedAt,
			CheckpointSequenceNumber: room.CheckpointSequenceNumber,
			TransactionDigest:        room.TransactionDigest,
		}
		if result := d.db.
			Omit(clause.Associations).
			Clauses(onConflict).
			Create(&tmpItem); result.Error != nil {
			return affected, result.Error
		}
		affected++
	}
	return affected, nil
}

func (d *Database) deleteParticipants(
	deletes []extract.ParticipantDelete,
) (int64, error) {
	var affected int64
	for _, del := range deletes {
		result := d.db.
			Where(
				"room_id = ? AND participant_address = ?",
				del.RoomID,
				del.Address,
			).
			Delete(&models.RoomParticipant{})
		if result.Error != nil {
			return affected, result.Error
		}
		affected += result.RowsAffected
	}
	return affected, nil
}

func (d *Database) upsertParticipants(
	upserts []extract.ParticipantUpsert,
	deletedRooms map[string]struct{},
) (int64, error) {
	var affected int64
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "room_id"},
			{Name: "participant_address"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"role",
			"admin_cap_id",
		}),
	}
	for _, participant := range upserts {
		if _, ok := deletedRooms[participant.RoomID]; ok {
			continue
		}
		tmpItem := models.RoomParticipant{
			RoomID:             participant.RoomID,
			ParticipantAddress: participant.Address,
			Role:               participant.Role,
			AdminCapID:         participant.AdminCapID,
		}
		if result := d.db.
			Clauses(onConflict).
			Create(&tmpItem); result.Error != nil {
			return affected, result.Error
		}
		affected++
	}
	return affected, nil
}

func (d *Database) deleteMetadata(
	deletes []extract.MetadataDelete,
) (int64, error) {
	if len(deletes) == 0 {
		return 0, nil
	}
	roomIds := make([]string, 0, len(deletes))
	for _, del := range deletes {
		roomIds = append(roomIds, del.RoomID)
	}
	result := d.db.
		Where("room_id IN ?", roomIds).
		Delete(&models.RoomMetadata{})
	return result.RowsAffected, result.Error
}

func (d *Database) upsertMetadata(
	upserts []extract.MetadataUpsert,
	deletedRooms map[string]struct{},
) (int64, error) {
	var affected int64
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"dynamic_field_id",
			"df_version",
			"language",
			"timezone",
			"recording_blob_id",
		}),
	}
	for _, metadata := range upserts {
		if _, ok := deletedRooms[metadata.RoomID]; ok {
			continue
		}
		tmpItem := models.RoomMetadata{
			RoomID:          metadata.RoomID,
			DynamicFieldID:  metadata.DynamicFieldID,
			DfVersion:       metadata.DfVersion,
			Language:        metadata.Language,
			Timezone:        metadata.Timezone,
			RecordingBlobID: types.NewUint256(metadata.RecordingBlobID),
		}
		if result := d.db.
			Clauses(onConflict).
			Create(&tmpItem); result.Error != nil {
			return affected, result.Error
		}
		affected++
	}
	return affected, nil
}

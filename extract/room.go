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

package extract

import (
	"context"
	"io"
	"log/slog"

	"github.com/blinklabs-io/sealmeet-indexer/sui"
)

// Processor turns one checkpoint's transactions into typed change records.
// Implementations are read-only against the ledger; a failure on a single
// transaction is logged and its contribution omitted rather than failing
// the checkpoint.
type Processor interface {
	ProcessCheckpoint(
		ctx context.Context,
		checkpointSeq uint64,
		digests []string,
	) []ProcessedValue
}

// RoomProcessor extracts meeting room and participant state from a
// checkpoint's transactions
type RoomProcessor struct {
	client   sui.Client
	registry *Registry
	logger   *slog.Logger
}

func NewRoomProcessor(
	client sui.Client,
	registry *Registry,
	logger *slog.Logger,
) *RoomProcessor {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &RoomProcessor{
		client:   client,
		registry: registry,
		logger:   logger,
	}
}

func (p *RoomProcessor) ProcessCheckpoint(
	ctx context.Context,
	checkpointSeq uint64,
	digests []string,
) []ProcessedValue {
	var values []ProcessedValue
	// Host-capability lookup scoped to this checkpoint only:
	// room id -> capability id
	hostCaps := make(map[string]string)
	for _, digest := range digests {
		tx, err := p.client.GetTransactionBlock(
			ctx,
			digest,
			transactionBlockOptions,
		)
		if err != nil {
			p.logger.Warn(
				"failed to fetch transaction, omitting from pass",
				"component", "extract.room",
				"digest", digest,
				"error", err,
			)
			continue
		}
		objects := fetchObjects(
			ctx,
			p.client,
			ReferencedObjectIDs(tx),
			p.logger,
		)
		// Collect capabilities first so room host records can be
		// annotated with the capability id observed in this checkpoint
		type classified struct {
			objectID string
			decoded  Decoded
		}
		results := make([]classified, 0, len(objects))
		for _, data := range objects {
			d, err := p.registry.Classify(data)
			if err != nil {
				p.logger.Warn(
					"failed to decode object",
					"component", "extract.room",
					"object_id", data.ObjectID,
					"error", err,
				)
				continue
			}
			results = append(results, classified{
				objectID: data.ObjectID,
				decoded:  d,
			})
			if d.Kind == KindCapability && d.Capability != nil {
				hostCaps[d.Capability.RoomID] = d.Capability.CapID
			}
		}
		for _, result := range results {
			d := result.decoded
			if d.Kind != KindRoom {
				continue
			}
			if d.Deleted {
				values = append(values, RoomDelete{
					RoomID: result.objectID,
				})
				continue
			}
			values = append(
				values,
				p.roomValues(d.Room, checkpointSeq, digest, hostCaps)...,
			)
		}
	}
	return values
}

// roomValues emits the room upsert plus the reconciled participant set:
// every host as HOST (annotated with its capability id if one was
// observed), every non-host participant as PARTICIPANT. Hosts are
// deduplicated against the participant list to avoid double emission.
func (p *RoomProcessor) roomValues(
	room *Room,
	checkpointSeq uint64,
	digest string,
	hostCaps map[string]string,
) []ProcessedValue {
	values := make([]ProcessedValue, 0, 1+len(room.Hosts)+len(room.Participants))
	upsert := RoomUpsert{
		RoomID:                   room.ObjectID,
		Title:                    room.Title,
		Hosts:                    room.Hosts,
		Participants:             room.Participants,
		SealPolicyID:             room.SealPolicyID,
		Status:                   RoomStatusString(room.StatusCode),
		MaxParticipants:          room.MaxParticipants,
		RequireApproval:          room.RequireApproval,
		CreatedAt:                room.CreatedAt,
		CheckpointSequenceNumber: checkpointSeq,
		TransactionDigest:        digest,
	}
	// Start/end timestamps are zero until the lifecycle transition happens
	if room.StartedAt > 0 {
		startedAt := room.StartedAt
		upsert.StartedAt = &startedAt
	}
	if room.EndedAt > 0 {
		endedAt := room.EndedAt
		upsert.EndedAt = &endedAt
	}
	values = append(values, upsert)
	hostSet := make(map[string]struct{}, len(room.Hosts))
	for _, host := range room.Hosts {
		hostSet[host] = struct{}{}
		pv := ParticipantUpsert{
			RoomID:  room.ObjectID,
			Address: host,
			Role:    RoleHost,
		}
		if capID, ok := hostCaps[room.ObjectID]; ok {
			pv.AdminCapID = &capID
		}
		values = append(values, pv)
	}
	for _, participant := range room.Participants {
		if _, ok := hostSet[participant]; ok {
			continue
		}
		values = append(values, ParticipantUpsert{
			RoomID:  room.ObjectID,
			Address: participant,
			Role:    RoleParticipant,
		})
	}
	return values
}

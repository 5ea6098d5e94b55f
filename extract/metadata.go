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

// MetadataProcessor extracts room metadata sub-objects from a
// checkpoint's transactions. Metadata lives in dynamic fields owned by
// the room object, so the parent room id comes from the field's owner.
type MetadataProcessor struct {
	client   sui.Client
	registry *Registry
	logger   *slog.Logger
}

func NewMetadataProcessor(
	client sui.Client,
	registry *Registry,
	logger *slog.Logger,
) *MetadataProcessor {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &MetadataProcessor{
		client:   client,
		registry: registry,
		logger:   logger,
	}
}

func (p *MetadataProcessor) ProcessCheckpoint(
	ctx context.Context,
	checkpointSeq uint64,
	digests []string,
) []ProcessedValue {
	var values []ProcessedValue
	for _, digest := range digests {
		tx, err := p.client.GetTransactionBlock(
			ctx,
			digest,
			transactionBlockOptions,
		)
		if err != nil {
			p.logger.Warn(
				"failed to fetch transaction, omitting from pass",
				"component", "extract.metadata",
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
		for _, data := range objects {
			d, err := p.registry.Classify(data)
			if err != nil {
				p.logger.Warn(
					"failed to decode object",
					"component", "extract.metadata",
					"object_id", data.ObjectID,
					"error", err,
				)
				continue
			}
			if d.Kind != KindMetadata {
				continue
			}
			roomID := parentRoomID(data)
			if roomID == "" {
				p.logger.Debug(
					"metadata field without resolvable parent room",
					"component", "extract.metadata",
					"object_id", data.ObjectID,
				)
				continue
			}
			if d.Deleted {
				values = append(values, MetadataDelete{RoomID: roomID})
				continue
			}
			values = append(values, MetadataUpsert{
				RoomID:          roomID,
				DynamicFieldID:  d.Metadata.DynamicFieldID,
				DfVersion:       d.Metadata.DfVersion,
				Language:        d.Metadata.Language,
				Timezone:        d.Metadata.Timezone,
				RecordingBlobID: d.Metadata.RecordingBlobID,
			})
		}
	}
	return values
}

// parentRoomID resolves the room owning a metadata dynamic field.
// Dynamic fields are object-owned by their parent.
func parentRoomID(data *sui.ObjectData) string {
	if data.Owner == nil {
		return ""
	}
	if data.Owner.ObjectOwner != "" {
		return data.Owner.ObjectOwner
	}
	// Some node versions report the parent as a plain address owner
	return data.Owner.AddressOwner
}

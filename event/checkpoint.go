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

package event

// CheckpointProcessedEventType is the event type for fully processed checkpoints
const CheckpointProcessedEventType = EventType("checkpoint.processed")

// CheckpointProcessedEvent is emitted after a checkpoint's change records
// have been committed to the store
type CheckpointProcessedEvent struct {
	// SequenceNumber is the checkpoint sequence number
	SequenceNumber uint64
	// TransactionCount is the number of transactions in the checkpoint
	TransactionCount int
	// ValueCount is the number of change records extracted
	ValueCount int
	// RowsAffected is the number of store rows the commit touched
	RowsAffected int64
}

// CheckpointFailedEventType is the event type for checkpoints whose
// processing failed and was dead-lettered
const CheckpointFailedEventType = EventType("checkpoint.failed")

// CheckpointFailedEvent is emitted when a checkpoint's processing fails.
// The ingest cursor still advances past the checkpoint.
type CheckpointFailedEvent struct {
	// SequenceNumber is the checkpoint sequence number
	SequenceNumber uint64
	// Error is the failure that was recorded in the dead-letter ledger
	Error error
}

// WatermarkAdvancedEventType is the event type for ingest cursor movement
const WatermarkAdvancedEventType = EventType("watermark.advanced")

// WatermarkAdvancedEvent is emitted after a batch completes and the
// resumable cursor moves forward
type WatermarkAdvancedEvent struct {
	// SequenceNumber is the new watermark
	SequenceNumber uint64
}

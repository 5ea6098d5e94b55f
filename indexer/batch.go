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

package indexer

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/sealmeet-indexer/event"
	"github.com/blinklabs-io/sealmeet-indexer/extract"
	"golang.org/x/sync/errgroup"
)

// checkpointRange is a contiguous inclusive span of checkpoint
// sequence numbers
type checkpointRange struct {
	from uint64
	to   uint64
}

func (r checkpointRange) size() uint64 {
	return r.to - r.from + 1
}

// partitionRange splits [from, to] into contiguous spans of at most
// size checkpoints, in ascending order
func partitionRange(from, to uint64, size int) []checkpointRange {
	if to < from || size <= 0 {
		return nil
	}
	var ranges []checkpointRange
	for start := from; start <= to; {
		end := start + uint64(size) - 1
		if end > to || end < start {
			end = to
		}
		ranges = append(ranges, checkpointRange{from: start, to: end})
		start = end + 1
		if start == 0 {
			break
		}
	}
	return ranges
}

// processRange ingests checkpoints from..to (inclusive) in buffer-sized
// windows. The watermark advances only after every checkpoint in a
// window has been handled, so a crash mid-window replays the whole
// window on restart. Returns the new cursor position.
func (i *Indexer) processRange(ctx context.Context, from, to uint64) (uint64, error) {
	cursor := from - 1
	for _, window := range partitionRange(from, to, i.config.CheckpointBufferSize) {
		i.logger.Info(
			"processing checkpoint window",
			"from", window.from,
			"to", window.to,
			"size", window.size(),
		)
		for _, batch := range partitionRange(window.from, window.to, i.config.IngestConcurrency) {
			if err := i.processBatch(ctx, batch); err != nil {
				return cursor, err
			}
		}
		if err := i.config.Database.SetWatermark(window.to); err != nil {
			return cursor, fmt.Errorf("advance watermark: %w", err)
		}
		cursor = window.to
		i.metrics.watermark.Set(float64(window.to))
		if i.config.EventBus != nil {
			i.config.EventBus.Publish(
				event.WatermarkAdvancedEventType,
				event.NewEvent(
					event.WatermarkAdvancedEventType,
					event.WatermarkAdvancedEvent{
						SequenceNumber: window.to,
					},
				),
			)
		}
	}
	return cursor, nil
}

// processBatch runs one sub-batch of checkpoints concurrently. A
// checkpoint whose processing fails is dead-lettered and does not
// abort the batch; only context cancellation stops it early.
func (i *Indexer) processBatch(ctx context.Context, batch checkpointRange) error {
	g, gCtx := errgroup.WithContext(ctx)
	for seq := batch.from; seq <= batch.to; seq++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := i.processCheckpoint(gCtx, seq); err != nil {
				i.recordFailure(seq, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// processCheckpoint fetches one checkpoint, runs every processor over
// its transactions, and commits the extracted records in a single
// store transaction.
func (i *Indexer) processCheckpoint(ctx context.Context, seq uint64) error {
	checkpoint, err := i.config.Client.GetCheckpoint(ctx, seq)
	if err != nil {
		return fmt.Errorf("fetch checkpoint %d: %w", seq, err)
	}
	digests := make([]string, 0, len(checkpoint.Transactions))
	for _, tx := range checkpoint.Transactions {
		digests = append(digests, tx.Digest)
	}
	var values []extract.ProcessedValue
	for _, proc := range i.processors {
		values = append(values, proc.ProcessCheckpoint(ctx, seq, digests)...)
	}
	var rowsAffected int64
	if len(values) > 0 {
		rowsAffected, err = i.config.Database.Commit(values)
		if err != nil {
			return fmt.Errorf("commit checkpoint %d: %w", seq, err)
		}
	}
	i.metrics.checkpointsProcessed.Inc()
	i.metrics.valuesExtracted.Add(float64(len(values)))
	i.metrics.rowsAffected.Add(float64(rowsAffected))
	if len(values) > 0 {
		i.logger.Debug(
			"checkpoint committed",
			"sequence_number", seq,
			"transactions", len(digests),
			"values", len(values),
			"rows_affected", rowsAffected,
		)
	}
	if i.config.EventBus != nil {
		i.config.EventBus.Publish(
			event.CheckpointProcessedEventType,
			event.NewEvent(
				event.CheckpointProcessedEventType,
				event.CheckpointProcessedEvent{
					SequenceNumber:   seq,
					TransactionCount: len(digests),
					ValueCount:       len(values),
					RowsAffected:     rowsAffected,
				},
			),
		)
	}
	return nil
}

// recordFailure dead-letters a failed checkpoint so the window can
// still advance past it
func (i *Indexer) recordFailure(seq uint64, procErr error) {
	i.logger.Error(
		"checkpoint processing failed",
		"sequence_number", seq,
		"error", procErr,
	)
	i.metrics.checkpointsFailed.Inc()
	if err := i.config.Database.RecordFailedCheckpoint(seq, procErr); err != nil {
		i.logger.Error(
			"failed to record dead-lettered checkpoint",
			"sequence_number", seq,
			"error", err,
		)
	}
	if i.config.EventBus != nil {
		i.config.EventBus.Publish(
			event.CheckpointFailedEventType,
			event.NewEvent(
				event.CheckpointFailedEventType,
				event.CheckpointFailedEvent{
					SequenceNumber: seq,
					Error:          procErr,
				},
			),
		)
	}
}

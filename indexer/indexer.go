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

// Package indexer drives the checkpoint ingestion loop: it tails the
// ledger's checkpoint stream from the persisted watermark, schedules
// bounded-concurrency batches, and commits extracted records through
// the database layer.
package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/sealmeet-indexer/database"
	"github.com/blinklabs-io/sealmeet-indexer/event"
	"github.com/blinklabs-io/sealmeet-indexer/extract"
	"github.com/blinklabs-io/sealmeet-indexer/sui"
	"github.com/prometheus/client_golang/prometheus"
)

// State represents the lifecycle state of the indexer
type State string

const (
	StateInit       State = "INIT"
	StateRunning    State = "RUNNING"
	StateStopped    State = "STOPPED"
	StateTerminated State = "TERMINATED"
)

// Config describes the dependencies and tuning knobs for an Indexer
type Config struct {
	Logger               *slog.Logger
	Client               sui.Client
	Database             *database.Database
	EventBus             *event.EventBus
	PromRegistry         prometheus.Registerer
	PackageID            string
	CheckpointBufferSize int
	IngestConcurrency    int
	RetryInterval        time.Duration
	FirstCheckpoint      *uint64
	LastCheckpoint       *uint64
}

// Indexer tails the checkpoint stream and projects tagged objects into
// the relational store. It is resumable: on startup it picks up from
// the persisted watermark and reprocesses nothing below it.
type Indexer struct {
	config     Config
	logger     *slog.Logger
	processors []extract.Processor
	metrics    *indexerMetrics

	stateMutex sync.Mutex
	state      State
	stopped    bool
}

// New creates an Indexer from the provided config. The checkpoint
// decoders are bound to the configured package ID here, so a package
// ID change requires a restart.
func New(cfg Config) (*Indexer, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("indexer: no ledger client provided")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("indexer: no database provided")
	}
	if cfg.PackageID == "" {
		return nil, fmt.Errorf("indexer: no package ID provided")
	}
	if cfg.CheckpointBufferSize <= 0 {
		return nil, fmt.Errorf(
			"indexer: checkpoint buffer size must be positive, got %d",
			cfg.CheckpointBufferSize,
		)
	}
	if cfg.IngestConcurrency <= 0 {
		return nil, fmt.Errorf(
			"indexer: ingest concurrency must be positive, got %d",
			cfg.IngestConcurrency,
		)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	registry := extract.NewRegistry(cfg.PackageID)
	i := &Indexer{
		config: cfg,
		logger: logger.With("component", "indexer"),
		processors: []extract.Processor{
			extract.NewRoomProcessor(cfg.Client, registry, logger),
			extract.NewMetadataProcessor(cfg.Client, registry, logger),
		},
		metrics: newIndexerMetrics(cfg.PromRegistry),
		state:   StateInit,
	}
	return i, nil
}

// State returns the current lifecycle state
func (i *Indexer) State() State {
	i.stateMutex.Lock()
	defer i.stateMutex.Unlock()
	return i.state
}

// Stop requests a graceful stop. The in-flight batch runs to
// completion before the loop exits.
func (i *Indexer) Stop() {
	i.stateMutex.Lock()
	defer i.stateMutex.Unlock()
	i.stopped = true
}

func (i *Indexer) setState(s State) {
	i.stateMutex.Lock()
	defer i.stateMutex.Unlock()
	i.state = s
}

func (i *Indexer) isStopped() bool {
	i.stateMutex.Lock()
	defer i.stateMutex.Unlock()
	return i.stopped
}

// Run executes the ingestion loop until the context is canceled, Stop
// is called, or the configured last checkpoint has been processed.
// Transient errors (RPC failures, store errors on the tip query) are
// logged and retried after the retry interval rather than aborting.
func (i *Indexer) Run(ctx context.Context) error {
	cursor, err := i.startCursor()
	if err != nil {
		return err
	}
	i.logger.Info(
		"starting checkpoint ingestion",
		"cursor", cursor,
		"buffer_size", i.config.CheckpointBufferSize,
		"concurrency", i.config.IngestConcurrency,
	)
	i.setState(StateRunning)
	for {
		if ctx.Err() != nil {
			i.setState(StateStopped)
			return ctx.Err()
		}
		if i.isStopped() {
			i.logger.Info("stop requested, shutting down", "cursor", cursor)
			i.setState(StateStopped)
			return nil
		}
		if i.config.LastCheckpoint != nil && cursor >= *i.config.LastCheckpoint {
			i.logger.Info(
				"reached configured last checkpoint",
				"last_checkpoint", *i.config.LastCheckpoint,
			)
			i.setState(StateTerminated)
			return nil
		}
		tip, err := i.config.Client.LatestCheckpointNumber(ctx)
		if err != nil {
			i.logger.Error(
				"failed to query latest checkpoint",
				"error", err,
			)
			if err := i.sleep(ctx); err != nil {
				i.setState(StateStopped)
				return err
			}
			continue
		}
		i.metrics.remoteTip.Set(float64(tip))
		end := tip
		if i.config.LastCheckpoint != nil && *i.config.LastCheckpoint < end {
			end = *i.config.LastCheckpoint
		}
		if cursor >= end {
			if err := i.sleep(ctx); err != nil {
				i.setState(StateStopped)
				return err
			}
			continue
		}
		next, err := i.processRange(ctx, cursor+1, end)
		if err != nil {
			// Range-level failures leave the cursor where it was so
			// the next iteration retries the same window
			i.logger.Error(
				"checkpoint range processing failed",
				"from", cursor+1,
				"to", end,
				"error", err,
			)
			if err := i.sleep(ctx); err != nil {
				i.setState(StateStopped)
				return err
			}
			continue
		}
		cursor = next
	}
}

// startCursor determines the first cursor position: the persisted
// watermark, fast-forwarded to just below the configured first
// checkpoint when that is higher.
func (i *Indexer) startCursor() (uint64, error) {
	cursor, err := i.config.Database.LatestCheckpoint()
	if err != nil {
		return 0, fmt.Errorf("load watermark: %w", err)
	}
	if i.config.FirstCheckpoint != nil && *i.config.FirstCheckpoint > 0 {
		if first := *i.config.FirstCheckpoint - 1; first > cursor {
			i.logger.Info(
				"fast-forwarding cursor to configured first checkpoint",
				"watermark", cursor,
				"first_checkpoint", *i.config.FirstCheckpoint,
			)
			cursor = first
		}
	}
	return cursor, nil
}

func (i *Indexer) sleep(ctx context.Context) error {
	interval := i.config.RetryInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

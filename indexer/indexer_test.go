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
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/sealmeet-indexer/database"
	"github.com/blinklabs-io/sealmeet-indexer/sui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPackageId = "0x1111111111111111111111111111111111111111111111111111111111111111"

func TestPartitionRange(t *testing.T) {
	tests := []struct {
		name     string
		from     uint64
		to       uint64
		size     int
		expected []checkpointRange
	}{
		{
			name: "uneven tail",
			from: 1,
			to:   450,
			size: 200,
			expected: []checkpointRange{
				{from: 1, to: 200},
				{from: 201, to: 400},
				{from: 401, to: 450},
			},
		},
		{
			name: "window into sub-batches",
			from: 1,
			to:   200,
			size: 50,
			expected: []checkpointRange{
				{from: 1, to: 50},
				{from: 51, to: 100},
				{from: 101, to: 150},
				{from: 151, to: 200},
			},
		},
		{
			name:     "single span",
			from:     96,
			to:       100,
			size:     200,
			expected: []checkpointRange{{from: 96, to: 100}},
		},
		{
			name:     "exact multiple",
			from:     1,
			to:       4,
			size:     2,
			expected: []checkpointRange{{from: 1, to: 2}, {from: 3, to: 4}},
		},
		{
			name:     "size one",
			from:     7,
			to:       9,
			size:     1,
			expected: []checkpointRange{{from: 7, to: 7}, {from: 8, to: 8}, {from: 9, to: 9}},
		},
		{
			name:     "empty range",
			from:     10,
			to:       9,
			size:     5,
			expected: nil,
		},
		{
			name:     "invalid size",
			from:     1,
			to:       10,
			size:     0,
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(
				t,
				tt.expected,
				partitionRange(tt.from, tt.to, tt.size),
			)
		})
	}
}

// stubClient serves empty checkpoints and records which sequences were
// fetched. Sequences listed in failSeqs fail every fetch.
type stubClient struct {
	tip      uint64
	failSeqs map[uint64]bool

	mutex   sync.Mutex
	fetched map[uint64]int
}

func (c *stubClient) LatestCheckpointNumber(
	_ context.Context,
) (uint64, error) {
	return c.tip, nil
}

func (c *stubClient) GetCheckpoint(
	_ context.Context,
	seq uint64,
) (*sui.Checkpoint, error) {
	c.mutex.Lock()
	if c.fetched == nil {
		c.fetched = make(map[uint64]int)
	}
	c.fetched[seq]++
	c.mutex.Unlock()
	if c.failSeqs[seq] {
		return nil, errors.New("simulated fetch failure")
	}
	return &sui.Checkpoint{}, nil
}

func (c *stubClient) GetTransactionBlock(
	_ context.Context,
	_ string,
	_ sui.TransactionBlockOptions,
) (*sui.TransactionBlock, error) {
	return nil, errors.New("no transactions in stub")
}

func (c *stubClient) GetObject(
	_ context.Context,
	_ string,
	_ sui.ObjectOptions,
) (*sui.ObjectResponse, error) {
	return nil, errors.New("no objects in stub")
}

func (c *stubClient) fetchedSeqs() map[uint64]int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := make(map[uint64]int, len(c.fetched))
	for k, v := range c.fetched {
		out[k] = v
	}
	return out
}

func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{
		ConnectionString: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestRunResumesFromWatermark(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SetWatermark(95))
	client := &stubClient{tip: 100}
	last := uint64(100)
	idx, err := New(Config{
		Client:               client,
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 50,
		IngestConcurrency:    10,
		RetryInterval:        time.Millisecond,
		LastCheckpoint:       &last,
	})
	require.NoError(t, err)
	require.NoError(t, idx.Run(context.Background()))
	assert.Equal(t, StateTerminated, idx.State())
	// Only the checkpoints above the watermark were fetched
	fetched := client.fetchedSeqs()
	assert.Len(t, fetched, 5)
	for seq := uint64(96); seq <= 100; seq++ {
		assert.Equal(t, 1, fetched[seq], "checkpoint %d", seq)
	}
	cursor, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), cursor)
}

func TestRunDeadLettersFailedCheckpoint(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SetWatermark(95))
	client := &stubClient{
		tip:      100,
		failSeqs: map[uint64]bool{98: true},
	}
	last := uint64(100)
	idx, err := New(Config{
		Client:               client,
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 50,
		IngestConcurrency:    10,
		RetryInterval:        time.Millisecond,
		LastCheckpoint:       &last,
	})
	require.NoError(t, err)
	require.NoError(t, idx.Run(context.Background()))
	// The watermark advanced past the failure
	cursor, err := db.LatestCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), cursor)
	// and the gap is durably recorded
	failed, err := db.FailedCheckpoints()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, uint64(98), failed[0].Sequence)
	assert.Contains(t, failed[0].LastError, "simulated fetch failure")
}

func TestRunFirstCheckpointFastForward(t *testing.T) {
	db := openTestDB(t)
	client := &stubClient{tip: 100}
	first := uint64(99)
	last := uint64(100)
	idx, err := New(Config{
		Client:               client,
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 50,
		IngestConcurrency:    10,
		RetryInterval:        time.Millisecond,
		FirstCheckpoint:      &first,
		LastCheckpoint:       &last,
	})
	require.NoError(t, err)
	require.NoError(t, idx.Run(context.Background()))
	fetched := client.fetchedSeqs()
	assert.Len(t, fetched, 2)
	assert.Equal(t, 1, fetched[99])
	assert.Equal(t, 1, fetched[100])
}

func TestRunStops(t *testing.T) {
	db := openTestDB(t)
	// Tip equals the watermark, so the loop just idles until stopped
	require.NoError(t, db.SetWatermark(100))
	client := &stubClient{tip: 100}
	idx, err := New(Config{
		Client:               client,
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 50,
		IngestConcurrency:    10,
		RetryInterval:        time.Millisecond,
	})
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() {
		done <- idx.Run(context.Background())
	}()
	time.Sleep(50 * time.Millisecond)
	idx.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for indexer to stop")
	}
	assert.Equal(t, StateStopped, idx.State())
	assert.Empty(t, client.fetchedSeqs())
}

func TestNewValidatesConfig(t *testing.T) {
	db := openTestDB(t)
	_, err := New(Config{
		Client:               &stubClient{},
		Database:             db,
		PackageID:            "",
		CheckpointBufferSize: 1,
		IngestConcurrency:    1,
	})
	assert.Error(t, err)
	_, err = New(Config{
		Client:               &stubClient{},
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 0,
		IngestConcurrency:    1,
	})
	assert.Error(t, err)
	_, err = New(Config{
		Client:               &stubClient{},
		Database:             db,
		PackageID:            testPackageId,
		CheckpointBufferSize: 1,
		IngestConcurrency:    -1,
	})
	assert.Error(t, err)
}

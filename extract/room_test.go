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
	"errors"
	"testing"

	"github.com/blinklabs-io/sealmeet-indexer/sui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves canned transaction blocks and objects
type fakeClient struct {
	tip     uint64
	txs     map[string]*sui.TransactionBlock
	objects map[string]*sui.ObjectResponse
}

func (c *fakeClient) LatestCheckpointNumber(
	_ context.Context,
) (uint64, error) {
	return c.tip, nil
}

func (c *fakeClient) GetCheckpoint(
	_ context.Context,
	seq uint64,
) (*sui.Checkpoint, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeClient) GetTransactionBlock(
	_ context.Context,
	digest string,
	_ sui.TransactionBlockOptions,
) (*sui.TransactionBlock, error) {
	tx, ok := c.txs[digest]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return tx, nil
}

func (c *fakeClient) GetObject(
	_ context.Context,
	id string,
	_ sui.ObjectOptions,
) (*sui.ObjectResponse, error) {
	obj, ok := c.objects[id]
	if !ok {
		return &sui.ObjectResponse{
			Error: &sui.ObjectError{Code: "notExists", ObjectID: id},
		}, nil
	}
	return obj, nil
}

func txWithObjects(digest string, objectIds ...string) *sui.TransactionBlock {
	tx := &sui.TransactionBlock{Digest: digest}
	for _, id := range objectIds {
		tx.ObjectChanges = append(tx.ObjectChanges, sui.ObjectChange{
			Type:     sui.ObjectChangeMutated,
			ObjectID: id,
		})
	}
	return tx
}

func TestRoomProcessorReconcilesParticipants(t *testing.T) {
	client := &fakeClient{
		txs: map[string]*sui.TransactionBlock{
			"digest-1": txWithObjects("digest-1", "0xroom1"),
		},
		objects: map[string]*sui.ObjectResponse{
			"0xroom1": {Data: testRoomObject()},
		},
	}
	processor := NewRoomProcessor(client, NewRegistry(testPackageId), nil)
	values := processor.ProcessCheckpoint(
		context.Background(),
		42,
		[]string{"digest-1"},
	)
	require.Len(t, values, 3)
	room, ok := values[0].(RoomUpsert)
	require.True(t, ok)
	assert.Equal(t, "0xroom1", room.RoomID)
	assert.Equal(t, "active", room.Status)
	assert.Equal(t, uint64(42), room.CheckpointSequenceNumber)
	assert.Equal(t, "digest-1", room.TransactionDigest)
	require.NotNil(t, room.StartedAt)
	assert.Equal(t, uint64(1700000005000), *room.StartedAt)
	assert.Nil(t, room.EndedAt)
	// Host listed in both hosts and participants is emitted once, as HOST
	host, ok := values[1].(ParticipantUpsert)
	require.True(t, ok)
	assert.Equal(t, "0xhost1", host.Address)
	assert.Equal(t, RoleHost, host.Role)
	assert.Nil(t, host.AdminCapID)
	guest, ok := values[2].(ParticipantUpsert)
	require.True(t, ok)
	assert.Equal(t, "0xguest1", guest.Address)
	assert.Equal(t, RoleParticipant, guest.Role)
}

func TestRoomProcessorAnnotatesHostCapability(t *testing.T) {
	capObject := &sui.ObjectData{
		ObjectID: "0xcap1",
		Version:  "1",
		Type:     testPackageId + "::sealmeet::HostCap",
		Content: &sui.ObjectContent{
			Fields: map[string]any{
				"room_id": "0xroom1",
			},
		},
	}
	client := &fakeClient{
		txs: map[string]*sui.TransactionBlock{
			// Capability appears after the room in the change list; the
			// annotation must not depend on object order
			"digest-1": txWithObjects("digest-1", "0xroom1", "0xcap1"),
		},
		objects: map[string]*sui.ObjectResponse{
			"0xroom1": {Data: testRoomObject()},
			"0xcap1":  {Data: capObject},
		},
	}
	processor := NewRoomProcessor(client, NewRegistry(testPackageId), nil)
	values := processor.ProcessCheckpoint(
		context.Background(),
		42,
		[]string{"digest-1"},
	)
	require.Len(t, values, 3)
	host, ok := values[1].(ParticipantUpsert)
	require.True(t, ok)
	assert.Equal(t, RoleHost, host.Role)
	require.NotNil(t, host.AdminCapID)
	assert.Equal(t, "0xcap1", *host.AdminCapID)
}

func TestRoomProcessorEmitsDelete(t *testing.T) {
	client := &fakeClient{
		txs: map[string]*sui.TransactionBlock{
			"digest-1": txWithObjects("digest-1", "0xroom1"),
		},
		objects: map[string]*sui.ObjectResponse{
			// Recognized type with no content: the room was destroyed
			"0xroom1": {
				Data: &sui.ObjectData{
					ObjectID: "0xroom1",
					Type:     testPackageId + "::sealmeet::MeetingRoom",
				},
			},
		},
	}
	processor := NewRoomProcessor(client, NewRegistry(testPackageId), nil)
	values := processor.ProcessCheckpoint(
		context.Background(),
		42,
		[]string{"digest-1"},
	)
	require.Len(t, values, 1)
	del, ok := values[0].(RoomDelete)
	require.True(t, ok)
	assert.Equal(t, "0xroom1", del.RoomID)
}

func TestRoomProcessorSkipsFailedTransaction(t *testing.T) {
	client := &fakeClient{
		txs: map[string]*sui.TransactionBlock{
			"digest-2": txWithObjects("digest-2", "0xroom1"),
		},
		objects: map[string]*sui.ObjectResponse{
			"0xroom1": {Data: testRoomObject()},
		},
	}
	processor := NewRoomProcessor(client, NewRegistry(testPackageId), nil)
	// digest-1 fails to fetch; its contribution is omitted, not fatal
	values := processor.ProcessCheckpoint(
		context.Background(),
		42,
		[]string{"digest-1", "digest-2"},
	)
	require.Len(t, values, 3)
	room, ok := values[0].(RoomUpsert)
	require.True(t, ok)
	assert.Equal(t, "digest-2", room.TransactionDigest)
}

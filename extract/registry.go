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
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/sealmeet-indexer/sui"
)

// Kind classifies a ledger object against the domain's object catalog
type Kind int

const (
	KindUnknown Kind = iota
	KindRoom
	KindCapability
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindCapability:
		return "capability"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// dynamicFieldWrapper is the fully-qualified prefix of the framework type
// that wraps a metadata sub-object attached to a room
const dynamicFieldWrapper = "0x0000000000000000000000000000000000000000000000000000000000000002::dynamic_field::Field"

// Room is the decoded state of an on-chain meeting room object
type Room struct {
	ObjectID        string
	Title           string
	Hosts           []string
	Participants    []string
	SealPolicyID    string
	StatusCode      uint64
	MaxParticipants uint64
	RequireApproval bool
	CreatedAt       uint64
	StartedAt       uint64
	EndedAt         uint64
}

// HostCapability is the decoded state of a host admin-capability object
type HostCapability struct {
	CapID     string
	RoomID    string
	GrantedAt uint64
}

// Metadata is the decoded state of a room's metadata sub-object
type Metadata struct {
	DynamicFieldID  string
	DfVersion       uint64
	Language        string
	Timezone        string
	RecordingBlobID *big.Int
}

// Decoded is the tagged result of classifying a fetched object. Exactly
// one of the payload fields is set for a recognized kind; Deleted marks a
// recognized object whose fetched content was empty, which the extractors
// turn into a delete record.
type Decoded struct {
	Kind       Kind
	Deleted    bool
	Room       *Room
	Capability *HostCapability
	Metadata   *Metadata
}

type decodeFunc func(data *sui.ObjectData) (Decoded, error)

type registryEntry struct {
	kind   Kind
	decode decodeFunc
}

// Registry maps recognized fully-qualified type strings to decoders. It
// centralizes the domain's object catalog so classification is a single
// exact-match lookup rather than scattered string matching.
type Registry struct {
	packageID string
	entries   map[string]registryEntry
}

// NewRegistry builds the object catalog for a deployed domain package
func NewRegistry(packageID string) *Registry {
	r := &Registry{
		packageID: packageID,
		entries:   make(map[string]registryEntry),
	}
	r.register(
		fmt.Sprintf("%s::sealmeet::MeetingRoom", packageID),
		KindRoom,
		decodeRoom,
	)
	r.register(
		fmt.Sprintf("%s::sealmeet::HostCap", packageID),
		KindCapability,
		decodeHostCapability,
	)
	r.register(
		fmt.Sprintf(
			"%s<vector<u8>, %s::sealmeet::MeetingMetadata>",
			dynamicFieldWrapper,
			packageID,
		),
		KindMetadata,
		decodeMetadataField,
	)
	return r
}

func (r *Registry) register(typeName string, kind Kind, decode decodeFunc) {
	r.entries[typeName] = registryEntry{kind: kind, decode: decode}
}

// Classify matches an object's fully-qualified type string against the
// catalog and decodes its typed fields. Unrecognized types come back as
// KindUnknown. A recognized object with empty content comes back with
// Deleted set and no payload.
func (r *Registry) Classify(data *sui.ObjectData) (Decoded, error) {
	if data == nil || data.Type == "" {
		return Decoded{Kind: KindUnknown}, nil
	}
	entry, ok := r.entries[data.Type]
	if !ok {
		return Decoded{Kind: KindUnknown}, nil
	}
	if data.Content == nil || data.Content.Fields == nil {
		return Decoded{Kind: entry.kind, Deleted: true}, nil
	}
	return entry.decode(data)
}

func decodeRoom(data *sui.ObjectData) (Decoded, error) {
	fields := data.Content.Fields
	room := &Room{
		ObjectID:        data.ObjectID,
		Title:           fieldString(fields, "title"),
		Hosts:           fieldStrings(fields, "hosts"),
		Participants:    fieldStrings(fields, "participants"),
		SealPolicyID:    fieldString(fields, "seal_policy_id"),
		StatusCode:      fieldUint64(fields, "status"),
		MaxParticipants: fieldUint64(fields, "max_participants"),
		RequireApproval: fieldBool(fields, "require_approval"),
		CreatedAt:       fieldUint64(fields, "created_at"),
		StartedAt:       fieldUint64(fields, "started_at"),
		EndedAt:         fieldUint64(fields, "ended_at"),
	}
	return Decoded{Kind: KindRoom, Room: room}, nil
}

func decodeHostCapability(data *sui.ObjectData) (Decoded, error) {
	fields := data.Content.Fields
	roomID := fieldString(fields, "room_id")
	if roomID == "" {
		return Decoded{}, errors.New("host capability missing room id")
	}
	cap := &HostCapability{
		CapID:     data.ObjectID,
		RoomID:    roomID,
		GrantedAt: fieldUint64(fields, "granted_at"),
	}
	return Decoded{Kind: KindCapability, Capability: cap}, nil
}

func decodeMetadataField(data *sui.ObjectData) (Decoded, error) {
	fields := data.Content.Fields
	// Dynamic field structure: { id, name, value } with the metadata
	// payload nested under value
	payload, ok := fields["value"].(map[string]any)
	if !ok {
		payload = fields
	}
	md := &Metadata{
		DynamicFieldID:  data.ObjectID,
		DfVersion:       data.VersionNumber(),
		Language:        fieldString(payload, "language"),
		Timezone:        fieldString(payload, "timezone"),
		RecordingBlobID: fieldBigInt(payload, "recording_blob_id"),
	}
	return Decoded{Kind: KindMetadata, Metadata: md}, nil
}

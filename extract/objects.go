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
	"log/slog"

	"github.com/blinklabs-io/sealmeet-indexer/sui"
	"golang.org/x/sync/errgroup"
)

// ReferencedObjectIDs derives the set of object ids touched by a
// transaction: every created/mutated/published/transferred change (or any
// change otherwise carrying an object id), nested object references, and
// balance changes whose owner resolves to an object. The balance-change
// path is what surfaces dynamic sub-objects that never appear as
// top-level change entries.
func ReferencedObjectIDs(tx *sui.TransactionBlock) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, change := range tx.ObjectChanges {
		switch change.Type {
		case sui.ObjectChangeCreated,
			sui.ObjectChangeMutated,
			sui.ObjectChangePublished,
			sui.ObjectChangeTransferred:
			add(change.ObjectID)
		default:
			// Generic fallback for any change carrying an object id
			add(change.ObjectID)
		}
		if change.Object != nil {
			add(change.Object.ObjectID)
		}
	}
	for _, bc := range tx.BalanceChanges {
		add(bc.Owner.ObjectOwner)
	}
	return ids
}

var transactionBlockOptions = sui.TransactionBlockOptions{
	ShowInput:          true,
	ShowEffects:        true,
	ShowEvents:         true,
	ShowObjectChanges:  true,
	ShowBalanceChanges: true,
}

var objectOptions = sui.ObjectOptions{
	ShowType:    true,
	ShowContent: true,
	ShowOwner:   true,
}

// fetchObjects fetches the current state of each referenced object
// concurrently. A fetch failure for a single object only excludes that
// object from the pass; results are aggregated after all fetches join, so
// no slot is written concurrently.
func fetchObjects(
	ctx context.Context,
	client sui.Client,
	ids []string,
	logger *slog.Logger,
) []*sui.ObjectData {
	results := make([]*sui.ObjectData, len(ids))
	var g errgroup.Group
	for idx, id := range ids {
		g.Go(func() error {
			resp, err := client.GetObject(ctx, id, objectOptions)
			if err != nil {
				logger.Debug(
					"object fetch failed, excluding from pass",
					"component", "extract",
					"object_id", id,
					"error", err,
				)
				return nil
			}
			if resp != nil {
				results[idx] = resp.Data
			}
			return nil
		})
	}
	// Workers never return errors; Wait is a join
	_ = g.Wait()
	out := make([]*sui.ObjectData, 0, len(results))
	for _, data := range results {
		if data != nil {
			out = append(out, data)
		}
	}
	return out
}

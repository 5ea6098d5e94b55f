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

package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Client is the ledger RPC boundary consumed by the indexer
type Client interface {
	LatestCheckpointNumber(ctx context.Context) (uint64, error)
	GetCheckpoint(ctx context.Context, seq uint64) (*Checkpoint, error)
	GetTransactionBlock(
		ctx context.Context,
		digest string,
		opts TransactionBlockOptions,
	) (*TransactionBlock, error)
	GetObject(
		ctx context.Context,
		id string,
		opts ObjectOptions,
	) (*ObjectResponse, error)
}

const defaultRequestTimeout = 30 * time.Second

// RpcError is a JSON-RPC error returned by the ledger node
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RpcError       `json:"error"`
}

// RpcClient speaks JSON-RPC 2.0 over HTTP to a Sui fullnode
type RpcClient struct {
	url        string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewClient creates a ledger client for the given fullnode URL
func NewClient(url string) *RpcClient {
	return &RpcClient{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

func (c *RpcClient) call(
	ctx context.Context,
	method string,
	params []any,
	result any,
) error {
	reqBody, err := json.Marshal(rpcRequest{
		JsonRpc: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url,
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// Drain body so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"%s: unexpected HTTP status %d",
			method,
			resp.StatusCode,
		)
	}
	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%s: decoding result: %w", method, err)
		}
	}
	return nil
}

// LatestCheckpointNumber returns the highest checkpoint sequence number
// known to the ledger node
func (c *RpcClient) LatestCheckpointNumber(
	ctx context.Context,
) (uint64, error) {
	var result string
	err := c.call(
		ctx,
		"sui_getLatestCheckpointSequenceNumber",
		[]any{},
		&result,
	)
	if err != nil {
		return 0, err
	}
	seq, err := strconv.ParseUint(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing checkpoint sequence number: %w", err)
	}
	return seq, nil
}

// GetCheckpoint fetches a checkpoint by sequence number
func (c *RpcClient) GetCheckpoint(
	ctx context.Context,
	seq uint64,
) (*Checkpoint, error) {
	var result Checkpoint
	err := c.call(
		ctx,
		"sui_getCheckpoint",
		[]any{strconv.FormatUint(seq, 10)},
		&result,
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransactionBlock fetches a full transaction record by digest
func (c *RpcClient) GetTransactionBlock(
	ctx context.Context,
	digest string,
	opts TransactionBlockOptions,
) (*TransactionBlock, error) {
	var result TransactionBlock
	err := c.call(
		ctx,
		"sui_getTransactionBlock",
		[]any{digest, opts},
		&result,
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetObject fetches an object's current state by id
func (c *RpcClient) GetObject(
	ctx context.Context,
	id string,
	opts ObjectOptions,
) (*ObjectResponse, error) {
	var result ObjectResponse
	err := c.call(
		ctx,
		"sui_getObject",
		[]any{id, opts},
		&result,
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

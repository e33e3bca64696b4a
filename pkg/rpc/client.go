package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainClient defines the chain node operations the exporters depend on.
// All calls are read-only. Subscriptions deliver until the connection drops,
// at which point the subscription's Err channel yields the transport error.
type ChainClient interface {
	// Close closes the underlying connection.
	Close()

	// BlockNumber returns the current head block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// HeaderByNumber returns the header of the given block; nil means the head.
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// FilterLogs retrieves logs matching the given filter query.
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// SubscribeFilterLogs streams new logs matching the query.
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// SubscribeNewHead streams new chain head headers.
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)

	// CallContract executes a read-only contract call.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

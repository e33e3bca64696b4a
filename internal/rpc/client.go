package rpc

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	pkgrpc "github.com/goran-ethernal/ChainExporter/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.ChainClient interface.
var _ pkgrpc.ChainClient = (*Client)(nil)

// Client wraps the go-ethereum client of a single WebSocket or IPC connection.
// Read calls are retried with backoff when a retry configuration is given;
// subscriptions are never retried, their failure means the connection is gone.
type Client struct {
	eth   *ethclient.Client
	rpc   *rpc.Client
	retry *config.RetryConfig
}

// Dial opens a connection to the given endpoint. WebSocket URLs and IPC paths
// are both accepted since subscriptions need a persistent transport.
func Dial(ctx context.Context, endpoint string, retry *config.RetryConfig) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return NewClient(rpcClient, retry), nil
}

// NewClient wraps an already established rpc connection.
func NewClient(rpcClient *rpc.Client, retry *config.RetryConfig) *Client {
	return &Client{
		eth:   ethclient.NewClient(rpcClient),
		rpc:   rpcClient,
		retry: retry,
	}
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// BlockNumber returns the most recent block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return call(ctx, c.retry, "eth_blockNumber", func() (uint64, error) {
		return c.eth.BlockNumber(ctx)
	})
}

// HeaderByNumber retrieves a block header, nil number meaning the latest block.
func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return call(ctx, c.retry, "eth_getBlockByNumber", func() (*types.Header, error) {
		return c.eth.HeaderByNumber(ctx, number)
	})
}

// FilterLogs retrieves logs matching the given filter query.
// A "too many results" answer is returned as is so the caller can narrow the range.
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return call(ctx, c.retry, "eth_getLogs", func() ([]types.Log, error) {
		return c.eth.FilterLogs(ctx, query)
	})
}

// SubscribeFilterLogs subscribes to new logs matching the query.
func (c *Client) SubscribeFilterLogs(
	ctx context.Context,
	query ethereum.FilterQuery,
	ch chan<- types.Log,
) (ethereum.Subscription, error) {
	RPCMethodInc("eth_subscribe_logs")
	sub, err := c.eth.SubscribeFilterLogs(ctx, query, ch)
	if err != nil {
		RPCMethodError("eth_subscribe_logs", errorType(err))
	}
	return sub, err
}

// SubscribeNewHead subscribes to new chain heads.
func (c *Client) SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error) {
	RPCMethodInc("eth_subscribe_newHeads")
	sub, err := c.eth.SubscribeNewHead(ctx, ch)
	if err != nil {
		RPCMethodError("eth_subscribe_newHeads", errorType(err))
	}
	return sub, err
}

// CallContract executes a read-only message call.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return call(ctx, c.retry, "eth_call", func() ([]byte, error) {
		return c.eth.CallContract(ctx, msg, blockNumber)
	})
}

// call runs fn with metrics and the optional retry policy.
func call[T any](ctx context.Context, cfg *config.RetryConfig, method string, fn func() (T, error)) (T, error) {
	var result T

	start := time.Now()
	err := retryWithBackoff(ctx, cfg, method, func() error {
		RPCMethodInc(method)

		var err error
		result, err = fn()
		return err
	})
	RPCMethodDuration(method, time.Since(start))

	if err != nil {
		RPCMethodError(method, errorType(err))
	}

	return result, err
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	case IsConnectionError(err):
		return "connection"
	case retryableError(err):
		return "transient"
	default:
		if ok, _ := IsTooManyResultsError(err); ok {
			return "too_many_results"
		}
		return "other"
	}
}

package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	rpcmocks "github.com/goran-ethernal/ChainExporter/internal/rpc/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testAddress = common.HexToAddress("0x1111111111111111111111111111111111111111")

func baseQuery() ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{testAddress},
		Topics:    [][]common.Hash{{common.HexToHash("0xaaaa")}},
	}
}

func rangeIs(from, to uint64) any {
	return mock.MatchedBy(func(q ethereum.FilterQuery) bool {
		return q.FromBlock != nil && q.ToBlock != nil &&
			q.FromBlock.Uint64() == from && q.ToBlock.Uint64() == to &&
			len(q.Addresses) == 1 && q.Addresses[0] == testAddress
	})
}

func testLog(block uint64, index uint) types.Log {
	return types.Log{Address: testAddress, BlockNumber: block, Index: index}
}

func setupTestLogFetcher(t *testing.T, batch uint64) (*LogFetcher, *rpcmocks.ChainClient) {
	t.Helper()

	client := rpcmocks.NewChainClient(t)
	log, err := logger.NewLogger("error", true)
	require.NoError(t, err)

	return NewLogFetcher(batch, client, log), client
}

func TestWindows(t *testing.T) {
	tests := []struct {
		name     string
		from, to uint64
		batch    uint64
		expected []Window
	}{
		{
			name: "three windows sharing boundaries",
			from: 0, to: 250000, batch: 100000,
			expected: []Window{{0, 100000}, {100000, 200000}, {200000, 250000}},
		},
		{
			name: "exact multiple of batch",
			from: 0, to: 200000, batch: 100000,
			expected: []Window{{0, 100000}, {100000, 200000}},
		},
		{
			name: "range smaller than batch",
			from: 10, to: 500, batch: 100000,
			expected: []Window{{10, 500}},
		},
		{
			name: "single block",
			from: 42, to: 42, batch: 100000,
			expected: []Window{{42, 42}},
		},
		{
			name: "from after to",
			from: 43, to: 42, batch: 100000,
			expected: nil,
		},
		{
			name: "zero batch uses default",
			from: 0, to: 150000, batch: 0,
			expected: []Window{{0, 100000}, {100000, 150000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Windows(tt.from, tt.to, tt.batch))
		})
	}
}

func TestFetchLogs_ThreeWindows(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 100000)
	ctx := context.Background()

	client.EXPECT().FilterLogs(ctx, rangeIs(0, 100000)).
		Return([]types.Log{testLog(5, 0), testLog(100000, 1)}, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(100000, 200000)).
		Return([]types.Log{testLog(100000, 1), testLog(100000, 2), testLog(150000, 0)}, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(200000, 250000)).
		Return([]types.Log{testLog(250000, 3)}, nil).Once()

	logs, err := lf.FetchLogs(ctx, baseQuery(), 0, 250000)
	require.NoError(t, err)
	require.Equal(t, []types.Log{
		testLog(5, 0),
		testLog(100000, 1),
		testLog(100000, 2),
		testLog(150000, 0),
		testLog(250000, 3),
	}, logs)
}

func TestFetchLogs_ResolvesLatestOnce(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 100)
	ctx := context.Background()

	client.EXPECT().BlockNumber(ctx).Return(250, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(50, 150)).Return(nil, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(150, 250)).Return([]types.Log{testLog(200, 0)}, nil).Once()

	logs, err := lf.FetchLogs(ctx, baseQuery(), 50, Latest)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestFetchLogs_LatestFails(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 100)
	ctx := context.Background()

	client.EXPECT().BlockNumber(ctx).Return(0, errors.New("connection refused")).Once()

	_, err := lf.FetchLogs(ctx, baseQuery(), 0, Latest)
	require.ErrorContains(t, err, "failed to resolve latest block")
}

func TestFetchLogs_FromAfterTo(t *testing.T) {
	lf, _ := setupTestLogFetcher(t, 100)

	logs, err := lf.FetchLogs(context.Background(), baseQuery(), 300, 200)
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestFetchLogs_WindowFailureAborts(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 100)
	ctx := context.Background()

	client.EXPECT().FilterLogs(ctx, rangeIs(0, 100)).Return([]types.Log{testLog(1, 0)}, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(100, 200)).Return(nil, errors.New("internal error")).Once()

	logs, err := lf.FetchLogs(ctx, baseQuery(), 0, 300)
	require.ErrorContains(t, err, "failed to fetch logs in window [100, 200]")
	require.Nil(t, logs)
}

func TestFetchLogs_SplitsOnTooManyResults(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 1000)
	ctx := context.Background()

	client.EXPECT().FilterLogs(ctx, rangeIs(0, 1000)).
		Return(nil, errors.New("query returned more than 10000 results")).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(0, 500)).
		Return([]types.Log{testLog(10, 0)}, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(501, 1000)).
		Return([]types.Log{testLog(900, 0)}, nil).Once()

	logs, err := lf.FetchLogs(ctx, baseQuery(), 0, 1000)
	require.NoError(t, err)
	require.Equal(t, []types.Log{testLog(10, 0), testLog(900, 0)}, logs)
}

func TestFetchLogs_SplitsAtSuggestedRange(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 1000)
	ctx := context.Background()

	client.EXPECT().FilterLogs(ctx, rangeIs(0, 1000)).
		Return(nil, errors.New("query returned more than 10000 results. Try with this block range [0x0, 0xc8].")).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(0, 200)).Return(nil, nil).Once()
	client.EXPECT().FilterLogs(ctx, rangeIs(201, 1000)).Return([]types.Log{testLog(700, 4)}, nil).Once()

	logs, err := lf.FetchLogs(ctx, baseQuery(), 0, 1000)
	require.NoError(t, err)
	require.Equal(t, []types.Log{testLog(700, 4)}, logs)
}

func TestFetchLogs_SingleBlockTooManyResults(t *testing.T) {
	lf, client := setupTestLogFetcher(t, 1000)
	ctx := context.Background()

	client.EXPECT().FilterLogs(ctx, rangeIs(7, 7)).
		Return(nil, errors.New("too many results")).Once()

	_, err := lf.FetchLogs(ctx, baseQuery(), 7, 7)
	require.ErrorContains(t, err, "cannot split range further")
}

func TestFetchLogs_ContextCancelled(t *testing.T) {
	lf, _ := setupTestLogFetcher(t, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lf.FetchLogs(ctx, baseQuery(), 0, 1000)
	require.ErrorIs(t, err, context.Canceled)
}

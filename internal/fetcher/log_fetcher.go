package fetcher

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	irpc "github.com/goran-ethernal/ChainExporter/internal/rpc"
	"github.com/goran-ethernal/ChainExporter/pkg/rpc"
)

const (
	// DefaultBatchSize is the number of blocks covered by one log query.
	DefaultBatchSize = 100000

	// Latest makes FetchLogs resolve the upper bound to the current head.
	Latest = ^uint64(0)
)

// Window is an inclusive block range covered by a single log query.
type Window struct {
	From uint64
	To   uint64
}

// Windows splits [from, to] into batch-sized windows. Each window starts at
// the previous window's end block, so consecutive windows share one block.
// For [0, 250000] and a batch of 100000 the result is [0, 100000],
// [100000, 200000] and [200000, 250000].
func Windows(from, to, batch uint64) []Window {
	if from > to {
		return nil
	}
	if batch == 0 {
		batch = DefaultBatchSize
	}

	var windows []Window
	start := from
	for {
		end := to
		if to-start > batch {
			end = start + batch
		}

		windows = append(windows, Window{From: start, To: end})
		if end >= to {
			return windows
		}

		start = end
	}
}

// LogFetcher fetches historical logs in fixed-size block windows.
type LogFetcher struct {
	batchSize uint64
	client    rpc.ChainClient
	log       *logger.Logger
}

// NewLogFetcher creates a new LogFetcher.
func NewLogFetcher(batchSize uint64, client rpc.ChainClient, log *logger.Logger) *LogFetcher {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	return &LogFetcher{
		batchSize: batchSize,
		client:    client,
		log:       log,
	}
}

type logKey struct {
	block uint64
	index uint
}

// FetchLogs returns every log matching query in [from, to], in ascending
// order and without duplicates. When to is Latest it is resolved once to the
// current head before the first window is fetched. Windows are fetched
// sequentially and the first failing window aborts the whole fetch.
func (lf *LogFetcher) FetchLogs(ctx context.Context, query ethereum.FilterQuery, from, to uint64) ([]types.Log, error) {
	if to == Latest {
		head, err := lf.client.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve latest block: %w", err)
		}
		to = head
	}

	windows := Windows(from, to, lf.batchSize)
	if len(windows) == 0 {
		lf.log.Debugw("nothing to fetch", "from", from, "to", to)
		return nil, nil
	}

	lf.log.Infow("fetching logs", "from", from, "to", to, "windows", len(windows))

	var (
		result       []types.Log
		boundary     uint64
		boundarySeen = make(map[logKey]struct{})
	)

	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lf.log.Debugw("fetching window", "from", w.From, "to", w.To)

		logs, err := lf.fetchWindow(ctx, query, w.From, w.To)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logs in window [%d, %d]: %w", w.From, w.To, err)
		}
		WindowsFetchedInc()

		nextSeen := make(map[logKey]struct{})
		for _, l := range logs {
			key := logKey{block: l.BlockNumber, index: l.Index}
			if i > 0 && l.BlockNumber == boundary {
				if _, dup := boundarySeen[key]; dup {
					continue
				}
			}
			if l.BlockNumber == w.To {
				nextSeen[key] = struct{}{}
			}

			result = append(result, l)
		}

		boundary = w.To
		boundarySeen = nextSeen
	}

	LogsFetchedAdd(len(result))
	lf.log.Infow("logs fetched", "from", from, "to", to, "count", len(result))

	return result, nil
}

// fetchWindow queries one window. When the node refuses the range for having
// too many results the window is split at the node's suggested end block, or
// in half, and both parts are fetched in order.
func (lf *LogFetcher) fetchWindow(
	ctx context.Context,
	base ethereum.FilterQuery,
	from, to uint64,
) ([]types.Log, error) {
	query := base
	query.BlockHash = nil
	query.FromBlock = new(big.Int).SetUint64(from)
	query.ToBlock = new(big.Int).SetUint64(to)

	logs, err := lf.client.FilterLogs(ctx, query)
	if err == nil {
		return logs, nil
	}

	ok, errData := irpc.IsTooManyResultsError(err)
	if !ok {
		return nil, err
	}

	if from == to {
		return nil, fmt.Errorf("cannot split range further, single block %d has too many logs: %w", from, err)
	}

	splitAt := from + (to-from)/2
	if suggestedFrom, suggestedTo, ok := irpc.ParseSuggestedBlockRange(errData); ok &&
		suggestedFrom == from && suggestedTo >= from && suggestedTo < to {
		splitAt = suggestedTo
		lf.log.Infof("too many logs, retrying with suggested block range from %d to %d (original range %d to %d)",
			suggestedFrom, suggestedTo, from, to)
	} else {
		lf.log.Infof("too many logs, splitting range %d to %d at block %d", from, to, splitAt)
	}
	WindowSplitsInc()

	left, err := lf.fetchWindow(ctx, base, from, splitAt)
	if err != nil {
		return nil, err
	}

	right, err := lf.fetchWindow(ctx, base, splitAt+1, to)
	if err != nil {
		return nil, err
	}

	return append(left, right...), nil
}

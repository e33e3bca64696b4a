package exporter

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/fetcher"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	pkgexporter "github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"golang.org/x/sync/errgroup"
)

const (
	modeHistorical = "historical"
	modeLive       = "live"

	liveBufferSize = 256

	checkpointSaveTimeout = 5 * time.Second
)

// EventID returns the document id of a log: {block}_{txIndex}_{logIndex}.
func EventID(block uint64, txIndex, logIndex uint) string {
	return fmt.Sprintf("%d_%d_%d", block, txIndex, logIndex)
}

// Event is the stored and broadcast form of one exported log.
type Event struct {
	ID       string    `json:"id"`
	MetaData EventMeta `json:"metaData"`
}

// EventMeta is the decoded log enriched with its block timestamp.
type EventMeta struct {
	Address          string         `json:"address"`
	Event            string         `json:"event"`
	Signature        string         `json:"signature"`
	ReturnValues     map[string]any `json:"returnValues"`
	BlockNumber      uint64         `json:"blockNumber"`
	BlockHash        string         `json:"blockHash"`
	TransactionHash  string         `json:"transactionHash"`
	TransactionIndex uint           `json:"transactionIndex"`
	LogIndex         uint           `json:"logIndex"`
	Timestamp        uint64         `json:"timestamp"`
}

// Status is a point-in-time view of an exporter.
type Status struct {
	Name       string `json:"name"`
	Checkpoint uint64 `json:"checkpoint"`
	Processed  uint64 `json:"processed"`
	Skipped    uint64 `json:"skipped"`
	Failed     uint64 `json:"failed"`
	Live       bool   `json:"live"`
}

// Config is everything an Exporter is built from.
type Config struct {
	Spec       Spec
	Binding    *contracts.Binding
	Store      store.DocumentStore
	Publisher  push.Publisher
	Balances   *BalanceExporter
	StartBlock uint64
	BatchSize  uint64
}

// Exporter runs the validate, persist and broadcast pipeline for one
// contract: a sequential backfill from its checkpoint to the head, followed
// by live logs from a subscription opened before the backfill starts.
type Exporter struct {
	spec       Spec
	binding    *contracts.Binding
	store      store.DocumentStore
	publisher  push.Publisher
	balances   *BalanceExporter
	fetcher    *fetcher.LogFetcher
	checkpoint *Checkpoint
	startBlock uint64
	log        *logger.Logger

	processed atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64
	live      atomic.Bool

	tsMu    sync.Mutex
	tsBlock uint64
	tsValue uint64
	tsValid bool
}

// New creates an exporter. Instances belong to a single session and are not reused.
func New(cfg Config, log *logger.Logger) (*Exporter, error) {
	if cfg.Spec.Name == "" {
		return nil, errors.New("exporter name is required")
	}
	if cfg.Binding == nil {
		return nil, fmt.Errorf("%s: contract binding is required", cfg.Spec.Name)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("%s: store is required", cfg.Spec.Name)
	}
	if log == nil {
		return nil, fmt.Errorf("%s: logger is required", cfg.Spec.Name)
	}
	if cfg.Spec.ExportBalances && cfg.Balances == nil {
		return nil, fmt.Errorf("%s: balance exporter is required", cfg.Spec.Name)
	}

	log = log.WithFields("exporter", cfg.Spec.Name)

	return &Exporter{
		spec:       cfg.Spec,
		binding:    cfg.Binding,
		store:      cfg.Store,
		publisher:  cfg.Publisher,
		balances:   cfg.Balances,
		fetcher:    fetcher.NewLogFetcher(cfg.BatchSize, cfg.Binding.Client(), log),
		checkpoint: NewCheckpoint(cfg.Store, cfg.Spec.Name),
		startBlock: cfg.StartBlock,
		log:        log,
	}, nil
}

// Name returns the exporter name.
func (e *Exporter) Name() string {
	return e.spec.Name
}

// Checkpoint returns the last loaded or saved checkpoint.
func (e *Exporter) Checkpoint() uint64 {
	return e.checkpoint.Value()
}

// Status returns the exporter counters.
func (e *Exporter) Status() Status {
	return Status{
		Name:       e.spec.Name,
		Checkpoint: e.checkpoint.Value(),
		Processed:  e.processed.Load(),
		Skipped:    e.skipped.Load(),
		Failed:     e.failed.Load(),
		Live:       e.live.Load(),
	}
}

// Run exports until ctx is cancelled or a failure stops it.
// A persistence failure returns an error wrapping ErrPersistence, a broken
// live subscription one wrapping ErrLiveStream.
func (e *Exporter) Run(ctx context.Context) error {
	from, err := e.checkpoint.Load(ctx, e.startBlock)
	if err != nil {
		return fmt.Errorf("%s: %w", e.spec.Name, err)
	}
	CheckpointSet(e.spec.Name, from)

	query, err := e.binding.FilterQuery(e.spec.Events)
	if err != nil {
		return fmt.Errorf("%s: failed to build filter: %w", e.spec.Name, err)
	}

	liveLogs := make(chan types.Log, liveBufferSize)
	sub, err := e.binding.Client().SubscribeFilterLogs(ctx, query, liveLogs)
	if err != nil {
		return fmt.Errorf("%s: %w: subscribe: %w", e.spec.Name, pkgexporter.ErrLiveStream, err)
	}
	defer sub.Unsubscribe()

	e.log.Infow("exporter started", "checkpoint", from)

	backfilled := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.backfill(gctx, query, from); err != nil {
			return err
		}
		close(backfilled)
		return nil
	})

	g.Go(func() error {
		return e.follow(gctx, sub, liveLogs, backfilled)
	})

	err = g.Wait()
	e.live.Store(false)
	LiveSet(e.spec.Name, false)

	if e.balances != nil {
		e.balances.Wait()
	}

	if ctx.Err() != nil {
		return nil
	}

	return err
}

func (e *Exporter) backfill(ctx context.Context, query ethereum.FilterQuery, from uint64) error {
	logs, err := e.fetcher.FetchLogs(ctx, query, from, fetcher.Latest)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s: backfill from %d: %w: %w", e.spec.Name, from, pkgexporter.ErrConnectionLost, err)
	}

	e.log.Infow("backfill fetched", "from", from, "logs", len(logs))

	return e.ProcessHistorical(ctx, logs)
}

// ProcessHistorical runs the pipeline over logs in order. The first
// persistence failure halts the batch. When at least one event succeeded the
// checkpoint moves to the block of the last successful event and the
// balances of every collected address are exported.
func (e *Exporter) ProcessHistorical(ctx context.Context, logs []types.Log) error {
	var (
		lastBlock uint64
		succeeded bool
		collected = newAddressSet()
		haltErr   error
	)

	cancelled := false
	for _, l := range logs {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		addrs, err := e.process(ctx, l, modeHistorical)
		if err != nil {
			if errors.Is(err, pkgexporter.ErrPersistence) {
				haltErr = err
				break
			}
			continue
		}

		succeeded = true
		lastBlock = l.BlockNumber
		collected.add(addrs...)
	}

	if cancelled {
		if succeeded {
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), checkpointSaveTimeout)
			defer cancel()
			if err := e.saveCheckpoint(saveCtx, lastBlock); err != nil {
				e.log.Warnw("failed to save checkpoint of interrupted backfill", "block", lastBlock, "error", err)
			}
		}
		return nil
	}

	if succeeded {
		if err := e.saveCheckpoint(ctx, lastBlock); err != nil && haltErr == nil {
			haltErr = err
		}
		e.exportBalances(ctx, collected.list())
	}

	if haltErr != nil {
		e.log.Errorw("backfill halted", "checkpoint", e.checkpoint.Value(), "error", haltErr)
		return fmt.Errorf("%s: %w", e.spec.Name, haltErr)
	}

	e.log.Infow("backfill finished", "events", len(logs), "checkpoint", e.checkpoint.Value())

	return nil
}

func (e *Exporter) follow(
	ctx context.Context,
	sub ethereum.Subscription,
	logs <-chan types.Log,
	backfilled <-chan struct{},
) error {
	select {
	case <-backfilled:
	case err := <-sub.Err():
		return e.streamLost(err)
	case <-ctx.Done():
		return nil
	}

	e.live.Store(true)
	LiveSet(e.spec.Name, true)
	e.log.Infow("following live logs")

	for {
		select {
		case l := <-logs:
			if err := e.ProcessLive(ctx, l); err != nil {
				return err
			}

		case err := <-sub.Err():
			return e.streamLost(err)

		case <-ctx.Done():
			return nil
		}
	}
}

// ProcessLive runs the pipeline for one live log and, on success, advances
// the checkpoint to its block and exports the event's balances.
func (e *Exporter) ProcessLive(ctx context.Context, l types.Log) error {
	addrs, err := e.process(ctx, l, modeLive)
	if err != nil {
		if errors.Is(err, pkgexporter.ErrPersistence) {
			return fmt.Errorf("%s: %w", e.spec.Name, err)
		}
		return nil
	}

	if err := e.saveCheckpoint(ctx, l.BlockNumber); err != nil {
		return fmt.Errorf("%s: %w", e.spec.Name, err)
	}
	e.exportBalances(ctx, addrs)

	return nil
}

func (e *Exporter) streamLost(err error) error {
	if err == nil {
		err = errors.New("subscription closed")
	}
	e.log.Warnw("live log subscription failed", "error", err)

	return fmt.Errorf("%s: %w: %w", e.spec.Name, pkgexporter.ErrLiveStream, err)
}

// process validates, keys, enriches, persists and broadcasts one log and
// returns the addresses it affects. Skipped events return an error wrapping
// ErrInvalidEvent or ErrEnrichment. An event that is already stored counts
// as exported but is not broadcast again.
func (e *Exporter) process(ctx context.Context, l types.Log, mode string) ([]common.Address, error) {
	decoded, err := e.validate(l)
	if err != nil {
		e.skip("invalid", l, err)
		return nil, err
	}

	id := EventID(l.BlockNumber, l.TxIndex, l.Index)

	timestamp, err := e.blockTime(ctx, l.BlockNumber)
	if err != nil {
		err = fmt.Errorf("%w: block %d: %w", pkgexporter.ErrEnrichment, l.BlockNumber, err)
		e.skip("enrichment", l, err)
		return nil, err
	}

	event := newEvent(id, decoded, timestamp)

	fresh := true
	if err := e.store.Insert(ctx, store.CollectionEvents, id, event); err != nil {
		if !errors.Is(err, store.ErrDuplicateKey) {
			e.failed.Add(1)
			EventFailedInc(e.spec.Name)
			return nil, fmt.Errorf("%w: event %s: %w", pkgexporter.ErrPersistence, id, err)
		}
		fresh = false
		e.log.Infow("event already stored", "id", id, "event", decoded.Name)
	}

	if fresh && e.publisher != nil {
		e.publisher.Broadcast(push.TopicNewEvent, event)
	}

	e.processed.Add(1)
	EventExportedInc(e.spec.Name, mode)
	e.log.Debugw("event exported", "id", id, "event", decoded.Name, "mode", mode)

	return e.addresses(decoded), nil
}

func (e *Exporter) validate(l types.Log) (*contracts.DecodedLog, error) {
	if l.Removed {
		return nil, fmt.Errorf("%w: removed log", pkgexporter.ErrInvalidEvent)
	}

	decoded, err := e.binding.DecodeLog(l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgexporter.ErrInvalidEvent, err)
	}
	if decoded.Name == "" {
		return nil, fmt.Errorf("%w: unknown event", pkgexporter.ErrInvalidEvent)
	}
	if !e.spec.Accepts(decoded.Name) {
		return nil, fmt.Errorf("%w: %s not exported by %s", pkgexporter.ErrInvalidEvent, decoded.Name, e.spec.Name)
	}

	return decoded, nil
}

func (e *Exporter) skip(reason string, l types.Log, err error) {
	e.skipped.Add(1)
	EventSkippedInc(e.spec.Name, reason)
	e.log.Warnw("event skipped",
		"block", l.BlockNumber,
		"tx", l.TxHash.Hex(),
		"logIndex", l.Index,
		"error", err)
}

// blockTime returns the timestamp of block, reusing the last lookup since
// consecutive logs usually share a block.
func (e *Exporter) blockTime(ctx context.Context, block uint64) (uint64, error) {
	e.tsMu.Lock()
	if e.tsValid && e.tsBlock == block {
		ts := e.tsValue
		e.tsMu.Unlock()
		return ts, nil
	}
	e.tsMu.Unlock()

	header, err := e.binding.Client().HeaderByNumber(ctx, new(big.Int).SetUint64(block))
	if err != nil {
		return 0, err
	}
	if header == nil {
		return 0, errors.New("block not found")
	}

	e.tsMu.Lock()
	e.tsBlock, e.tsValue, e.tsValid = block, header.Time, true
	e.tsMu.Unlock()

	return header.Time, nil
}

func (e *Exporter) addresses(decoded *contracts.DecodedLog) []common.Address {
	set := newAddressSet()
	for _, name := range e.spec.AddressArgs[decoded.Name] {
		if addr, ok := decoded.AddressArg(name); ok {
			set.add(addr)
		}
	}

	return set.list()
}

func (e *Exporter) saveCheckpoint(ctx context.Context, block uint64) error {
	saved, err := e.checkpoint.Save(ctx, block)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgexporter.ErrPersistence, err)
	}
	if saved {
		CheckpointSet(e.spec.Name, block)
		e.log.Debugw("checkpoint saved", "block", block)
	}

	return nil
}

func (e *Exporter) exportBalances(ctx context.Context, addrs []common.Address) {
	if !e.spec.ExportBalances || e.balances == nil || len(addrs) == 0 {
		return
	}

	e.balances.Export(ctx, addrs)
}

func newEvent(id string, decoded *contracts.DecodedLog, timestamp uint64) Event {
	values := make(map[string]any, len(decoded.Values))
	for k, v := range decoded.Values {
		values[k] = contracts.NormalizeValue(v)
	}

	l := decoded.Log

	return Event{
		ID: id,
		MetaData: EventMeta{
			Address:          l.Address.Hex(),
			Event:            decoded.Name,
			Signature:        decoded.Signature,
			ReturnValues:     values,
			BlockNumber:      l.BlockNumber,
			BlockHash:        l.BlockHash.Hex(),
			TransactionHash:  l.TxHash.Hex(),
			TransactionIndex: l.TxIndex,
			LogIndex:         l.Index,
			Timestamp:        timestamp,
		},
	}
}

// addressSet keeps first-seen order.
type addressSet struct {
	seen  map[common.Address]struct{}
	order []common.Address
}

func newAddressSet() *addressSet {
	return &addressSet{seen: make(map[common.Address]struct{})}
}

func (s *addressSet) add(addrs ...common.Address) {
	for _, a := range addrs {
		if _, ok := s.seen[a]; ok {
			continue
		}
		s.seen[a] = struct{}{}
		s.order = append(s.order, a)
	}
}

func (s *addressSet) list() []common.Address {
	return s.order
}
